// Package tensormap defines the TensorMap feature descriptor: a named
// specification of how one input or output signal of a model is extracted,
// shaped, and interpreted. TensorMaps are the currency of the whole
// configuration surface; flags name them, catalogs define them, and the
// resolver validates them against each other.
package tensormap

import (
	"fmt"
	"sort"
	"strings"
)

// Interpretation describes how the values of a tensor are to be understood
// by loss functions and metrics downstream.
type Interpretation string

const (
	Continuous  Interpretation = "continuous"
	Categorical Interpretation = "categorical"
	Language    Interpretation = "language"
	Embedding   Interpretation = "embedding"
	TimeToEvent Interpretation = "time_to_event"
)

// ValidInterpretation reports whether s names a known interpretation.
func ValidInterpretation(s string) bool {
	switch Interpretation(s) {
	case Continuous, Categorical, Language, Embedding, TimeToEvent:
		return true
	}
	return false
}

// TimeSeriesOrder selects which samples of a time series a derived
// TensorMap reads.
type TimeSeriesOrder string

const (
	OrderNone   TimeSeriesOrder = ""
	OrderNewest TimeSeriesOrder = "newest"
	OrderOldest TimeSeriesOrder = "oldest"
	OrderRandom TimeSeriesOrder = "random"
)

// Normalization describes the value transform applied to a tensor before it
// reaches the model. Kind selects which of the field pairs is meaningful.
type Normalization struct {
	Kind string // "zscore" or "minmax"
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

// TensorMap is a feature descriptor. The zero value is not useful; catalogs
// and generators produce fully populated instances.
type TensorMap struct {
	// Name is the fully qualified dotted path, e.g. "ukb.ecg.ecg_rest".
	Name string
	// Shape is the tensor shape excluding the batch axis. The final axis is
	// the channel axis.
	Shape []int
	Interpretation Interpretation
	// ChannelMap assigns a name to each index of the channel axis.
	ChannelMap map[string]int
	// Parents names TensorMaps this map is derived from. Outputs are sorted
	// so that parents are built before their children.
	Parents []string
	Normalization *Normalization
	// PathPrefix locates the signal inside a source archive.
	PathPrefix string
	Loss       string
	Activation string
	Metrics    []string

	// Time series fields, set only on maps derived with a _newest, _oldest
	// or _random suffix.
	TimeSeriesLimit int
	TimeSeriesOrder TimeSeriesOrder
}

// Axes returns the number of axes of the tensor, counting at least one.
func (tm *TensorMap) Axes() int {
	if len(tm.Shape) == 0 {
		return 1
	}
	return len(tm.Shape)
}

// Channels returns the size of the channel axis.
func (tm *TensorMap) Channels() int {
	if len(tm.ChannelMap) > 0 {
		return len(tm.ChannelMap)
	}
	if len(tm.Shape) == 0 {
		return 1
	}
	return tm.Shape[len(tm.Shape)-1]
}

// SameShapeExceptChannels reports whether two maps share every axis size
// except the final channel axis. This is the compatibility requirement for
// U-Net skip connections.
func (tm *TensorMap) SameShapeExceptChannels(other *TensorMap) bool {
	if tm.Axes() != other.Axes() {
		return false
	}
	for i := 0; i < len(tm.Shape)-1; i++ {
		if tm.Shape[i] != other.Shape[i] {
			return false
		}
	}
	return true
}

// HasParent reports whether name is among this map's declared parents.
func (tm *TensorMap) HasParent(name string) bool {
	for _, p := range tm.Parents {
		if p == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Derived maps (time series variants) mutate the
// copy without touching the catalog entry.
func (tm *TensorMap) Clone() *TensorMap {
	out := *tm
	out.Shape = append([]int(nil), tm.Shape...)
	out.Parents = append([]string(nil), tm.Parents...)
	out.Metrics = append([]string(nil), tm.Metrics...)
	if tm.ChannelMap != nil {
		out.ChannelMap = make(map[string]int, len(tm.ChannelMap))
		for k, v := range tm.ChannelMap {
			out.ChannelMap[k] = v
		}
	}
	if tm.Normalization != nil {
		n := *tm.Normalization
		out.Normalization = &n
	}
	return &out
}

// String renders the canonical form of the map. Content-addressed
// identifiers hash this string, so every field that changes model semantics
// must appear here, and map iteration order must not leak in.
func (tm *TensorMap) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%s:", tm.Name, tm.Interpretation)
	shape := make([]string, len(tm.Shape))
	for i, d := range tm.Shape {
		shape[i] = fmt.Sprintf("%d", d)
	}
	fmt.Fprintf(&b, "(%s)", strings.Join(shape, ","))

	if len(tm.ChannelMap) > 0 {
		keys := make([]string, 0, len(tm.ChannelMap))
		for k := range tm.ChannelMap {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(":{")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, "%s=%d", k, tm.ChannelMap[k])
		}
		b.WriteString("}")
	}
	if tm.Normalization != nil {
		n := tm.Normalization
		switch n.Kind {
		case "zscore":
			fmt.Fprintf(&b, ":zscore(%g,%g)", n.Mean, n.Std)
		case "minmax":
			fmt.Fprintf(&b, ":minmax(%g,%g)", n.Min, n.Max)
		}
	}
	if tm.Loss != "" {
		fmt.Fprintf(&b, ":loss=%s", tm.Loss)
	}
	if tm.TimeSeriesOrder != OrderNone {
		fmt.Fprintf(&b, ":series=%s/%d", tm.TimeSeriesOrder, tm.TimeSeriesLimit)
	}
	return b.String()
}
