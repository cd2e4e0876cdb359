package registry

import (
	"fmt"
	"strings"

	"github.com/cardioml/cardioml/internal/tensormap"
)

// timeSeriesSuffixes maps a name suffix to the sample ordering of the
// derived tensor map.
var timeSeriesSuffixes = map[string]tensormap.TimeSeriesOrder{
	"_newest": tensormap.OrderNewest,
	"_oldest": tensormap.OrderOldest,
	"_random": tensormap.OrderRandom,
}

// timeSeriesVariant derives a tensor map when name carries a recognized
// time-series suffix. The derived map drops the leading time axis of the
// base map and reads a single sample in the requested order. The bool
// result reports whether the name carried a suffix at all.
func (r *Registry) timeSeriesVariant(name, prefix string) (*tensormap.TensorMap, bool, error) {
	var suffix string
	var order tensormap.TimeSeriesOrder
	for s, o := range timeSeriesSuffixes {
		if strings.HasSuffix(name, s) {
			suffix, order = s, o
			break
		}
	}
	if suffix == "" {
		return nil, false, nil
	}

	baseName := strings.TrimSuffix(name, suffix)
	key, err := qualify(baseName, prefix)
	if err != nil {
		return nil, true, err
	}
	base, ok := r.maps[key]
	if !ok {
		return nil, true, fmt.Errorf("could not resolve base tensor map '%s' for time series variant '%s'", baseName, name)
	}
	if base.Axes() < 2 {
		return nil, true, fmt.Errorf("tensor map '%s' has no time axis to derive '%s' from", baseName, name)
	}

	variant := base.Clone()
	qualifiedName, err := qualify(name, prefix)
	if err != nil {
		return nil, true, err
	}
	variant.Name = qualifiedName
	variant.Shape = variant.Shape[1:]
	variant.TimeSeriesLimit = 1
	variant.TimeSeriesOrder = order
	variant.Metrics = nil
	return variant, true, nil
}
