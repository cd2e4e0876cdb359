// Package tmapgen builds tensor maps from user-supplied data files rather
// than from the catalog: continuous and categorical labels from CSV columns,
// latent spaces from inference output, and character windows from raw text.
package tmapgen

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/cardioml/cardioml/internal/tensormap"
)

// ContinuousFromFile builds a continuous output tensor map named name from
// one column of a CSV file. With normalize set, the column is scanned and
// z-score normalization derived from its sample mean and deviation. With
// discretization bounds, the map becomes categorical over len(bounds)+1 bins.
func ContinuousFromFile(path, column, name string, normalize bool, discretizationBounds []float64) (*tensormap.TensorMap, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	col, err := columnIndex(header, column, path)
	if err != nil {
		return nil, err
	}

	if len(discretizationBounds) > 0 {
		channels := make(map[string]int, len(discretizationBounds)+1)
		for i := 0; i <= len(discretizationBounds); i++ {
			channels[binName(discretizationBounds, i)] = i
		}
		return &tensormap.TensorMap{
			Name:           name,
			Interpretation: tensormap.Categorical,
			Shape:          []int{len(channels)},
			ChannelMap:     channels,
			Loss:           "categorical_crossentropy",
		}, nil
	}

	tm := &tensormap.TensorMap{
		Name:           name,
		Interpretation: tensormap.Continuous,
		Shape:          []int{1},
		ChannelMap:     map[string]int{column: 0},
		Loss:           "mse",
	}

	if normalize {
		mean, std, err := columnStats(rows, col, column, path)
		if err != nil {
			return nil, err
		}
		tm.Normalization = &tensormap.Normalization{Kind: "zscore", Mean: mean, Std: std}
	}
	return tm, nil
}

// CategoricalFromFile builds a categorical output tensor map named name
// whose channels are the distinct values of one CSV column, indexed in
// sorted order so the channel map is stable across runs.
func CategoricalFromFile(path, column, name string) (*tensormap.TensorMap, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	col, err := columnIndex(header, column, path)
	if err != nil {
		return nil, err
	}

	distinct := make(map[string]struct{})
	for _, row := range rows {
		if col < len(row) && row[col] != "" {
			distinct[row[col]] = struct{}{}
		}
	}
	if len(distinct) == 0 {
		return nil, fmt.Errorf("column '%s' of %s has no values to build categories from", column, path)
	}

	values := make([]string, 0, len(distinct))
	for v := range distinct {
		values = append(values, v)
	}
	sort.Strings(values)

	channels := make(map[string]int, len(values))
	for i, v := range values {
		channels[v] = i
	}
	return &tensormap.TensorMap{
		Name:           name,
		Interpretation: tensormap.Categorical,
		Shape:          []int{len(channels)},
		ChannelMap:     channels,
		Loss:           "categorical_crossentropy",
	}, nil
}

// LatentFromFile builds an embedding tensor map named name from a latent
// space CSV whose first column is the sample identifier and whose remaining
// columns are the latent dimensions.
func LatentFromFile(path, name string) (*tensormap.TensorMap, error) {
	header, _, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("latent file %s needs a sample column plus at least one latent dimension", path)
	}
	return &tensormap.TensorMap{
		Name:           name,
		Interpretation: tensormap.Embedding,
		Shape:          []int{len(header) - 1},
		Loss:           "mse",
	}, nil
}

func binName(bounds []float64, i int) string {
	switch {
	case i == 0:
		return fmt.Sprintf("lt_%g", bounds[0])
	case i == len(bounds):
		return fmt.Sprintf("gte_%g", bounds[len(bounds)-1])
	default:
		return fmt.Sprintf("in_%g_%g", bounds[i-1], bounds[i])
	}
}

func columnStats(rows [][]string, col int, column, path string) (mean, std float64, err error) {
	var sum, sumSq float64
	var n int
	for _, row := range rows {
		if col >= len(row) || row[col] == "" {
			continue
		}
		v, perr := strconv.ParseFloat(row[col], 64)
		if perr != nil {
			return 0, 0, fmt.Errorf("column '%s' of %s has non-numeric value '%s'", column, path, row[col])
		}
		sum += v
		sumSq += v * v
		n++
	}
	if n < 2 {
		return 0, 0, fmt.Errorf("column '%s' of %s has %d values, need at least 2 to normalize", column, path, n)
	}
	mean = sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance <= 0 {
		return 0, 0, fmt.Errorf("column '%s' of %s is constant, cannot z-score normalize", column, path)
	}
	std = math.Sqrt(variance)
	return mean, std, nil
}

func columnIndex(header []string, column, path string) (int, error) {
	for i, h := range header {
		if h == column {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column '%s' not found in %s", column, path)
}

func readCSV(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s is empty", path)
	}
	return records[0], records[1:], nil
}
