package registry

import (
	"github.com/cardioml/cardioml/internal/tensormap"
)

// RegisterBuiltins installs the synthetic tensor maps under the test
// namespace. They resolve without any catalog on disk, which keeps smoke
// tests and example recipes self-contained.
func (r *Registry) RegisterBuiltins() error {
	builtins := []*tensormap.TensorMap{
		{
			Name:           DefaultPrefix + ".test.scalar_continuous",
			Interpretation: tensormap.Continuous,
			Shape:          []int{1},
			Loss:           "mse",
		},
		{
			Name:           DefaultPrefix + ".test.signal_1d",
			Interpretation: tensormap.Continuous,
			Shape:          []int{600, 12},
			Loss:           "mse",
		},
		{
			Name:           DefaultPrefix + ".test.image_2d",
			Interpretation: tensormap.Continuous,
			Shape:          []int{32, 32, 1},
			Loss:           "mse",
		},
		{
			Name:           DefaultPrefix + ".test.segmentation_2d",
			Interpretation: tensormap.Categorical,
			Shape:          []int{32, 32, 3},
			ChannelMap:     map[string]int{"background": 0, "lv": 1, "myocardium": 2},
			Parents:        []string{DefaultPrefix + ".test.image_2d"},
			Loss:           "categorical_crossentropy",
		},
		{
			Name:           DefaultPrefix + ".test.label_binary",
			Interpretation: tensormap.Categorical,
			Shape:          []int{2},
			ChannelMap:     map[string]int{"absent": 0, "present": 1},
			Loss:           "categorical_crossentropy",
		},
	}

	for _, tm := range builtins {
		if err := r.Register(tm); err != nil {
			return err
		}
	}
	return nil
}
