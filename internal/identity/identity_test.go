package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cardioml/cardioml/internal/tensormap"
)

func ecgMap() *tensormap.TensorMap {
	return &tensormap.TensorMap{
		Name:           "cardioml.tensormap.ukb.ecg.ecg_rest",
		Interpretation: tensormap.Continuous,
		Shape:          []int{600, 12},
		Loss:           "mse",
	}
}

func ageMap() *tensormap.TensorMap {
	return &tensormap.TensorMap{
		Name:           "cardioml.tensormap.ukb.age",
		Interpretation: tensormap.Continuous,
		Shape:          []int{1},
	}
}

func TestTensorMapID(t *testing.T) {
	t.Parallel()

	id := TensorMapID(ecgMap())
	assert.Len(t, id, 64)
	assert.Equal(t, id, TensorMapID(ecgMap()))

	changed := ecgMap()
	changed.Shape = []int{5000, 12}
	assert.NotEqual(t, id, TensorMapID(changed))
}

func TestModelID(t *testing.T) {
	t.Parallel()

	in := []*tensormap.TensorMap{ecgMap()}
	out := []*tensormap.TensorMap{ageMap()}

	id := ModelID(in, out)
	assert.Len(t, id, 64)
	assert.Equal(t, id, ModelID(in, out))

	// Swapping a map between sides changes the identity.
	assert.NotEqual(t, id, ModelID(out, in))

	// Adding an output changes the identity.
	assert.NotEqual(t, id, ModelID(in, []*tensormap.TensorMap{ageMap(), ecgMap()}))
}
