package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardioml/cardioml/internal/tensormap"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := New()
	require.NoError(t, r.Register(&tensormap.TensorMap{
		Name:           DefaultPrefix + ".ukb.ecg.ecg_rest",
		Interpretation: tensormap.Continuous,
		Shape:          []int{600, 12},
	}))
	require.NoError(t, r.Register(&tensormap.TensorMap{
		Name:           DefaultPrefix + ".mgb.ecg.waveform",
		Interpretation: tensormap.Continuous,
		Shape:          []int{10, 2500, 12},
	}))
	return r
}

func TestRegister(t *testing.T) {
	t.Parallel()

	r := New()
	tm := &tensormap.TensorMap{Name: "a", Shape: []int{1}}
	require.NoError(t, r.Register(tm))
	assert.Equal(t, 1, r.Len())

	err := r.Register(tm)
	assert.ErrorContains(t, err, "already registered")

	err = r.Register(&tensormap.TensorMap{})
	assert.ErrorContains(t, err, "without a name")
}

func TestLookup(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(t)

	t.Run("with prefix", func(t *testing.T) {
		tm, err := r.Lookup("ukb.ecg.ecg_rest", DefaultPrefix)
		require.NoError(t, err)
		assert.Equal(t, DefaultPrefix+".ukb.ecg.ecg_rest", tm.Name)
	})

	t.Run("empty prefix requires rooted name", func(t *testing.T) {
		tm, err := r.Lookup(DefaultPrefix+".ukb.ecg.ecg_rest", "")
		require.NoError(t, err)
		assert.Equal(t, DefaultPrefix+".ukb.ecg.ecg_rest", tm.Name)

		_, err = r.Lookup("ukb.ecg.ecg_rest", "")
		assert.ErrorContains(t, err, "must reside under")
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := r.Lookup("", DefaultPrefix)
		assert.ErrorContains(t, err, "cannot be empty")
	})

	t.Run("unresolvable name", func(t *testing.T) {
		_, err := r.Lookup("ukb.ecg.missing", DefaultPrefix)
		assert.ErrorContains(t, err, "could not resolve")
	})
}

func TestLookupTimeSeriesVariant(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(t)

	t.Run("newest drops the leading time axis", func(t *testing.T) {
		tm, err := r.Lookup("mgb.ecg.waveform_newest", DefaultPrefix)
		require.NoError(t, err)
		assert.Equal(t, DefaultPrefix+".mgb.ecg.waveform_newest", tm.Name)
		assert.Equal(t, []int{2500, 12}, tm.Shape)
		assert.Equal(t, tensormap.OrderNewest, tm.TimeSeriesOrder)
		assert.Equal(t, 1, tm.TimeSeriesLimit)
	})

	t.Run("oldest and random resolve too", func(t *testing.T) {
		for _, suffix := range []string{"_oldest", "_random"} {
			tm, err := r.Lookup("mgb.ecg.waveform"+suffix, DefaultPrefix)
			require.NoError(t, err)
			assert.NotEqual(t, tensormap.OrderNone, tm.TimeSeriesOrder)
		}
	})

	t.Run("base map is untouched", func(t *testing.T) {
		_, err := r.Lookup("mgb.ecg.waveform_newest", DefaultPrefix)
		require.NoError(t, err)
		base, err := r.Lookup("mgb.ecg.waveform", DefaultPrefix)
		require.NoError(t, err)
		assert.Equal(t, []int{10, 2500, 12}, base.Shape)
		assert.Equal(t, tensormap.OrderNone, base.TimeSeriesOrder)
	})

	t.Run("missing base", func(t *testing.T) {
		_, err := r.Lookup("mgb.ecg.missing_newest", DefaultPrefix)
		assert.ErrorContains(t, err, "time series variant")
	})

	t.Run("scalar base has no time axis", func(t *testing.T) {
		r2 := New()
		require.NoError(t, r2.Register(&tensormap.TensorMap{
			Name:  DefaultPrefix + ".scalar",
			Shape: []int{1},
		}))
		_, err := r2.Lookup("scalar_newest", DefaultPrefix)
		assert.ErrorContains(t, err, "no time axis")
	})
}

func TestRegisterBuiltins(t *testing.T) {
	t.Parallel()

	r := New()
	require.NoError(t, r.RegisterBuiltins())

	tm, err := r.Lookup("test.segmentation_2d", DefaultPrefix)
	require.NoError(t, err)
	assert.Equal(t, tensormap.Categorical, tm.Interpretation)
	assert.Len(t, tm.ChannelMap, 3)
	assert.Equal(t, []string{DefaultPrefix + ".test.image_2d"}, tm.Parents)

	// Builtins must survive their own integrity check.
	assert.NoError(t, r.Validate(context.Background()))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("missing parent", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Register(&tensormap.TensorMap{
			Name:    "a",
			Shape:   []int{1},
			Parents: []string{"ghost"},
		}))
		err := r.Validate(context.Background())
		assert.ErrorContains(t, err, "parent 'ghost'")
	})

	t.Run("zero shape dimension", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Register(&tensormap.TensorMap{
			Name:  "a",
			Shape: []int{0, 12},
		}))
		err := r.Validate(context.Background())
		assert.ErrorContains(t, err, "shape dimensions must be positive, got 0")
	})

	t.Run("empty shape with channels", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Register(&tensormap.TensorMap{
			Name:       "a",
			ChannelMap: map[string]int{"x": 0},
		}))
		err := r.Validate(context.Background())
		assert.ErrorContains(t, err, "shape must not be empty")
	})

	t.Run("sparse channel indices", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Register(&tensormap.TensorMap{
			Name:       "a",
			Shape:      []int{4},
			ChannelMap: map[string]int{"x": 0, "y": 5},
		}))
		err := r.Validate(context.Background())
		assert.ErrorContains(t, err, "outside [0, 2)")
	})

	t.Run("duplicate channel indices", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Register(&tensormap.TensorMap{
			Name:       "a",
			Shape:      []int{4},
			ChannelMap: map[string]int{"x": 0, "y": 0},
		}))
		err := r.Validate(context.Background())
		assert.ErrorContains(t, err, "share index 0")
	})

	t.Run("channels overflow the channel axis", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Register(&tensormap.TensorMap{
			Name:       "a",
			Shape:      []int{2},
			ChannelMap: map[string]int{"x": 0, "y": 1, "z": 2},
		}))
		err := r.Validate(context.Background())
		assert.ErrorContains(t, err, "channel axis has size 2")
	})
}
