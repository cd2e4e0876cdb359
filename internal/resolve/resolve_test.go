package resolve

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardioml/cardioml/internal/config"
	"github.com/cardioml/cardioml/internal/registry"
	"github.com/cardioml/cardioml/internal/tensormap"
)

func builtinRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	require.NoError(t, reg.RegisterBuiltins())
	return reg
}

func TestResolve(t *testing.T) {
	t.Parallel()

	args := config.NewArguments()
	args.InputTensors = []string{"test.image_2d"}
	args.OutputTensors = []string{"test.segmentation_2d", "test.label_binary"}
	args.UConnect = []config.Pair{{In: "test.image_2d", Out: "test.segmentation_2d"}}

	model, err := Resolve(context.Background(), args, builtinRegistry(t))
	require.NoError(t, err)

	require.Len(t, model.Inputs, 1)
	assert.Equal(t, "cardioml.tensormap.test.image_2d", model.Inputs[0].Name)
	require.Len(t, model.Outputs, 2)

	sc := model.UConnect["cardioml.tensormap.test.image_2d"]
	require.NotNil(t, sc)
	assert.Contains(t, sc.Outs, "cardioml.tensormap.test.segmentation_2d")

	assert.Len(t, model.InputIDs, 1)
	assert.Len(t, model.OutputIDs, 2)
	assert.Len(t, model.ModelID, 64)
}

func TestResolveHashesAreStable(t *testing.T) {
	t.Parallel()

	resolveOnce := func(id string) *Model {
		args := config.NewArguments()
		args.ID = id
		args.InputTensors = []string{"test.signal_1d"}
		args.OutputTensors = []string{"test.label_binary"}
		model, err := Resolve(context.Background(), args, builtinRegistry(t))
		require.NoError(t, err)
		return model
	}

	first := resolveOnce("run_a")
	second := resolveOnce("run_b")

	// The same input/output configuration hashes identically; the run id
	// never contributes to the model identifier.
	assert.Equal(t, first.ModelID, second.ModelID)
	assert.Equal(t, first.InputIDs, second.InputIDs)
	assert.Equal(t, first.OutputIDs, second.OutputIDs)
}

func TestResolveUConnectErrors(t *testing.T) {
	t.Parallel()

	t.Run("shape mismatch", func(t *testing.T) {
		reg := builtinRegistry(t)
		require.NoError(t, reg.Register(&tensormap.TensorMap{
			Name:           "cardioml.tensormap.test.image_2d_wide",
			Interpretation: tensormap.Continuous,
			Shape:          []int{64, 32, 1},
		}))

		args := config.NewArguments()
		args.InputTensors = []string{"test.image_2d"}
		args.OutputTensors = []string{"test.image_2d_wide"}
		args.UConnect = []config.Pair{{In: "test.image_2d", Out: "test.image_2d_wide"}}

		_, err := Resolve(context.Background(), args, reg)
		assert.ErrorContains(t, err, "requires matching shapes besides the channel dimension")
	})

	t.Run("1d tensor maps", func(t *testing.T) {
		args := config.NewArguments()
		args.InputTensors = []string{"test.scalar_continuous"}
		args.OutputTensors = []string{"test.label_binary"}
		args.UConnect = []config.Pair{{In: "test.scalar_continuous", Out: "test.label_binary"}}

		_, err := Resolve(context.Background(), args, builtinRegistry(t))
		assert.ErrorContains(t, err, "cannot u_connect 1d tensor maps")
	})

	t.Run("unresolvable name", func(t *testing.T) {
		args := config.NewArguments()
		args.InputTensors = []string{"test.image_2d"}
		args.OutputTensors = []string{"test.segmentation_2d"}
		args.UConnect = []config.Pair{{In: "test.no_such_map", Out: "test.segmentation_2d"}}

		_, err := Resolve(context.Background(), args, builtinRegistry(t))
		assert.ErrorContains(t, err, "could not resolve tensor map")
	})

	t.Run("target not an output", func(t *testing.T) {
		reg := builtinRegistry(t)
		require.NoError(t, reg.Register(&tensormap.TensorMap{
			Name:           "cardioml.tensormap.test.segmentation_2d_alt",
			Interpretation: tensormap.Categorical,
			Shape:          []int{32, 32, 5},
		}))

		args := config.NewArguments()
		args.InputTensors = []string{"test.image_2d"}
		args.OutputTensors = []string{"test.segmentation_2d"}
		args.UConnect = []config.Pair{{In: "test.image_2d", Out: "test.segmentation_2d_alt"}}

		_, err := Resolve(context.Background(), args, reg)
		assert.ErrorContains(t, err, "is not among the resolved output tensor maps")
	})
}

func TestResolvePairs(t *testing.T) {
	t.Parallel()

	args := config.NewArguments()
	args.InputTensors = []string{"test.signal_1d", "test.image_2d"}
	args.OutputTensors = []string{"test.label_binary"}
	args.Pairs = []config.Pair{{In: "test.signal_1d", Out: "test.image_2d"}}

	model, err := Resolve(context.Background(), args, builtinRegistry(t))
	require.NoError(t, err)
	require.Len(t, model.Pairs, 1)
	assert.Equal(t, "cardioml.tensormap.test.signal_1d", model.Pairs[0].A.Name)
	assert.Equal(t, "cardioml.tensormap.test.image_2d", model.Pairs[0].B.Name)
}

func TestResolveOutputsDeduped(t *testing.T) {
	t.Parallel()

	args := config.NewArguments()
	args.InputTensors = []string{"test.image_2d"}
	args.OutputTensors = []string{"test.label_binary", "test.segmentation_2d", "test.label_binary"}

	model, err := Resolve(context.Background(), args, builtinRegistry(t))
	require.NoError(t, err)
	require.Len(t, model.Outputs, 2)
}

func TestResolveParentSort(t *testing.T) {
	t.Parallel()

	reg := builtinRegistry(t)
	// image_2d is the parent of segmentation_2d, so when both are outputs
	// the parent must come first regardless of the order the user gave.
	args := config.NewArguments()
	args.InputTensors = []string{"test.signal_1d"}
	args.OutputTensors = []string{"test.segmentation_2d", "test.image_2d"}

	model, err := Resolve(context.Background(), args, reg)
	require.NoError(t, err)
	require.Len(t, model.Outputs, 2)
	assert.Equal(t, "cardioml.tensormap.test.image_2d", model.Outputs[0].Name)
	assert.Equal(t, "cardioml.tensormap.test.segmentation_2d", model.Outputs[1].Name)
}

func TestResolveParentSortDisabled(t *testing.T) {
	t.Parallel()

	args := config.NewArguments()
	args.ParentSort = false
	args.InputTensors = []string{"test.signal_1d"}
	args.OutputTensors = []string{"test.segmentation_2d", "test.image_2d"}

	model, err := Resolve(context.Background(), args, builtinRegistry(t))
	require.NoError(t, err)
	assert.Equal(t, "cardioml.tensormap.test.segmentation_2d", model.Outputs[0].Name)
}

func TestResolveProtected(t *testing.T) {
	t.Parallel()

	args := config.NewArguments()
	args.InputTensors = []string{"test.signal_1d"}
	args.OutputTensors = []string{"test.label_binary"}
	args.ProtectedTensors = []string{"test.scalar_continuous"}

	model, err := Resolve(context.Background(), args, builtinRegistry(t))
	require.NoError(t, err)
	require.Len(t, model.Protected, 1)
	assert.Equal(t, "cardioml.tensormap.test.scalar_continuous", model.Protected[0].Name)
}

func TestResolveLabelWeights(t *testing.T) {
	t.Parallel()

	t.Run("matching arity", func(t *testing.T) {
		args := config.NewArguments()
		args.InputTensors = []string{"test.image_2d"}
		args.OutputTensors = []string{"test.segmentation_2d", "test.label_binary"}
		args.LabelWeights = []float64{1, 5, 5, 0.5, 0.5}

		_, err := Resolve(context.Background(), args, builtinRegistry(t))
		assert.NoError(t, err)
	})

	t.Run("wrong arity", func(t *testing.T) {
		args := config.NewArguments()
		args.InputTensors = []string{"test.image_2d"}
		args.OutputTensors = []string{"test.label_binary"}
		args.LabelWeights = []float64{1, 5, 5}

		_, err := Resolve(context.Background(), args, builtinRegistry(t))
		assert.ErrorContains(t, err, "label_weights has 3 entries but categorical outputs have 2 labels")
	})
}

func TestResolveTextFile(t *testing.T) {
	t.Parallel()

	corpus := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(corpus, []byte("normal sinus rhythm with occasional pvcs"), 0o600))

	args := config.NewArguments()
	args.TextFile = corpus
	args.TextWindow = 8
	args.InputTensors = []string{"placeholder_in"}
	args.OutputTensors = []string{"placeholder_out"}

	model, err := Resolve(context.Background(), args, builtinRegistry(t))
	require.NoError(t, err)

	require.Len(t, model.Inputs, 1)
	assert.Equal(t, "notes_random_text", model.Inputs[0].Name)
	require.Len(t, model.Outputs, 1)
	assert.Equal(t, "notes_random_text_next", model.Outputs[0].Name)
	assert.Equal(t, tensormap.Language, model.Outputs[0].Interpretation)
}

func TestResolveHD5AsText(t *testing.T) {
	t.Parallel()

	args := config.NewArguments()
	args.HD5AsText = "ukb_cardiac_mri"
	args.TextWindow = 16
	args.InputTensors = []string{"placeholder_in"}
	args.OutputTensors = []string{"placeholder_out"}

	model, err := Resolve(context.Background(), args, builtinRegistry(t))
	require.NoError(t, err)

	require.Len(t, model.Inputs, 1)
	assert.Equal(t, "ukb_cardiac_mri_random_pixels", model.Inputs[0].Name)
	assert.Equal(t, []int{4, 4}, model.Inputs[0].Shape)
	require.Len(t, model.Outputs, 1)
	assert.Equal(t, "ukb_cardiac_mri_random_pixels_next", model.Outputs[0].Name)
}

func TestResolveHD5AsTextNeedsPlaceholders(t *testing.T) {
	t.Parallel()

	args := config.NewArguments()
	args.HD5AsText = "ukb_cardiac_mri"

	_, err := Resolve(context.Background(), args, builtinRegistry(t))
	assert.ErrorContains(t, err, "hd5_as_text requires one input_tensors and one output_tensors name")
}

func TestResolveTextFileNeedsPlaceholders(t *testing.T) {
	t.Parallel()

	args := config.NewArguments()
	args.TextFile = "irrelevant.txt"

	_, err := Resolve(context.Background(), args, builtinRegistry(t))
	assert.ErrorContains(t, err, "text_file requires one input_tensors and one output_tensors name")
}

func TestResolveContinuousFile(t *testing.T) {
	t.Parallel()

	labels := filepath.Join(t.TempDir(), "labels.csv")
	require.NoError(t, os.WriteFile(labels, []byte("sample_id,bmi,age\n1000,22.5,40\n1001,27.5,60\n"), 0o600))

	args := config.NewArguments()
	args.InputTensors = []string{"test.signal_1d"}
	args.OutputTensors = []string{"bmi_out", "age_out", "test.label_binary"}
	args.ContinuousFile = labels
	args.ContinuousFileColumns = []string{"bmi", "age"}

	model, err := Resolve(context.Background(), args, builtinRegistry(t))
	require.NoError(t, err)

	require.Len(t, model.Outputs, 3)
	names := []string{model.Outputs[0].Name, model.Outputs[1].Name, model.Outputs[2].Name}
	assert.Contains(t, names, "bmi_out")
	assert.Contains(t, names, "age_out")
	assert.Contains(t, names, "cardioml.tensormap.test.label_binary")
}

func TestResolveLatentFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	latent := filepath.Join(dir, "latent.csv")
	require.NoError(t, os.WriteFile(latent, []byte("sample_id,z0,z1\n1000,0.1,0.2\n"), 0o600))

	args := config.NewArguments()
	args.InputTensors = []string{"latent_in"}
	args.OutputTensors = []string{"latent_out"}
	args.LatentInputFile = latent
	args.LatentOutputFiles = []string{latent}

	model, err := Resolve(context.Background(), args, builtinRegistry(t))
	require.NoError(t, err)

	require.Len(t, model.Inputs, 1)
	assert.Equal(t, "latent_in", model.Inputs[0].Name)
	assert.Equal(t, []int{2}, model.Inputs[0].Shape)
	require.Len(t, model.Outputs, 1)
	assert.Equal(t, "latent_out", model.Outputs[0].Name)
}

func TestResolveInvalidArguments(t *testing.T) {
	t.Parallel()

	args := config.NewArguments()
	args.Epochs = 0

	_, err := Resolve(context.Background(), args, builtinRegistry(t))
	assert.ErrorContains(t, err, "invalid arguments")
}
