package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardioml/cardioml/internal/config"
	"github.com/cardioml/cardioml/internal/hcl"
)

const ecgCatalog = `
tensor_map "cardioml.tensormap.ukb.ecg.ecg_rest" {
  interpretation = "continuous"
  shape          = [600, 12]
  loss           = "mse"
}

tensor_map "cardioml.tensormap.ukb.age" {
  interpretation = "continuous"
  shape          = [1]
  loss           = "mse"
  normalization {
    mean = 56.0
    std  = 8.0
  }
}
`

func testArguments(t *testing.T, catalog string) *config.Arguments {
	t.Helper()
	dir := t.TempDir()

	args := config.NewArguments()
	args.ID = "app_test"
	args.OutputFolder = filepath.Join(dir, "out")

	if catalog != "" {
		path := filepath.Join(dir, "catalog.hcl")
		require.NoError(t, os.WriteFile(path, []byte(catalog), 0o600))
		args.Tensormaps = path
	}
	return args
}

func TestAppRun(t *testing.T) {
	t.Parallel()

	// Arrange
	args := testArguments(t, ecgCatalog)
	args.InputTensors = []string{"ukb.ecg.ecg_rest"}
	args.OutputTensors = []string{"ukb.age"}
	var out bytes.Buffer
	application := NewApp(&out, args, hcl.NewLoader(), "recipes --id app_test")
	defer application.Close()

	// Act
	err := application.Run(context.Background())

	// Assert
	require.NoError(t, err)

	model := application.Model()
	require.NotNil(t, model)
	require.Len(t, model.Inputs, 1)
	assert.Equal(t, "cardioml.tensormap.ukb.ecg.ecg_rest", model.Inputs[0].Name)
	require.Len(t, model.Outputs, 1)
	assert.Len(t, model.ModelID, 64)

	// Both reproducibility artifacts land under <output_folder>/<id>/.
	runDir := filepath.Join(args.OutputFolder, "app_test")
	entries, err := os.ReadDir(runDir)
	require.NoError(t, err)
	var sawArguments, sawLog bool
	for _, e := range entries {
		switch {
		case len(e.Name()) > 10 && e.Name()[:10] == "arguments_":
			sawArguments = true
		case len(e.Name()) > 4 && e.Name()[:4] == "log_":
			sawLog = true
		}
	}
	assert.True(t, sawArguments, "expected an arguments_<timestamp>.txt file")
	assert.True(t, sawLog, "expected a log_<timestamp> file")

	assert.Contains(t, out.String(), "Resolution complete.")
}

func TestAppRunBuiltinsOnly(t *testing.T) {
	t.Parallel()

	args := testArguments(t, "")
	args.InputTensors = []string{"test.signal_1d"}
	args.OutputTensors = []string{"test.label_binary"}
	var out bytes.Buffer
	application := NewApp(&out, args, hcl.NewLoader(), "recipes")
	defer application.Close()

	require.NoError(t, application.Run(context.Background()))
	assert.Positive(t, application.Registry().Len())
}

func TestAppRunCatalogError(t *testing.T) {
	t.Parallel()

	args := testArguments(t, `tensor_map "broken" {`)
	var out bytes.Buffer
	application := NewApp(&out, args, hcl.NewLoader(), "recipes")
	defer application.Close()

	err := application.Run(context.Background())
	assert.ErrorContains(t, err, "failed to load tensor map catalog")
}

func TestAppRunResolutionError(t *testing.T) {
	t.Parallel()

	args := testArguments(t, ecgCatalog)
	args.InputTensors = []string{"ukb.ecg.ecg_rest"}
	args.OutputTensors = []string{"ukb.no_such_map"}
	var out bytes.Buffer
	application := NewApp(&out, args, hcl.NewLoader(), "recipes")
	defer application.Close()

	err := application.Run(context.Background())
	assert.ErrorContains(t, err, "could not resolve tensor map")

	// The failed run still leaves its arguments file behind.
	matches, globErr := filepath.Glob(filepath.Join(args.OutputFolder, "app_test", "arguments_*.txt"))
	require.NoError(t, globErr)
	assert.Len(t, matches, 1)
}

func TestAppRunLogFileMirrorsConsole(t *testing.T) {
	t.Parallel()

	args := testArguments(t, "")
	args.InputTensors = []string{"test.scalar_continuous"}
	args.OutputTensors = []string{"test.label_binary"}
	var out bytes.Buffer
	application := NewApp(&out, args, hcl.NewLoader(), "recipes")
	defer application.Close()

	require.NoError(t, application.Run(context.Background()))
	require.NoError(t, application.Close())

	files, err := filepath.Glob(filepath.Join(args.OutputFolder, "app_test", "log_*"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	raw, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Resolution complete.")
}

func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	logger := newLogger("WARNING", "text", &out)
	logger.Info("hidden")
	logger.Warn("visible")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "visible")

	out.Reset()
	logger = newLogger("DEBUG", "json", &out)
	logger.Debug("seen")
	assert.Contains(t, out.String(), `"msg":"seen"`)
}
