// Package app wires the pieces of a recipes invocation together: logger,
// catalog loading, resolution, and the reproducibility artifacts.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cardioml/cardioml/internal/config"
	"github.com/cardioml/cardioml/internal/ctxlog"
	"github.com/cardioml/cardioml/internal/registry"
	"github.com/cardioml/cardioml/internal/resolve"
	"github.com/cardioml/cardioml/internal/runfile"
	"github.com/cardioml/cardioml/internal/tensormap"
)

// CatalogLoader is the interface for a format-specific tensor map catalog
// loader. The hcl package provides the concrete implementation.
type CatalogLoader interface {
	Load(ctx context.Context, paths ...string) (map[string]*tensormap.TensorMap, error)
}

// App encapsulates one invocation's dependencies, configuration, and lifecycle.
type App struct {
	outW        io.Writer
	logger      *slog.Logger
	args        *config.Arguments
	loader      CatalogLoader
	commandLine string

	registry *registry.Registry
	model    *resolve.Model
	logFile  *os.File
}

// NewApp is the constructor for the main application. commandLine is the
// reconstructed invocation echoed into the arguments file.
func NewApp(outW io.Writer, args *config.Arguments, loader CatalogLoader, commandLine string) *App {
	return &App{
		outW:        outW,
		logger:      newLogger(args.LoggingLevel, args.LoggingFormat, outW),
		args:        args,
		loader:      loader,
		commandLine: commandLine,
	}
}

// Run executes the whole single-pass pipeline: open the run directory and
// log file, load and validate the catalog, resolve the arguments, and write
// the arguments file. Any error is fatal; there is no retry or recovery.
func (app *App) Run(ctx context.Context) error {
	now := time.Now()

	logFile, err := runfile.OpenLog(app.args, now)
	if err != nil {
		return err
	}
	app.logFile = logFile
	// From here on, log lines land both on the console and in the run log.
	app.logger = newLogger(app.args.LoggingLevel, app.args.LoggingFormat, io.MultiWriter(app.outW, logFile))
	ctx = ctxlog.WithLogger(ctx, app.logger)
	app.logger.Debug("Logger configured successfully.", "run_dir", runfile.RunDir(app.args))

	// The arguments file is written before resolution so a failed run still
	// leaves a record of what was attempted.
	path, err := runfile.WriteArguments(app.args, app.commandLine, now)
	if err != nil {
		return err
	}
	app.logger.Info("Command line was:", "command", app.commandLine)
	app.logger.Info("Arguments file written.", "path", path)

	if err := app.loadCatalog(ctx); err != nil {
		return err
	}

	model, err := resolve.Resolve(ctx, app.args, app.registry)
	if err != nil {
		return err
	}
	app.model = model
	return nil
}

// loadCatalog builds the registry: builtins first, then every catalog file
// under the tensormaps path, then an integrity check over the whole set.
func (app *App) loadCatalog(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	reg := registry.New()
	if err := reg.RegisterBuiltins(); err != nil {
		return fmt.Errorf("failed to register builtin tensor maps: %w", err)
	}

	if app.args.Tensormaps != "" {
		maps, err := app.loader.Load(ctx, app.args.Tensormaps)
		if err != nil {
			return fmt.Errorf("failed to load tensor map catalog: %w", err)
		}
		if err := reg.Merge(maps); err != nil {
			return err
		}
	}

	if err := reg.Validate(ctx); err != nil {
		return err
	}
	logger.Info("Tensor map catalog loaded.", "tensor_maps", reg.Len())
	app.registry = reg
	return nil
}

// Model returns the resolved model configuration. It is nil before Run.
func (app *App) Model() *resolve.Model {
	return app.model
}

// Registry returns the application's catalog. This is primarily for testing.
func (app *App) Registry() *registry.Registry {
	return app.registry
}

// Close releases the run log file handle.
func (app *App) Close() error {
	if app.logFile != nil {
		return app.logFile.Close()
	}
	return nil
}
