package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cardioml/cardioml/internal/app"
	"github.com/cardioml/cardioml/internal/cli"
	"github.com/cardioml/cardioml/internal/hcl"
)

// main is the entrypoint for the recipes configuration tool.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(outW io.Writer, args []string) error {
	arguments, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	commandLine := strings.Join(append([]string{"recipes"}, args...), " ")
	loader := hcl.NewLoader()
	recipesApp := app.NewApp(outW, arguments, loader, commandLine)
	defer recipesApp.Close()

	return recipesApp.Run(context.Background())
}
