// Package hcl loads tensor-map catalogs from .hcl files and translates them
// into the tensormap model.
package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/cardioml/cardioml/internal/ctxlog"
	"github.com/cardioml/cardioml/internal/fsutil"
	"github.com/cardioml/cardioml/internal/schema"
	"github.com/cardioml/cardioml/internal/tensormap"
)

// Loader parses catalog files. A single hclparse.Parser is kept so that
// diagnostics can reference every file seen during one load.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a new catalog Loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load discovers all .hcl files under the given paths, parses them, and
// returns the translated tensor maps keyed by their dotted name. A name
// defined twice is an error; catalogs are declarative, not layered.
func (l *Loader) Load(ctx context.Context, paths ...string) (map[string]*tensormap.TensorMap, error) {
	logger := ctxlog.FromContext(ctx)
	maps := make(map[string]*tensormap.TensorMap)

	for _, path := range paths {
		files, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to discover catalog files: %w", err)
		}
		logger.Debug("Catalog files discovered.", "path", path, "count", len(files))

		for _, file := range files {
			fileMaps, err := l.loadFile(file)
			if err != nil {
				return nil, err
			}
			for name, tm := range fileMaps {
				if _, exists := maps[name]; exists {
					return nil, fmt.Errorf("tensor map '%s' defined more than once (second definition in %s)", name, file)
				}
				maps[name] = tm
			}
		}
	}

	logger.Debug("Catalog load complete.", "tensor_maps", len(maps))
	return maps, nil
}

// loadFile parses one catalog file and translates every tensor_map block.
func (l *Loader) loadFile(path string) (map[string]*tensormap.TensorMap, error) {
	hclFile, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, diags)
	}

	var parsed schema.CatalogFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode catalog file %s: %w", path, diags)
	}

	out := make(map[string]*tensormap.TensorMap, len(parsed.TensorMaps))
	for _, block := range parsed.TensorMaps {
		tm, err := translateTensorMap(block)
		if err != nil {
			return nil, fmt.Errorf("in catalog file %s: %w", path, err)
		}
		if _, exists := out[tm.Name]; exists {
			return nil, fmt.Errorf("tensor map '%s' defined more than once in %s", tm.Name, path)
		}
		out[tm.Name] = tm
	}
	return out, nil
}
