// Package registry holds the catalog of tensor maps for one process
// invocation and implements the naming convention used to resolve the
// string identifiers given on the command line.
package registry

import (
	"fmt"
	"strings"

	"github.com/cardioml/cardioml/internal/tensormap"
)

// DefaultPrefix is the root namespace for catalog tensor maps. Lookups with
// an empty prefix must already be rooted here.
const DefaultPrefix = "cardioml.tensormap"

// Registry is the catalog of tensor maps keyed by fully qualified dotted name.
type Registry struct {
	maps map[string]*tensormap.TensorMap
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{maps: make(map[string]*tensormap.TensorMap)}
}

// Register adds a tensor map to the catalog. Registering a name twice is an
// error; catalogs are declarative, not layered.
func (r *Registry) Register(tm *tensormap.TensorMap) error {
	if tm.Name == "" {
		return fmt.Errorf("cannot register a tensor map without a name")
	}
	if _, exists := r.maps[tm.Name]; exists {
		return fmt.Errorf("tensor map '%s' is already registered", tm.Name)
	}
	r.maps[tm.Name] = tm
	return nil
}

// Merge registers every tensor map from the given set.
func (r *Registry) Merge(maps map[string]*tensormap.TensorMap) error {
	for _, tm := range maps {
		if err := r.Register(tm); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of registered tensor maps.
func (r *Registry) Len() int {
	return len(r.maps)
}

// Lookup resolves a command-line identifier into a tensor map.
//
// Resolution order follows the original naming convention:
//  1. A time-series suffix (_newest, _oldest, _random) derives a variant of
//     the base map with the leading time axis dropped.
//  2. Otherwise the name is qualified with the prefix and looked up in the
//     catalog. With an empty prefix the name must already be rooted at
//     DefaultPrefix.
func (r *Registry) Lookup(name, prefix string) (*tensormap.TensorMap, error) {
	if name == "" {
		return nil, fmt.Errorf("tensor map name cannot be empty")
	}

	if tm, ok, err := r.timeSeriesVariant(name, prefix); err != nil {
		return nil, err
	} else if ok {
		return tm, nil
	}

	key, err := qualify(name, prefix)
	if err != nil {
		return nil, err
	}
	tm, ok := r.maps[key]
	if !ok {
		return nil, fmt.Errorf("could not resolve tensor map '%s' (looked up '%s')", name, key)
	}
	return tm, nil
}

// qualify joins a name with its namespace prefix.
func qualify(name, prefix string) (string, error) {
	if prefix == "" {
		if !strings.HasPrefix(name, DefaultPrefix+".") {
			return "", fmt.Errorf("tensor maps must reside under '%s.*', given: %s", DefaultPrefix, name)
		}
		return name, nil
	}
	return prefix + "." + name, nil
}
