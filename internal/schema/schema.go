// Package schema declares the HCL shapes of tensor-map catalog files. These
// structs are decode targets only; internal/hcl translates them into the
// tensormap model.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// Normalization is the optional `normalization` block of a tensor_map.
// Either mean/std (z-score) or min/max may be set, not both.
type Normalization struct {
	Mean *float64 `hcl:"mean,optional"`
	Std  *float64 `hcl:"std,optional"`
	Min  *float64 `hcl:"min,optional"`
	Max  *float64 `hcl:"max,optional"`
}

// TensorMap represents a `tensor_map "dotted.name" { ... }` block.
type TensorMap struct {
	Name           string         `hcl:"name,label"`
	Interpretation string         `hcl:"interpretation"`
	Shape          []int          `hcl:"shape"`
	Channels       hcl.Expression `hcl:"channels,optional"`
	Parents        []string       `hcl:"parents,optional"`
	PathPrefix     string         `hcl:"path_prefix,optional"`
	Loss           string         `hcl:"loss,optional"`
	Activation     string         `hcl:"activation,optional"`
	Metrics        []string       `hcl:"metrics,optional"`
	Normalization  *Normalization `hcl:"normalization,block"`
}

// CatalogFile is the top-level structure of one catalog .hcl file.
type CatalogFile struct {
	TensorMaps []*TensorMap `hcl:"tensor_map,block"`
	Body       hcl.Body     `hcl:",remain"`
}
