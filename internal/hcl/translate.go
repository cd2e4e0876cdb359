// This file contains the logic for translating HCL schema structs into the
// tensormap model.

package hcl

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/cardioml/cardioml/internal/schema"
	"github.com/cardioml/cardioml/internal/tensormap"
)

// translateTensorMap converts one decoded tensor_map block into the model.
func translateTensorMap(block *schema.TensorMap) (*tensormap.TensorMap, error) {
	if block.Name == "" {
		return nil, fmt.Errorf("tensor_map block is missing a name label")
	}
	if !tensormap.ValidInterpretation(block.Interpretation) {
		return nil, fmt.Errorf("tensor map '%s': unknown interpretation '%s'", block.Name, block.Interpretation)
	}
	if len(block.Shape) == 0 {
		return nil, fmt.Errorf("tensor map '%s': shape must not be empty", block.Name)
	}
	for _, dim := range block.Shape {
		if dim <= 0 {
			return nil, fmt.Errorf("tensor map '%s': shape dimensions must be positive, got %d", block.Name, dim)
		}
	}

	channels, err := translateChannels(block)
	if err != nil {
		return nil, err
	}

	norm, err := translateNormalization(block)
	if err != nil {
		return nil, err
	}

	return &tensormap.TensorMap{
		Name:           block.Name,
		Interpretation: tensormap.Interpretation(block.Interpretation),
		Shape:          append([]int(nil), block.Shape...),
		ChannelMap:     channels,
		Parents:        append([]string(nil), block.Parents...),
		PathPrefix:     block.PathPrefix,
		Loss:           block.Loss,
		Activation:     block.Activation,
		Metrics:        append([]string(nil), block.Metrics...),
		Normalization:  norm,
	}, nil
}

// translateChannels evaluates the optional channels expression into a
// name-to-index map.
func translateChannels(block *schema.TensorMap) (map[string]int, error) {
	if block.Channels == nil {
		return nil, nil
	}
	val, diags := block.Channels.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("tensor map '%s': invalid channels expression: %w", block.Name, diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("tensor map '%s': channels must be a map of channel name to index", block.Name)
	}

	channels := make(map[string]int)
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		var name string
		if err := gocty.FromCtyValue(k, &name); err != nil {
			return nil, fmt.Errorf("tensor map '%s': channel keys must be strings: %w", block.Name, err)
		}
		var idx int
		if err := gocty.FromCtyValue(cty.UnknownAsNull(v), &idx); err != nil {
			return nil, fmt.Errorf("tensor map '%s': channel '%s' index must be an integer: %w", block.Name, name, err)
		}
		channels[name] = idx
	}
	return channels, nil
}

// translateNormalization maps the mean/std or min/max field pairs onto a
// normalization kind.
func translateNormalization(block *schema.TensorMap) (*tensormap.Normalization, error) {
	n := block.Normalization
	if n == nil {
		return nil, nil
	}

	hasZScore := n.Mean != nil || n.Std != nil
	hasMinMax := n.Min != nil || n.Max != nil
	switch {
	case hasZScore && hasMinMax:
		return nil, fmt.Errorf("tensor map '%s': normalization cannot mix mean/std with min/max", block.Name)
	case hasZScore:
		if n.Mean == nil || n.Std == nil {
			return nil, fmt.Errorf("tensor map '%s': z-score normalization requires both mean and std", block.Name)
		}
		if *n.Std == 0 {
			return nil, fmt.Errorf("tensor map '%s': normalization std must not be zero", block.Name)
		}
		return &tensormap.Normalization{Kind: "zscore", Mean: *n.Mean, Std: *n.Std}, nil
	case hasMinMax:
		if n.Min == nil || n.Max == nil {
			return nil, fmt.Errorf("tensor map '%s': min-max normalization requires both min and max", block.Name)
		}
		if *n.Min >= *n.Max {
			return nil, fmt.Errorf("tensor map '%s': normalization min must be below max", block.Name)
		}
		return &tensormap.Normalization{Kind: "minmax", Min: *n.Min, Max: *n.Max}, nil
	default:
		return nil, fmt.Errorf("tensor map '%s': empty normalization block", block.Name)
	}
}
