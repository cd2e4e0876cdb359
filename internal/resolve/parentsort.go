package resolve

import (
	"fmt"

	"github.com/cardioml/cardioml/internal/dag"
	"github.com/cardioml/cardioml/internal/tensormap"
)

// parentSort orders output tensor maps so every parent precedes the maps
// derived from it. Only parents that are themselves outputs form edges;
// parents outside the output set impose no ordering. The result is
// deterministic for a given output set.
func parentSort(maps []*tensormap.TensorMap) ([]*tensormap.TensorMap, error) {
	byName := make(map[string]*tensormap.TensorMap, len(maps))
	graph := dag.New()
	for _, tm := range maps {
		byName[tm.Name] = tm
		graph.AddNode(tm.Name)
	}

	for _, tm := range maps {
		for _, parent := range tm.Parents {
			if !graph.Contains(parent) {
				continue
			}
			if err := graph.AddEdge(parent, tm.Name); err != nil {
				return nil, fmt.Errorf("parent sort: %w", err)
			}
		}
	}

	if err := graph.DetectCycles(); err != nil {
		return nil, fmt.Errorf("parent sort: %w", err)
	}
	order, err := graph.Sort()
	if err != nil {
		return nil, fmt.Errorf("parent sort: %w", err)
	}

	sorted := make([]*tensormap.TensorMap, len(order))
	for i, name := range order {
		sorted[i] = byName[name]
	}
	return sorted, nil
}
