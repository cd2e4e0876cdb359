// Package dag holds the dependency graph used to order output TensorMaps so
// that every parent is built before the maps derived from it. Resolution is
// single-pass and single-threaded, so the graph carries no locking.
package dag

import (
	"fmt"
	"sort"
)

// Graph is a directed acyclic graph keyed by TensorMap name.
type Graph struct {
	nodes map[string]*node
}

// node is un-exported to enforce interaction with the graph via string IDs,
// not by direct struct manipulation.
type node struct {
	id string
	// parents holds the set of nodes this node is derived from.
	parents map[string]*node
	// children holds the set of nodes derived from this node.
	children map[string]*node
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

// AddNode adds a new node with the given ID to the graph. Adding an
// existing ID is a no-op.
func (g *Graph) AddNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &node{
		id:       id,
		parents:  make(map[string]*node),
		children: make(map[string]*node),
	}
}

// Contains reports whether a node with the given ID exists.
func (g *Graph) Contains(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// AddEdge records that childID is derived from parentID. An error is
// returned if either node does not exist or the edge is self-referential.
func (g *Graph) AddEdge(parentID, childID string) error {
	if parentID == childID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", parentID, parentID)
	}

	parent, ok := g.nodes[parentID]
	if !ok {
		return fmt.Errorf("parent node not found: %s", parentID)
	}
	child, ok := g.nodes[childID]
	if !ok {
		return fmt.Errorf("child node not found: %s", childID)
	}

	child.parents[parentID] = parent
	parent.children[childID] = child
	return nil
}

// Parents returns the IDs a node is derived from.
func (g *Graph) Parents(id string) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	out := make([]string, 0, len(n.parents))
	for pid := range n.parents {
		out = append(out, pid)
	}
	sort.Strings(out)
	return out, nil
}

// DetectCycles checks the graph for any cycles. It returns a non-nil error
// if a cycle is found, naming the first node involved in the detected cycle.
func (g *Graph) DetectCycles() error {
	// Classic depth-first search with three sets of nodes:
	// permanent: fully visited, known not to be part of a cycle.
	// temporary: currently in the recursion stack.
	// unvisited: everything else.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			return fmt.Errorf("cycle detected involving node '%s'", n.id)
		}
		temporary[n.id] = true
		for _, child := range n.children {
			if err := visit(child); err != nil {
				return err
			}
		}
		delete(temporary, n.id)
		permanent[n.id] = true
		return nil
	}

	// Iterate in sorted order so the reported cycle node is stable.
	for _, id := range g.sortedIDs() {
		if !permanent[id] {
			if err := visit(g.nodes[id]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Sort returns a topological ordering of all node IDs: every parent appears
// before its children. Ties are broken by name so the ordering is
// deterministic for a given node set. An error is returned when the graph
// contains a cycle.
func (g *Graph) Sort() ([]string, error) {
	indegree := make(map[string]int, len(g.nodes))
	for id, n := range g.nodes {
		indegree[id] = len(n.parents)
	}

	var ready []string
	for _, id := range g.sortedIDs() {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		sort.Strings(ready)
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		for _, cid := range childIDs(g.nodes[id]) {
			indegree[cid]--
			if indegree[cid] == 0 {
				ready = append(ready, cid)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil, fmt.Errorf("cannot sort graph with cycles: %d of %d nodes ordered", len(order), len(g.nodes))
	}
	return order, nil
}

func (g *Graph) sortedIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func childIDs(n *node) []string {
	ids := make([]string, 0, len(n.children))
	for id := range n.children {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
