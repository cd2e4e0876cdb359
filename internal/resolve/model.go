// Package resolve turns parsed command-line arguments into the validated,
// in-memory model configuration consumed by model-building code. This is a
// single pass run once per process invocation: resolve identifiers against
// the catalog, validate skip connections and paired embeddings, order
// outputs by dependency, and derive content-addressed identifiers.
package resolve

import (
	"github.com/cardioml/cardioml/internal/tensormap"
)

// SkipConnection records one resolved u_connect adjacency: an encoder-side
// tensor map and the set of decoder-side maps it feeds, keyed by name.
type SkipConnection struct {
	In   *tensormap.TensorMap
	Outs map[string]*tensormap.TensorMap
}

// EmbeddingPair records two tensor maps whose learned representations the
// pair loss pulls together.
type EmbeddingPair struct {
	A *tensormap.TensorMap
	B *tensormap.TensorMap
}

// Model is the product of resolution: every symbolic reference replaced by
// a concrete tensor map, plus the derived identifiers. It is populated once,
// read by downstream model-building code, and discarded at process exit.
type Model struct {
	Inputs    []*tensormap.TensorMap
	Outputs   []*tensormap.TensorMap
	Protected []*tensormap.TensorMap

	// UConnect is keyed by the encoder-side tensor map name.
	UConnect map[string]*SkipConnection
	Pairs    []EmbeddingPair

	// InputIDs and OutputIDs map tensor map names to their content hashes.
	InputIDs  map[string]string
	OutputIDs map[string]string
	ModelID   string

	// NamedOutputs tells downstream code to pass outputs as a name-keyed
	// dictionary instead of a list.
	NamedOutputs bool

	// textOutput holds the language-model output generated while resolving
	// inputs, until output resolution claims it.
	textOutput *tensormap.TensorMap
}
