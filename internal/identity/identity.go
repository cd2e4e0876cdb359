// Package identity derives the content-addressed identifiers used for
// reproducibility bookkeeping. Two runs configured with the same tensor
// maps produce the same identifiers.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/cardioml/cardioml/internal/tensormap"
)

// TensorMapID returns the SHA-256 hex digest of the canonical form of a
// tensor map.
func TensorMapID(tm *tensormap.TensorMap) string {
	sum := sha256.Sum256([]byte(tm.String()))
	return hex.EncodeToString(sum[:])
}

// ModelID returns the SHA-256 hex digest identifying a model by its inputs
// and outputs. The user-chosen run id deliberately does not participate, so
// renaming a run keeps its model identity.
func ModelID(inputs, outputs []*tensormap.TensorMap) string {
	in := make([]string, len(inputs))
	for i, tm := range inputs {
		in[i] = tm.String()
	}
	out := make([]string, len(outputs))
	for i, tm := range outputs {
		out[i] = tm.String()
	}
	payload := strings.Join(in, "_") + "&" + strings.Join(out, "_")
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
