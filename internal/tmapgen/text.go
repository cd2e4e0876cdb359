package tmapgen

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cardioml/cardioml/internal/tensormap"
)

// RandomTextFromFile builds the input/output tensor map pair for character
// language modeling over a text file. The input map is a window of token
// indices; the output map predicts the next token over the file's character
// vocabulary. Names derive from the file's base name.
func RandomTextFromFile(path string, window int) (in, out *tensormap.TensorMap, err error) {
	if window <= 0 {
		return nil, nil, fmt.Errorf("text_window must be positive, got %d", window)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read text file: %w", err)
	}
	text := string(raw)
	if len(text) <= window {
		return nil, nil, fmt.Errorf("text file %s is shorter than one window of %d tokens", path, window)
	}

	vocab := charVocabulary(text)
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	in = &tensormap.TensorMap{
		Name:           base + "_random_text",
		Interpretation: tensormap.Language,
		Shape:          []int{window},
		ChannelMap:     vocab,
	}
	out = &tensormap.TensorMap{
		Name:           base + "_random_text_next",
		Interpretation: tensormap.Language,
		Shape:          []int{window, len(vocab)},
		ChannelMap:     vocab,
		Parents:        []string{in.Name},
		Loss:           "categorical_crossentropy",
	}
	return in, out, nil
}

// pixelDepth is the token vocabulary of PixelTextFromPrefix: every 8-bit
// intensity value is one token.
const pixelDepth = 256

// PixelTextFromPrefix builds the input/output tensor map pair for language
// modeling over flattened pixel arrays stored under pathPrefix in the tensor
// files. The window is square, so the requested token count rounds down to
// the nearest perfect square. Intensities are the token vocabulary.
func PixelTextFromPrefix(pathPrefix string, window int) (in, out *tensormap.TensorMap, err error) {
	if pathPrefix == "" {
		return nil, nil, fmt.Errorf("hd5_as_text requires a path prefix")
	}
	side := int(math.Sqrt(float64(window)))
	if side < 1 {
		return nil, nil, fmt.Errorf("text_window must be at least 1 for a pixel window, got %d", window)
	}

	vocab := make(map[string]int, pixelDepth)
	for i := 0; i < pixelDepth; i++ {
		vocab[strconv.Itoa(i)] = i
	}

	in = &tensormap.TensorMap{
		Name:           pathPrefix + "_random_pixels",
		Interpretation: tensormap.Language,
		Shape:          []int{side, side},
		ChannelMap:     vocab,
		PathPrefix:     pathPrefix,
	}
	out = &tensormap.TensorMap{
		Name:           pathPrefix + "_random_pixels_next",
		Interpretation: tensormap.Language,
		Shape:          []int{side, side, pixelDepth},
		ChannelMap:     vocab,
		Parents:        []string{in.Name},
		PathPrefix:     pathPrefix,
		Loss:           "categorical_crossentropy",
	}
	return in, out, nil
}

// charVocabulary assigns a stable index to every distinct rune in the text.
func charVocabulary(text string) map[string]int {
	distinct := make(map[rune]struct{})
	for _, r := range text {
		distinct[r] = struct{}{}
	}
	runes := make([]rune, 0, len(distinct))
	for r := range distinct {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })

	vocab := make(map[string]int, len(runes))
	for i, r := range runes {
		vocab[string(r)] = i
	}
	return vocab
}
