package matching

import (
	"fmt"
	"hash/fnv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Embedder turns free text into a dense vector. Match outcomes depend on the
// model identity, so both sides of a comparison must use the same Embedder.
type Embedder interface {
	Embed(text string) ([]float64, error)
}

const (
	defaultDimensions = 512
	defaultGramSize   = 3
)

// NGramEmbedder is a deterministic hashed character n-gram vectorizer:
// every padded lower-cased n-gram hashes into a fixed-width bucket vector
// which is then L2-normalized. No runtime model download, stable across
// processes, and cheap enough to embed a full roster per request.
type NGramEmbedder struct {
	dims     int
	gramSize int
}

func NewNGramEmbedder() *NGramEmbedder {
	return &NGramEmbedder{dims: defaultDimensions, gramSize: defaultGramSize}
}

func (e *NGramEmbedder) Embed(text string) ([]float64, error) {
	normalized := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if normalized == "" {
		return nil, fmt.Errorf("text has no encodable content")
	}

	padding := strings.Repeat(" ", e.gramSize-1)
	runes := []rune(padding + normalized + padding)

	vec := make([]float64, e.dims)
	for i := 0; i+e.gramSize <= len(runes); i++ {
		gram := string(runes[i : i+e.gramSize])
		h := fnv.New64a()
		_, _ = h.Write([]byte(gram))
		vec[h.Sum64()%uint64(e.dims)]++
	}

	norm := floats.Norm(vec, 2)
	if norm == 0 {
		return nil, fmt.Errorf("text %q produced an empty embedding", text)
	}
	floats.Scale(1/norm, vec)

	return vec, nil
}

// Cosine computes cosine similarity between two vectors of equal length.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}

	return floats.Dot(a, b) / (normA * normB)
}
