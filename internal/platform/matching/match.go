package matching

import (
	"fmt"
	"strings"

	"github.com/dotcypress/phonetics"
)

// BestEmbeddingMatch embeds the input and every candidate with the same
// model and returns the argmax cosine match. Ties resolve to the first
// occurrence, so a fixed candidate ordering gives a deterministic result.
func BestEmbeddingMatch(embedder Embedder, input string, candidates []string) (int, float64, error) {
	if embedder == nil {
		return -1, 0, fmt.Errorf("embedder is required")
	}
	if len(candidates) == 0 {
		return -1, 0, fmt.Errorf("candidate list is empty")
	}

	inputVec, err := embedder.Embed(input)
	if err != nil {
		return -1, 0, fmt.Errorf("embed input: %w", err)
	}

	bestIdx := -1
	bestScore := 0.0
	for i, candidate := range candidates {
		candidateVec, err := embedder.Embed(candidate)
		if err != nil {
			return -1, 0, fmt.Errorf("embed candidate %q: %w", candidate, err)
		}
		if score := Cosine(inputVec, candidateVec); bestIdx < 0 || score > bestScore {
			bestIdx = i
			bestScore = score
		}
	}

	return bestIdx, bestScore, nil
}

// FirstTokenMetaphone returns the metaphone code of the first whitespace
// token, or "" when there is none.
func FirstTokenMetaphone(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return ""
	}
	return phonetics.EncodeMetaphone(parts[0])
}

// PhoneticMatch finds the first candidate whose first-token metaphone code
// equals the input's. Returns -1 when nothing matches.
func PhoneticMatch(input string, candidates []string) int {
	inputCode := FirstTokenMetaphone(input)
	if inputCode == "" {
		return -1
	}

	for i, candidate := range candidates {
		if code := FirstTokenMetaphone(candidate); code != "" && code == inputCode {
			return i
		}
	}
	return -1
}
