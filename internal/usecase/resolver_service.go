package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/luigi1104/shotmap/internal/domain/roster"
	"github.com/luigi1104/shotmap/internal/platform/logging"
	"github.com/luigi1104/shotmap/internal/platform/matching"
)

// DefaultMatchThreshold is the minimum cosine similarity accepted from the
// embedding stage before the phonetic fallback is consulted.
const DefaultMatchThreshold = 0.5

// ResolverService maps free-text player names onto canonical roster entries.
type ResolverService struct {
	rosterRepo roster.Repository
	embedder   matching.Embedder
	threshold  float64
	logger     *logging.Logger
}

func NewResolverService(
	rosterRepo roster.Repository,
	embedder matching.Embedder,
	threshold float64,
	logger *logging.Logger,
) *ResolverService {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultMatchThreshold
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &ResolverService{
		rosterRepo: rosterRepo,
		embedder:   embedder,
		threshold:  threshold,
		logger:     logger,
	}
}

// Resolve returns the roster entry best matching the input. It prefers the
// embedding match when its score clears the threshold, then a first-token
// metaphone match, then the low-confidence embedding best: a candidate is
// always produced unless the roster is empty or the input cannot be embedded.
func (s *ResolverService) Resolve(ctx context.Context, input string) (roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResolverService.Resolve")
	defer span.End()

	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return roster.Entry{}, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	names, err := s.rosterRepo.Names(ctx)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("list roster names: %w", err)
	}
	if len(names) == 0 {
		return roster.Entry{}, fmt.Errorf("%w: no such player: roster is empty", ErrNotFound)
	}

	bestIdx, bestScore, err := matching.BestEmbeddingMatch(s.embedder, input, names)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("%w: no such player: %v", ErrNotFound, err)
	}

	matched := names[bestIdx]
	branch := "embedding"
	if bestScore < s.threshold {
		if idx := matching.PhoneticMatch(input, names); idx >= 0 {
			matched = names[idx]
			branch = "phonetic"
		} else {
			branch = "embedding_low_confidence"
		}
	}

	entry, ok, err := s.rosterRepo.GetByName(ctx, matched)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("get roster entry: %w", err)
	}
	if !ok {
		return roster.Entry{}, fmt.Errorf("roster name %q has no entry", matched)
	}

	s.logger.DebugContext(ctx, "player name resolved",
		"input", input,
		"matched", matched,
		"branch", branch,
		"score", bestScore,
	)

	return entry, nil
}
