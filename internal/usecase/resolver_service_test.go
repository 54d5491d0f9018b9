package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/luigi1104/shotmap/internal/domain/roster"
	"github.com/luigi1104/shotmap/internal/infrastructure/repository/memory"
	"github.com/luigi1104/shotmap/internal/platform/matching"
)

// stubEmbedder returns fixed vectors so similarity scores are exact.
type stubEmbedder struct {
	vectors map[string][]float64
}

func (s stubEmbedder) Embed(text string) ([]float64, error) {
	vec, ok := s.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no stub vector for %q", text)
	}
	return vec, nil
}

// unit2 builds a 2D unit vector whose cosine against (1,0) equals sim.
func unit2(sim float64) []float64 {
	return []float64{sim, math.Sqrt(1 - sim*sim)}
}

type stubRoster struct {
	names    []string
	namesErr error
}

func (s stubRoster) Names(context.Context) ([]string, error) { return s.names, s.namesErr }

func (s stubRoster) GetByName(_ context.Context, name string) (roster.Entry, bool, error) {
	for _, candidate := range s.names {
		if candidate == name {
			return roster.Entry{Name: name, PlayerID: "1", League: roster.LeagueEPL}, true, nil
		}
	}
	return roster.Entry{}, false, nil
}

func testRosterRepo(t *testing.T) *memory.RosterRepository {
	t.Helper()
	repo, err := memory.NewRosterRepository([]roster.Entry{
		{Name: "erling haaland", PlayerID: "8260", League: roster.LeagueEPL},
		{Name: "kylian mbappe", PlayerID: "2097", League: roster.LeagueLaLiga},
		{Name: "lautaro martinez", PlayerID: "5085", League: roster.LeagueSerieA},
		{Name: "philip billing", PlayerID: "1389", League: roster.LeagueEPL},
	})
	if err != nil {
		t.Fatalf("build roster: %v", err)
	}
	return repo
}

func TestResolverService_ExactNamesSelfMatch(t *testing.T) {
	t.Parallel()

	repo := testRosterRepo(t)
	svc := NewResolverService(repo, matching.NewNGramEmbedder(), DefaultMatchThreshold, nil)

	names, err := repo.Names(t.Context())
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	for _, name := range names {
		entry, err := svc.Resolve(t.Context(), name)
		if err != nil {
			t.Fatalf("resolve %q failed: %v", name, err)
		}
		if entry.Name != name {
			t.Fatalf("expected self-match for %q, got %q", name, entry.Name)
		}
	}
}

func TestResolverService_HighConfidenceEmbeddingBranch(t *testing.T) {
	t.Parallel()

	embedder := stubEmbedder{vectors: map[string][]float64{
		"selling delap": unit2(1.0),
		"delap":         unit2(0.9),
		"liam delacroix": unit2(0.2),
	}}
	repoNames := stubRoster{names: []string{"delap", "liam delacroix"}}
	svc := NewResolverService(repoNames, embedder, 0.5, nil)

	entry, err := svc.Resolve(t.Context(), "selling delap")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if entry.Name != "delap" {
		t.Fatalf("expected embedding branch to pick delap, got %q", entry.Name)
	}
}

func TestResolverService_PhoneticFallback(t *testing.T) {
	t.Parallel()

	// Every embedding score stays below the threshold, so the metaphone
	// fallback on the first token decides.
	embedder := stubEmbedder{vectors: map[string][]float64{
		"filip bergman":    unit2(1.0),
		"erling haaland":   unit2(0.2),
		"philip billing":   unit2(0.3),
		"lautaro martinez": unit2(0.1),
	}}
	repoNames := stubRoster{names: []string{"erling haaland", "philip billing", "lautaro martinez"}}
	svc := NewResolverService(repoNames, embedder, 0.5, nil)

	entry, err := svc.Resolve(t.Context(), "filip bergman")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if entry.Name != "philip billing" {
		t.Fatalf("expected phonetic fallback to pick philip billing, got %q", entry.Name)
	}
}

func TestResolverService_LowConfidenceBestWithoutPhoneticHit(t *testing.T) {
	t.Parallel()

	embedder := stubEmbedder{vectors: map[string][]float64{
		"zzz qqq":          unit2(1.0),
		"erling haaland":   unit2(0.3),
		"lautaro martinez": unit2(0.1),
	}}
	repoNames := stubRoster{names: []string{"erling haaland", "lautaro martinez"}}
	svc := NewResolverService(repoNames, embedder, 0.5, nil)

	entry, err := svc.Resolve(t.Context(), "zzz qqq")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if entry.Name != "erling haaland" {
		t.Fatalf("expected low-confidence embedding best, got %q", entry.Name)
	}
}

func TestResolverService_EmptyInput(t *testing.T) {
	t.Parallel()

	svc := NewResolverService(testRosterRepo(t), matching.NewNGramEmbedder(), DefaultMatchThreshold, nil)
	if _, err := svc.Resolve(t.Context(), "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestResolverService_EmptyRoster(t *testing.T) {
	t.Parallel()

	svc := NewResolverService(stubRoster{}, matching.NewNGramEmbedder(), DefaultMatchThreshold, nil)
	if _, err := svc.Resolve(t.Context(), "anyone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty roster, got %v", err)
	}
}

func TestResolverService_EmbeddingFailureIsNoSuchPlayer(t *testing.T) {
	t.Parallel()

	embedder := stubEmbedder{vectors: map[string][]float64{
		"erling haaland": unit2(0.3),
	}}
	svc := NewResolverService(stubRoster{names: []string{"erling haaland"}}, embedder, 0.5, nil)

	if _, err := svc.Resolve(t.Context(), "glitch"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound when the input cannot be embedded, got %v", err)
	}
}
