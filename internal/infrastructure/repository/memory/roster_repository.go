package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/luigi1104/shotmap/internal/domain/roster"
)

// RosterRepository holds the reference roster in memory. It is populated
// once at construction and read-only afterwards.
type RosterRepository struct {
	names   []string
	entries map[string]roster.Entry
}

func NewRosterRepository(entries []roster.Entry) (*RosterRepository, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("roster must not be empty")
	}

	repo := &RosterRepository{
		names:   make([]string, 0, len(entries)),
		entries: make(map[string]roster.Entry, len(entries)),
	}
	for _, entry := range entries {
		entry.Name = strings.ToLower(strings.TrimSpace(entry.Name))
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("invalid roster entry: %w", err)
		}
		if _, exists := repo.entries[entry.Name]; exists {
			continue
		}
		repo.names = append(repo.names, entry.Name)
		repo.entries[entry.Name] = entry
	}

	return repo, nil
}

func (r *RosterRepository) Names(_ context.Context) ([]string, error) {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out, nil
}

func (r *RosterRepository) GetByName(_ context.Context, name string) (roster.Entry, bool, error) {
	entry, ok := r.entries[strings.ToLower(strings.TrimSpace(name))]
	return entry, ok, nil
}
