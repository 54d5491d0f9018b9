package memory

import (
	"fmt"
	"os"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/luigi1104/shotmap/internal/domain/roster"
)

// rosterRecord mirrors the crawler artifact on disk. League spellings vary
// by source ("La liga", "Serie A"), so they are normalized on load.
type rosterRecord struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	League   string `json:"league"`
}

// LoadRosterFile reads the roster JSON artifact and builds the in-memory
// repository. Records with an unknown league or a blank name are rejected:
// a partially unreadable roster is a configuration error, not a warning.
func LoadRosterFile(path string) (*RosterRepository, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}

	var records []rosterRecord
	if err := sonic.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode roster file %s: %w", path, err)
	}

	entries := make([]roster.Entry, 0, len(records))
	for i, record := range records {
		league, err := roster.ParseLeague(record.League)
		if err != nil {
			return nil, fmt.Errorf("roster record %d: %w", i, err)
		}
		entries = append(entries, roster.Entry{
			Name:     strings.ToLower(strings.TrimSpace(record.Name)),
			PlayerID: strings.TrimSpace(record.PlayerID),
			League:   league,
		})
	}

	repo, err := NewRosterRepository(entries)
	if err != nil {
		return nil, fmt.Errorf("build roster repository from %s: %w", path, err)
	}
	return repo, nil
}
