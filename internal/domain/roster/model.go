package roster

import (
	"fmt"
	"strings"
)

// League identifies one of the competitions covered by the stats source.
type League string

const (
	LeagueEPL        League = "EPL"
	LeagueLaLiga     League = "La_Liga"
	LeagueBundesliga League = "Bundesliga"
	LeagueSerieA     League = "Serie_A"
	LeagueLigue1     League = "Ligue_1"
	LeagueRFPL       League = "RFPL"
)

// CheckOrder is the fixed probe order used when attributing a team to a
// league for a season. First hit wins.
var CheckOrder = []League{
	LeagueEPL,
	LeagueLaLiga,
	LeagueBundesliga,
	LeagueSerieA,
	LeagueLigue1,
	LeagueRFPL,
}

var allLeagues = map[League]struct{}{
	LeagueEPL:        {},
	LeagueLaLiga:     {},
	LeagueBundesliga: {},
	LeagueSerieA:     {},
	LeagueLigue1:     {},
	LeagueRFPL:       {},
}

// DisplayName renders the league code for humans, e.g. "La Liga".
func (l League) DisplayName() string {
	return strings.ReplaceAll(string(l), "_", " ")
}

func (l League) Valid() bool {
	_, ok := allLeagues[l]
	return ok
}

// ParseLeague accepts both the canonical codes and the display spellings the
// upstream source uses ("La liga", "Serie A", "Ligue 1").
func ParseLeague(raw string) (League, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("league is empty")
	}

	candidate := League(strings.ReplaceAll(value, " ", "_"))
	for known := range allLeagues {
		if strings.EqualFold(string(candidate), string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown league %q", raw)
}

// Entry is one canonical roster record. Entries are immutable after load.
type Entry struct {
	Name     string
	PlayerID string
	League   League
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("roster entry name is required")
	}
	if e.Name != strings.ToLower(e.Name) {
		return fmt.Errorf("roster entry name must be lower-cased: %q", e.Name)
	}
	if strings.TrimSpace(e.PlayerID) == "" {
		return fmt.Errorf("roster entry player id is required")
	}
	if !e.League.Valid() {
		return fmt.Errorf("invalid roster entry league: %s", e.League)
	}

	return nil
}
