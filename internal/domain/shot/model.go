package shot

import (
	"fmt"
	"sort"
	"strings"
)

// Result classifies the outcome of a single shot as reported upstream.
type Result string

const (
	ResultGoal        Result = "Goal"
	ResultSavedShot   Result = "SavedShot"
	ResultBlockedShot Result = "BlockedShot"
	ResultMissedShot  Result = "MissedShot"
	ResultShotOnPost  Result = "ShotOnPost"
	ResultOwnGoal     Result = "OwnGoal"
)

// Situation classifies the phase of play a shot came from.
type Situation string

const (
	SituationOpenPlay      Situation = "OpenPlay"
	SituationPenalty       Situation = "Penalty"
	SituationFreekick      Situation = "DirectFreekick"
	SituationSetPiece      Situation = "SetPiece"
	SituationFromCorner    Situation = "FromCorner"
	SituationDirectSpeedUp Situation = "DirectSpeedUp"
)

// Event is one shot attempt. Coordinates are the raw [0,1] pitch fractions
// supplied upstream; DisplayX/DisplayY scale them for presentation.
type Event struct {
	Season    string
	Minute    int
	X         float64
	Y         float64
	XG        float64
	Result    Result
	Situation Situation
}

func (e Event) DisplayX() float64 { return e.X * 100 }
func (e Event) DisplayY() float64 { return e.Y * 100 }

func (e Event) Validate() error {
	if err := validateSeason(e.Season); err != nil {
		return err
	}
	if e.X < 0 || e.X > 1 {
		return fmt.Errorf("shot x out of range: %f", e.X)
	}
	if e.Y < 0 || e.Y > 1 {
		return fmt.Errorf("shot y out of range: %f", e.Y)
	}
	if e.XG < 0 || e.XG > 1 {
		return fmt.Errorf("shot xg out of range: %f", e.XG)
	}
	if e.Result == "" {
		return fmt.Errorf("shot result is required")
	}

	return nil
}

// SeasonTeamSplit is a player's aggregate line for one team within one
// season. A mid-season transfer produces several splits for the same season.
type SeasonTeamSplit struct {
	Season  string
	Team    string
	Minutes float64
	XG      float64
	XA      float64
	NPXG    float64
	Shots   int
}

func (s SeasonTeamSplit) Validate() error {
	if err := validateSeason(s.Season); err != nil {
		return err
	}
	if strings.TrimSpace(s.Team) == "" {
		return fmt.Errorf("split team is required")
	}
	if s.Minutes < 0 {
		return fmt.Errorf("split minutes must not be negative: %f", s.Minutes)
	}
	if s.Shots < 0 {
		return fmt.Errorf("split shots must not be negative: %d", s.Shots)
	}

	return nil
}

// PlayerPayload is the full upstream dataset for one player: every recorded
// shot plus the per-season per-team splits.
type PlayerPayload struct {
	Shots  []Event
	Splits []SeasonTeamSplit
}

// Seasons lists the distinct seasons with at least one shot, sorted.
func (p PlayerPayload) Seasons() []string {
	seen := make(map[string]struct{}, 8)
	out := make([]string, 0, 8)
	for _, s := range p.Shots {
		if _, ok := seen[s.Season]; ok {
			continue
		}
		seen[s.Season] = struct{}{}
		out = append(out, s.Season)
	}
	sort.Strings(out)
	return out
}

// ValidSeason reports whether value looks like a 4-digit season year.
func ValidSeason(value string) bool {
	return validateSeason(value) == nil
}

func validateSeason(value string) error {
	if len(value) != 4 {
		return fmt.Errorf("season must be a 4-digit year, got %q", value)
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return fmt.Errorf("season must be a 4-digit year, got %q", value)
		}
	}
	return nil
}
