package report

import (
	"fmt"
	"strings"

	"github.com/luigi1104/shotmap/internal/domain/shot"
)

// Per90 holds rate metrics normalized to a 90-minute match-equivalent.
// All fields are zero when the player logged no minutes in the season.
type Per90 struct {
	XG    float64
	Shots float64
	NPXG  float64
	XGI   float64
}

// Totals holds counting stats derived from the season's shot events.
type Totals struct {
	Shots     int
	Goals     int
	XG        float64
	XGPerShot float64
}

// TeamAttribution pairs a team the player appeared for with the league the
// team was verified to play in that season. LeagueLabel is "Unknown" when no
// probe succeeded.
type TeamAttribution struct {
	TeamName    string
	LeagueLabel string
}

const UnknownLeagueLabel = "Unknown"

func (a TeamAttribution) String() string {
	return fmt.Sprintf("%s (%s)", a.TeamName, a.LeagueLabel)
}

// PlayerReport is the final data contract handed to the rendering layer.
// Shots keep upstream order.
type PlayerReport struct {
	PlayerName   string
	Season       string
	Attributions []TeamAttribution
	Per90        Per90
	Totals       Totals
	Shots        []shot.Event
}

// AttributionString joins the per-team attributions for display, e.g.
// "Ipswich Town (EPL) + Hull City (Unknown)".
func (r PlayerReport) AttributionString() string {
	parts := make([]string, 0, len(r.Attributions))
	for _, a := range r.Attributions {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, " + ")
}
