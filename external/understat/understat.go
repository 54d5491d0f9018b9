package understat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/luigi1104/shotmap/internal/domain/shot"
)

// The source serves numbers as JSON strings more often than not. The flex
// types coerce either form at the decode boundary and fail fast on garbage,
// so nothing string-typed leaks past this package.

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		*f = 0
		return nil
	}
	raw = strings.Trim(raw, `"`)

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("unparseable numeric field %q", raw)
	}
	*f = flexFloat(value)
	return nil
}

type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		*f = 0
		return nil
	}
	raw = strings.Trim(raw, `"`)

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("unparseable integer field %q", raw)
	}
	*f = flexInt(value)
	return nil
}

// flexString accepts both string and bare-number JSON values.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*f = ""
		return nil
	}
	*f = flexString(strings.Trim(raw, `"`))
	return nil
}

type playerDataEnvelope struct {
	Shots  []shotRecord `json:"shots"`
	Groups groupsRecord `json:"groups"`
}

type groupsRecord struct {
	Season []seasonGroupRecord `json:"season"`
}

type shotRecord struct {
	Season    flexString `json:"season"`
	Minute    flexInt    `json:"minute"`
	X         flexFloat  `json:"X"`
	Y         flexFloat  `json:"Y"`
	XG        flexFloat  `json:"xG"`
	Result    string     `json:"result"`
	Situation string     `json:"situation"`
}

type seasonGroupRecord struct {
	Season flexString `json:"season"`
	Team   string     `json:"team"`
	Time   flexFloat  `json:"time"`
	XG     flexFloat  `json:"xG"`
	XA     flexFloat  `json:"xA"`
	NPXG   flexFloat  `json:"npxG"`
	Shots  flexInt    `json:"shots"`
}

type leagueDataEnvelope struct {
	Dates []fixtureRecord `json:"dates"`
	Date  []fixtureRecord `json:"date"`
}

func (e leagueDataEnvelope) fixtures() []fixtureRecord {
	if len(e.Dates) > 0 {
		return e.Dates
	}
	return e.Date
}

type fixtureRecord struct {
	Home teamRef `json:"h"`
	Away teamRef `json:"a"`
}

type teamRef struct {
	Title string `json:"title"`
}

func mapPlayerPayload(envelope playerDataEnvelope) (shot.PlayerPayload, error) {
	payload := shot.PlayerPayload{
		Shots:  make([]shot.Event, 0, len(envelope.Shots)),
		Splits: make([]shot.SeasonTeamSplit, 0, len(envelope.Groups.Season)),
	}

	for i, record := range envelope.Shots {
		event := shot.Event{
			Season:    string(record.Season),
			Minute:    int(record.Minute),
			X:         float64(record.X),
			Y:         float64(record.Y),
			XG:        float64(record.XG),
			Result:    shot.Result(record.Result),
			Situation: shot.Situation(record.Situation),
		}
		if err := event.Validate(); err != nil {
			return shot.PlayerPayload{}, fmt.Errorf("shot record %d: %w", i, err)
		}
		payload.Shots = append(payload.Shots, event)
	}

	for i, record := range envelope.Groups.Season {
		split := shot.SeasonTeamSplit{
			Season:  string(record.Season),
			Team:    strings.TrimSpace(record.Team),
			Minutes: float64(record.Time),
			XG:      float64(record.XG),
			XA:      float64(record.XA),
			NPXG:    float64(record.NPXG),
			Shots:   int(record.Shots),
		}
		if err := split.Validate(); err != nil {
			return shot.PlayerPayload{}, fmt.Errorf("season group record %d: %w", i, err)
		}
		payload.Splits = append(payload.Splits, split)
	}

	return payload, nil
}
