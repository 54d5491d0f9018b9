package usecase

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// NoSeasonDataError reports that a resolved player has no shot events in the
// requested season. Available carries the seasons that do have data so the
// caller can retry correctly.
type NoSeasonDataError struct {
	Player    string
	Season    string
	Available []string
}

func (e *NoSeasonDataError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("no shot data for %s in the %s season", e.Player, e.Season)
	}
	return fmt.Sprintf(
		"no shot data for %s in the %s season, seasons with data: %s",
		e.Player, e.Season, strings.Join(e.Available, ", "),
	)
}

func (e *NoSeasonDataError) Unwrap() error { return ErrNotFound }
