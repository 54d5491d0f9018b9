package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/luigi1104/shotmap/internal/domain/report"
	"github.com/luigi1104/shotmap/internal/domain/roster"
	"github.com/luigi1104/shotmap/internal/domain/shot"
	"github.com/luigi1104/shotmap/internal/platform/logging"
)

// ShotDataFetcher retrieves a player's full shot history and season splits
// from the external stats source.
type ShotDataFetcher interface {
	PlayerData(ctx context.Context, playerID string) (shot.PlayerPayload, error)
}

// LeagueChecker verifies whether a team competed in a league during a
// season. Implementations absorb lookup failures and report false; a failed
// probe must never abort report generation.
type LeagueChecker interface {
	TeamInLeague(ctx context.Context, league roster.League, season, team string) bool
}

const defaultLeagueCheckConcurrency = 3

// ReportService orchestrates the full pipeline: resolve the free-text name,
// fetch the player dataset, aggregate the requested season and assemble the
// final report.
type ReportService struct {
	resolver *ResolverService
	fetcher  ShotDataFetcher
	checker  LeagueChecker
	logger   *logging.Logger

	leagueCheckConcurrency int
}

func NewReportService(
	resolver *ResolverService,
	fetcher ShotDataFetcher,
	checker LeagueChecker,
	leagueCheckConcurrency int,
	logger *logging.Logger,
) *ReportService {
	if leagueCheckConcurrency < 1 {
		leagueCheckConcurrency = defaultLeagueCheckConcurrency
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &ReportService{
		resolver:               resolver,
		fetcher:                fetcher,
		checker:                checker,
		logger:                 logger,
		leagueCheckConcurrency: leagueCheckConcurrency,
	}
}

type GenerateReportInput struct {
	PlayerName string
	Season     string
}

func (s *ReportService) GenerateReport(ctx context.Context, input GenerateReportInput) (report.PlayerReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.GenerateReport")
	defer span.End()

	season := strings.TrimSpace(input.Season)
	if !shot.ValidSeason(season) {
		return report.PlayerReport{}, fmt.Errorf("%w: season must be a 4-digit year, e.g. 2024", ErrInvalidInput)
	}

	entry, err := s.resolver.Resolve(ctx, input.PlayerName)
	if err != nil {
		return report.PlayerReport{}, err
	}

	payload, err := s.fetcher.PlayerData(ctx, entry.PlayerID)
	if err != nil {
		s.logger.WarnContext(ctx, "shot data fetch failed",
			"player_id", entry.PlayerID,
			"error", err,
		)
		return report.PlayerReport{}, fmt.Errorf("%w: shot data source: %v", ErrDependencyUnavailable, err)
	}

	agg, err := s.aggregate(ctx, entry.Name, payload, season)
	if err != nil {
		return report.PlayerReport{}, err
	}

	return report.PlayerReport{
		PlayerName:   entry.Name,
		Season:       season,
		Attributions: agg.attributions,
		Per90:        agg.per90,
		Totals:       agg.totals,
		Shots:        agg.shots,
	}, nil
}

type aggregation struct {
	per90        report.Per90
	totals       report.Totals
	attributions []report.TeamAttribution
	shots        []shot.Event
}

// aggregate filters the payload down to one season and derives every
// season-level figure from it. Team attribution probes run concurrently and
// degrade to "Unknown" individually; only an empty shot set is fatal.
func (s *ReportService) aggregate(ctx context.Context, playerName string, payload shot.PlayerPayload, season string) (aggregation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.aggregate")
	defer span.End()

	filtered := make([]shot.Event, 0, len(payload.Shots))
	for _, event := range payload.Shots {
		if event.Season == season {
			filtered = append(filtered, event)
		}
	}
	if len(filtered) == 0 {
		return aggregation{}, &NoSeasonDataError{
			Player:    playerName,
			Season:    season,
			Available: payload.Seasons(),
		}
	}

	var totalMinutes, totalXG, totalXA, totalNPXG float64
	var totalSplitShots int
	splits := make([]shot.SeasonTeamSplit, 0, 2)
	for _, split := range payload.Splits {
		if split.Season != season {
			continue
		}
		splits = append(splits, split)
		totalMinutes += split.Minutes
		totalXG += split.XG
		totalXA += split.XA
		totalNPXG += split.NPXG
		totalSplitShots += split.Shots
	}

	// Zero minutes yields zero rates rather than a division fault. A season
	// can have shots but no splits when the upstream group data lags.
	var per90 report.Per90
	if totalMinutes > 0 {
		matchEquivalents := totalMinutes / 90
		per90 = report.Per90{
			XG:    totalXG / matchEquivalents,
			Shots: float64(totalSplitShots) / matchEquivalents,
			NPXG:  totalNPXG / matchEquivalents,
			XGI:   (totalXG + totalXA) / matchEquivalents,
		}
	}

	totals := report.Totals{Shots: len(filtered)}
	for _, event := range filtered {
		if event.Result == shot.ResultGoal {
			totals.Goals++
		}
		totals.XG += event.XG
	}
	totals.XGPerShot = totals.XG / float64(totals.Shots)

	return aggregation{
		per90:        per90,
		totals:       totals,
		attributions: s.attributeTeams(ctx, splits, season),
		shots:        filtered,
	}, nil
}

// attributeTeams probes the fixed league order for every distinct team in
// first-seen split order. Each probe writes its own slot, so concurrent
// completion order cannot reorder the output.
func (s *ReportService) attributeTeams(ctx context.Context, splits []shot.SeasonTeamSplit, season string) []report.TeamAttribution {
	seen := make(map[string]struct{}, len(splits))
	teams := make([]string, 0, len(splits))
	for _, split := range splits {
		if _, ok := seen[split.Team]; ok {
			continue
		}
		seen[split.Team] = struct{}{}
		teams = append(teams, split.Team)
	}
	if len(teams) == 0 {
		return nil
	}

	attributions := make([]report.TeamAttribution, len(teams))
	workers := pool.New().WithMaxGoroutines(min(len(teams), s.leagueCheckConcurrency))
	for i, team := range teams {
		workers.Go(func() {
			attributions[i] = report.TeamAttribution{
				TeamName:    team,
				LeagueLabel: report.UnknownLeagueLabel,
			}
			for _, league := range roster.CheckOrder {
				if s.checker.TeamInLeague(ctx, league, season, team) {
					attributions[i].LeagueLabel = league.DisplayName()
					return
				}
			}
			s.logger.WarnContext(ctx, "league attribution degraded to unknown",
				"team", team,
				"season", season,
			)
		})
	}
	workers.Wait()

	return attributions
}
