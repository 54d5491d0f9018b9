package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"github.com/luigi1104/shotmap/internal/domain/roster"
	"github.com/luigi1104/shotmap/internal/platform/logging"
)

// PlayerPage is the roster-relevant content of one player profile page.
type PlayerPage struct {
	Name   string
	League string
}

// PlayerPageFetcher loads a single player profile page by numeric id.
// found=false means the id does not exist upstream, which is an expected
// outcome while walking an id range, not an error.
type PlayerPageFetcher interface {
	PlayerPage(ctx context.Context, playerID int) (page PlayerPage, found bool, err error)
}

type CrawlStatus string

const (
	CrawlStatusFound    CrawlStatus = "found"
	CrawlStatusNotFound CrawlStatus = "not_found"
	CrawlStatusError    CrawlStatus = "error"
)

// CrawlOutcome is the independent result for one player id.
type CrawlOutcome struct {
	PlayerID int         `json:"player_id"`
	Status   CrawlStatus `json:"status"`
	Name     string      `json:"name,omitempty"`
	League   string      `json:"league,omitempty"`
	Message  string      `json:"message,omitempty"`
}

// CrawlResult summarizes a bounded crawl over an id range. Outcomes are
// ordered by player id regardless of fetch completion order.
type CrawlResult struct {
	FoundCount    int            `json:"found_count"`
	NotFoundCount int            `json:"not_found_count"`
	ErrorCount    int            `json:"error_count"`
	WorkerCount   int            `json:"worker_count"`
	Outcomes      []CrawlOutcome `json:"outcomes"`
}

const defaultCrawlWorkers = 8

// RosterCrawlService builds roster entries by walking an explicit bounded id
// range with per-id independent outcomes.
type RosterCrawlService struct {
	pages  PlayerPageFetcher
	logger *logging.Logger
}

func NewRosterCrawlService(pages PlayerPageFetcher, logger *logging.Logger) *RosterCrawlService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RosterCrawlService{pages: pages, logger: logger}
}

// CrawlRange fetches every id in [fromID, toID] through a bounded worker
// pool. One failed id never stops the range; it is recorded as an error
// outcome and the walk continues.
func (s *RosterCrawlService) CrawlRange(ctx context.Context, fromID, toID, maxWorkers int) (CrawlResult, error) {
	if fromID <= 0 || toID < fromID {
		return CrawlResult{}, fmt.Errorf("%w: invalid id range [%d, %d]", ErrInvalidInput, fromID, toID)
	}

	total := toID - fromID + 1
	workerCount := maxWorkers
	if workerCount < 1 {
		workerCount = defaultCrawlWorkers
	}
	if workerCount > total {
		workerCount = total
	}

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return CrawlResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	results := make(chan CrawlOutcome, total)

	var foundCount atomic.Int32
	var notFoundCount atomic.Int32
	var errorCount atomic.Int32

	var workers sync.WaitGroup
	for id := fromID; id <= toID; id++ {
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			outcome := s.crawlOne(ctx, id)
			switch outcome.Status {
			case CrawlStatusFound:
				foundCount.Add(1)
			case CrawlStatusNotFound:
				notFoundCount.Add(1)
			default:
				errorCount.Add(1)
			}
			results <- outcome
		}); err != nil {
			workers.Done()
			return CrawlResult{}, fmt.Errorf("submit id %d to worker pool: %w", id, err)
		}
	}

	workers.Wait()
	close(results)

	result := CrawlResult{
		WorkerCount: workerCount,
		Outcomes:    make([]CrawlOutcome, 0, total),
	}
	for outcome := range results {
		result.Outcomes = append(result.Outcomes, outcome)
	}
	sort.SliceStable(result.Outcomes, func(i, j int) bool {
		return result.Outcomes[i].PlayerID < result.Outcomes[j].PlayerID
	})

	result.FoundCount = int(foundCount.Load())
	result.NotFoundCount = int(notFoundCount.Load())
	result.ErrorCount = int(errorCount.Load())

	return result, nil
}

func (s *RosterCrawlService) crawlOne(ctx context.Context, playerID int) CrawlOutcome {
	outcome := CrawlOutcome{PlayerID: playerID}

	if err := ctx.Err(); err != nil {
		outcome.Status = CrawlStatusError
		outcome.Message = err.Error()
		return outcome
	}

	page, found, err := s.pages.PlayerPage(ctx, playerID)
	if err != nil {
		s.logger.WarnContext(ctx, "player page fetch failed", "player_id", playerID, "error", err)
		outcome.Status = CrawlStatusError
		outcome.Message = err.Error()
		return outcome
	}
	if !found {
		outcome.Status = CrawlStatusNotFound
		return outcome
	}

	outcome.Status = CrawlStatusFound
	outcome.Name = strings.ToLower(strings.TrimSpace(page.Name))
	outcome.League = strings.TrimSpace(page.League)
	return outcome
}

// RosterEntries converts found outcomes into validated roster entries.
// Outcomes whose league is not one of the covered competitions are skipped.
func RosterEntries(outcomes []CrawlOutcome) []roster.Entry {
	entries := make([]roster.Entry, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.Status != CrawlStatusFound {
			continue
		}
		league, err := roster.ParseLeague(outcome.League)
		if err != nil {
			continue
		}
		entry := roster.Entry{
			Name:     outcome.Name,
			PlayerID: strconv.Itoa(outcome.PlayerID),
			League:   league,
		}
		if entry.Validate() != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}
