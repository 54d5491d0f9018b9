package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/luigi1104/shotmap/internal/domain/roster"
	"github.com/luigi1104/shotmap/internal/domain/shot"
	"github.com/luigi1104/shotmap/internal/infrastructure/repository/memory"
	"github.com/luigi1104/shotmap/internal/platform/cache"
	"github.com/luigi1104/shotmap/internal/platform/logging"
	"github.com/luigi1104/shotmap/internal/platform/matching"
	"github.com/luigi1104/shotmap/internal/usecase"
)

type fixedFetcher struct {
	mu      sync.Mutex
	calls   int
	payload shot.PlayerPayload
}

func (f *fixedFetcher) PlayerData(context.Context, string) (shot.PlayerPayload, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.payload, nil
}

func (f *fixedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fixedChecker struct{ member bool }

func (c fixedChecker) TeamInLeague(context.Context, roster.League, string, string) bool {
	return c.member
}

func newTestRouter(t *testing.T, fetcher usecase.ShotDataFetcher, reportCache *cache.Store) http.Handler {
	t.Helper()

	repo, err := memory.NewRosterRepository([]roster.Entry{
		{Name: "erling haaland", PlayerID: "8260", League: roster.LeagueEPL},
	})
	if err != nil {
		t.Fatalf("build roster repo: %v", err)
	}

	logger := logging.NewNop()
	resolver := usecase.NewResolverService(repo, matching.NewNGramEmbedder(), 0.5, logger)
	reportService := usecase.NewReportService(resolver, fetcher, fixedChecker{member: true}, 2, logger)
	handler := NewHandler(reportService, reportCache, logger)

	return NewRouter(handler, logger, []string{"*"})
}

func haalandPayload() shot.PlayerPayload {
	return shot.PlayerPayload{
		Shots: []shot.Event{
			{Season: "2024", Minute: 12, X: 0.87, Y: 0.5, XG: 0.41, Result: shot.ResultGoal, Situation: shot.SituationOpenPlay},
			{Season: "2024", Minute: 55, X: 0.79, Y: 0.4, XG: 0.1, Result: shot.ResultSavedShot, Situation: shot.SituationFromCorner},
		},
		Splits: []shot.SeasonTeamSplit{
			{Season: "2024", Team: "Manchester City", Minutes: 900, XG: 9, XA: 1, NPXG: 8, Shots: 45},
		},
	}
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestGetPlayerReport_Success(t *testing.T) {
	router := newTestRouter(t, &fixedFetcher{payload: haalandPayload()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/players/erling%20haaland/seasons/2024/report", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object in response")
	}
	if got, _ := data["playerName"].(string); got != "erling haaland" {
		t.Fatalf("unexpected playerName: %v", data["playerName"])
	}
	if got, _ := data["teamLabel"].(string); got != "Manchester City (EPL)" {
		t.Fatalf("unexpected teamLabel: %v", data["teamLabel"])
	}
	shots, ok := data["shots"].([]any)
	if !ok || len(shots) != 2 {
		t.Fatalf("expected 2 shots in response, got %v", data["shots"])
	}
	first, _ := shots[0].(map[string]any)
	if got, _ := first["x"].(float64); got != 87 {
		t.Fatalf("expected display x=87, got %v", first["x"])
	}
}

func TestGetPlayerReport_UnknownPlayerWithEmptyFallback(t *testing.T) {
	fetcher := &fixedFetcher{payload: shot.PlayerPayload{}}
	router := newTestRouter(t, fetcher, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/players/zzqy/seasons/2019/report", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// Resolution never refuses a non-empty roster, so the request reaches the
	// fetcher and fails on the empty season instead.
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND status, got %v", errorObj["status"])
	}
}

func TestGetPlayerReport_LiteralPercentInName(t *testing.T) {
	router := newTestRouter(t, &fixedFetcher{payload: haalandPayload()}, nil)

	// The mux decodes the path segment once; a name carrying a literal
	// percent must not be unescaped a second time and rejected.
	req := httptest.NewRequest(http.MethodGet, "/v1/players/h%25aland/seasons/2024/report", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestGetPlayerReport_SeasonValidation(t *testing.T) {
	router := newTestRouter(t, &fixedFetcher{payload: haalandPayload()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/players/erling%20haaland/seasons/20x4/report", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestGetPlayerReport_MissingSeasonListsAvailable(t *testing.T) {
	router := newTestRouter(t, &fixedFetcher{payload: haalandPayload()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/players/erling%20haaland/seasons/2019/report", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	errorObj, _ := body["error"].(map[string]any)
	items, _ := errorObj["errors"].([]any)
	foundSeasons := false
	for _, raw := range items {
		item, _ := raw.(map[string]any)
		if reason, _ := item["reason"].(string); reason == "seasonsWithData" {
			foundSeasons = true
			if msg, _ := item["message"].(string); msg != "2024" {
				t.Fatalf("expected available seasons 2024, got %q", msg)
			}
		}
	}
	if !foundSeasons {
		t.Fatalf("expected seasonsWithData error item, got %v", items)
	}
}

func TestGetPlayerReport_CachesResponses(t *testing.T) {
	fetcher := &fixedFetcher{payload: haalandPayload()}
	router := newTestRouter(t, fetcher, cache.NewStore(time.Minute))

	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/v1/players/erling%20haaland/seasons/2024/report", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
	}

	if fetcher.callCount() != 1 {
		t.Fatalf("expected a single upstream fetch, got %d", fetcher.callCount())
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, &fixedFetcher{payload: haalandPayload()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
