package understat

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/luigi1104/shotmap/internal/domain/roster"
	"github.com/luigi1104/shotmap/internal/domain/shot"
	"github.com/luigi1104/shotmap/internal/platform/logging"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Logger:     logging.NewNop(),
	})
}

func TestNewClient_LeavesSuppliedClientUntouched(t *testing.T) {
	t.Parallel()

	supplied := &http.Client{Timeout: 3 * time.Second}
	client := NewClient(ClientConfig{HTTPClient: supplied, Timeout: 45 * time.Second})
	if supplied.Timeout != 3*time.Second {
		t.Fatalf("supplied client timeout changed to %s", supplied.Timeout)
	}
	if client.httpClient != supplied {
		t.Fatal("expected client to use the supplied http client")
	}

	noTimeout := &http.Client{}
	_ = NewClient(ClientConfig{HTTPClient: noTimeout})
	if noTimeout.Timeout != 0 {
		t.Fatalf("supplied client timeout changed to %s", noTimeout.Timeout)
	}
}

func TestPlayerData_CoercesStringNumerics(t *testing.T) {
	t.Parallel()

	var gotXHR string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/getPlayerData/8260" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotXHR = r.Header.Get("X-Requested-With")
		_, _ = w.Write([]byte(`{
			"shots": [
				{"season": 2024, "minute": "12", "X": "0.885", "Y": "0.501", "xG": "0.4312", "result": "Goal", "situation": "OpenPlay"},
				{"season": "2024", "minute": 78, "X": 0.77, "Y": 0.36, "xG": 0.08, "result": "SavedShot", "situation": "FromCorner"}
			],
			"groups": {"season": [
				{"season": "2024", "team": "Manchester City", "time": "2610", "xG": "21.4", "xA": "5.2", "npxG": "17.9", "shots": "98"}
			]}
		}`))
	}))

	payload, err := client.PlayerData(t.Context(), "8260")
	if err != nil {
		t.Fatalf("PlayerData: %v", err)
	}
	if gotXHR != "XMLHttpRequest" {
		t.Fatalf("expected XHR header, got %q", gotXHR)
	}

	if len(payload.Shots) != 2 {
		t.Fatalf("expected 2 shots, got=%d", len(payload.Shots))
	}
	first := payload.Shots[0]
	if first.Season != "2024" || first.Minute != 12 || first.XG != 0.4312 {
		t.Fatalf("unexpected first shot %+v", first)
	}
	if first.Result != shot.ResultGoal {
		t.Fatalf("expected Goal result, got %q", first.Result)
	}

	if len(payload.Splits) != 1 {
		t.Fatalf("expected 1 split, got=%d", len(payload.Splits))
	}
	split := payload.Splits[0]
	if split.Team != "Manchester City" || split.Minutes != 2610 || split.Shots != 98 {
		t.Fatalf("unexpected split %+v", split)
	}
}

func TestPlayerData_RejectsGarbageNumerics(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"shots": [{"season": "2024", "minute": "12", "X": "o.885", "Y": "0.5", "xG": "0.1", "result": "Goal", "situation": "OpenPlay"}], "groups": {"season": []}}`))
	}))

	if _, err := client.PlayerData(t.Context(), "8260"); err == nil {
		t.Fatal("expected decode error for non-numeric coordinate")
	}
}

func TestPlayerData_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	if _, err := client.PlayerData(t.Context(), "99999"); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestTeamInLeague_MatchesHomeAndAway(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/getLeagueData/EPL/2024" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"dates": [
			{"h": {"title": "Arsenal"}, "a": {"title": "Chelsea"}},
			{"h": {"title": "Liverpool"}, "a": {"title": "Everton"}}
		]}`))
	}))

	ctx := t.Context()
	if !client.TeamInLeague(ctx, roster.LeagueEPL, "2024", "Arsenal") {
		t.Fatal("expected home team to be in league")
	}
	if !client.TeamInLeague(ctx, roster.LeagueEPL, "2024", "Everton") {
		t.Fatal("expected away team to be in league")
	}
	if client.TeamInLeague(ctx, roster.LeagueEPL, "2024", "Real Madrid") {
		t.Fatal("expected unknown team to be absent")
	}
}

func TestTeamInLeague_UsesSiteLeagueSlug(t *testing.T) {
	t.Parallel()

	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"dates": [{"h": {"title": "Barcelona"}, "a": {"title": "Sevilla"}}]}`))
	}))

	if !client.TeamInLeague(t.Context(), roster.LeagueLaLiga, "2024", "Barcelona") {
		t.Fatal("expected team to be in league")
	}
	if gotPath != "/getLeagueData/La_liga/2024" {
		t.Fatalf("expected the site's La Liga slug in the path, got %s", gotPath)
	}
}

func TestLeagueSlug(t *testing.T) {
	t.Parallel()

	cases := []struct {
		league roster.League
		want   string
	}{
		{roster.LeagueEPL, "EPL"},
		{roster.LeagueLaLiga, "La_liga"},
		{roster.LeagueBundesliga, "Bundesliga"},
		{roster.LeagueSerieA, "Serie_A"},
		{roster.LeagueLigue1, "Ligue_1"},
		{roster.LeagueRFPL, "RFPL"},
	}
	for _, tc := range cases {
		if got := leagueSlug(tc.league); got != tc.want {
			t.Errorf("leagueSlug(%s)=%s, want %s", tc.league, got, tc.want)
		}
	}
}

func TestTeamInLeague_FallsBackToDateKey(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"date": [{"h": {"title": "Zenit"}, "a": {"title": "Spartak Moscow"}}]}`))
	}))

	if !client.TeamInLeague(t.Context(), roster.LeagueRFPL, "2023", "Zenit") {
		t.Fatal("expected team under the date key to be found")
	}
}

func TestTeamInLeague_AbsorbsProviderFailure(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))

	if client.TeamInLeague(t.Context(), roster.LeagueEPL, "2024", "Arsenal") {
		t.Fatal("expected failed probe to report false")
	}
}

func TestPlayerPage_ScrapesBreadcrumb(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/player/8260" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`<html><body>
			<ul class="breadcrumb">
				<li><a href="/">Home</a></li>
				<li><a href="/league/La_Liga">La Liga</a></li>
				<li><a href="/team/Barcelona">Barcelona</a></li>
				<li>Robert Lewandowski</li>
			</ul>
		</body></html>`))
	}))

	page, found, err := client.PlayerPage(t.Context(), 8260)
	if err != nil {
		t.Fatalf("PlayerPage: %v", err)
	}
	if !found {
		t.Fatal("expected page to be found")
	}
	if page.Name != "Robert Lewandowski" {
		t.Fatalf("expected player name from last crumb, got %q", page.Name)
	}
	if page.League != "La Liga" {
		t.Fatalf("expected league from second crumb, got %q", page.League)
	}
}

func TestPlayerPage_NotFoundMarker(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><h1>Page not found</h1></body></html>`))
	}))

	_, found, err := client.PlayerPage(t.Context(), 424242)
	if err != nil {
		t.Fatalf("PlayerPage: %v", err)
	}
	if found {
		t.Fatal("expected not-found page to report found=false")
	}
}
