package understat

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/luigi1104/shotmap/internal/domain/roster"
	"github.com/luigi1104/shotmap/internal/domain/shot"
	"github.com/luigi1104/shotmap/internal/platform/logging"
	"github.com/luigi1104/shotmap/internal/platform/resilience"
	"github.com/luigi1104/shotmap/internal/usecase"
)

const (
	defaultBaseURL   = "https://understat.com"
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

var errUnderstatTransient = crerr.New("understat transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	Logger     *logging.Logger
	Breaker    resilience.BreakerConfig
}

// Client fetches shot data, league fixtures, and player pages from the
// understat site. The data endpoints speak JSON behind an XHR header; the
// player pages are plain HTML.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.Breaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

var (
	_ usecase.ShotDataFetcher   = (*Client)(nil)
	_ usecase.LeagueChecker     = (*Client)(nil)
	_ usecase.PlayerPageFetcher = (*Client)(nil)
)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	// A caller-supplied client is used as-is; the timeout default only
	// applies to the client built here.
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		userAgent:      userAgent,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewBreaker(cfg.Breaker),
		circuitEnabled: cfg.Breaker.Enabled,
	}
}

// PlayerData fetches every recorded shot and per-season split for one player.
func (c *Client) PlayerData(ctx context.Context, playerID string) (shot.PlayerPayload, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return shot.PlayerPayload{}, fmt.Errorf("player id must not be empty")
	}

	var envelope playerDataEnvelope
	path := "/getPlayerData/" + url.PathEscape(playerID)
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return shot.PlayerPayload{}, fmt.Errorf("fetch player data player_id=%s: %w", playerID, err)
	}

	payload, err := mapPlayerPayload(envelope)
	if err != nil {
		return shot.PlayerPayload{}, fmt.Errorf("map player data player_id=%s: %w", playerID, err)
	}
	return payload, nil
}

// TeamInLeague reports whether the team appears in any fixture of the given
// league season. Any fetch or decode failure is absorbed as false so a single
// broken league probe never takes the whole report down.
func (c *Client) TeamInLeague(ctx context.Context, league roster.League, season, team string) bool {
	team = strings.TrimSpace(team)
	if team == "" {
		return false
	}

	var envelope leagueDataEnvelope
	path := fmt.Sprintf("/getLeagueData/%s/%s", url.PathEscape(leagueSlug(league)), url.PathEscape(season))
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		c.logger.WarnContext(ctx, "league membership probe failed",
			"league", string(league), "season", season, "team", team, "error", err)
		return false
	}

	for _, fixture := range envelope.fixtures() {
		if fixture.Home.Title == team || fixture.Away.Title == team {
			return true
		}
	}
	return false
}

// PlayerPage fetches a player profile page and scrapes the player name and
// league from the breadcrumb trail. The second return is false when the site
// serves its not-found page for the id.
func (c *Client) PlayerPage(ctx context.Context, playerID int) (usecase.PlayerPage, bool, error) {
	if playerID <= 0 {
		return usecase.PlayerPage{}, false, fmt.Errorf("player id must be greater than zero")
	}

	raw, err := c.doRaw(ctx, fmt.Sprintf("/player/%d", playerID))
	if err != nil {
		return usecase.PlayerPage{}, false, fmt.Errorf("fetch player page player_id=%d: %w", playerID, err)
	}
	if strings.Contains(string(raw), "Page not found") {
		return usecase.PlayerPage{}, false, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		return usecase.PlayerPage{}, false, fmt.Errorf("parse player page player_id=%d: %w", playerID, err)
	}

	crumbs := doc.Find("ul.breadcrumb li")
	if crumbs.Length() < 3 {
		return usecase.PlayerPage{}, false, fmt.Errorf("player page player_id=%d: breadcrumb has %d items, want at least 3", playerID, crumbs.Length())
	}

	page := usecase.PlayerPage{
		Name:   strings.TrimSpace(crumbs.Last().Text()),
		League: strings.TrimSpace(crumbs.Eq(1).Text()),
	}
	if page.Name == "" {
		return usecase.PlayerPage{}, false, fmt.Errorf("player page player_id=%d: empty player name in breadcrumb", playerID)
	}
	return page, true, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	raw, err := c.doRaw(ctx, path)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode understat payload: %w", err)
	}
	return nil
}

func (c *Client) doRaw(ctx context.Context, path string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "understat circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: shot data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isUnderstatCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-Requested-With", "XMLHttpRequest")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errUnderstatTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errUnderstatTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errUnderstatTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "understat request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// leagueSlug returns the URL path segment the site uses for a league.
// The slugs match the canonical league codes except for La Liga, whose
// site slug differs in casing.
func leagueSlug(league roster.League) string {
	if league == roster.LeagueLaLiga {
		return "La_liga"
	}
	return string(league)
}

func isUnderstatCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errUnderstatTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
