package app

import (
	"fmt"
	"net/http"

	"github.com/luigi1104/shotmap/external/understat"
	"github.com/luigi1104/shotmap/internal/config"
	"github.com/luigi1104/shotmap/internal/infrastructure/repository/memory"
	"github.com/luigi1104/shotmap/internal/interfaces/httpapi"
	"github.com/luigi1104/shotmap/internal/platform/cache"
	"github.com/luigi1104/shotmap/internal/platform/logging"
	"github.com/luigi1104/shotmap/internal/platform/matching"
	"github.com/luigi1104/shotmap/internal/platform/resilience"
	"github.com/luigi1104/shotmap/internal/usecase"
)

// NewHTTPServer wires the roster, resolver, understat client, and report
// pipeline into a configured server.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	rosterRepo, err := memory.LoadRosterFile(cfg.RosterPath)
	if err != nil {
		return nil, fmt.Errorf("load roster %s: %w", cfg.RosterPath, err)
	}

	resolver := usecase.NewResolverService(
		rosterRepo,
		matching.NewNGramEmbedder(),
		cfg.MatchThreshold,
		logger,
	)

	understatClient := understat.NewClient(understat.ClientConfig{
		BaseURL:    cfg.UnderstatBaseURL,
		UserAgent:  cfg.UnderstatUserAgent,
		Timeout:    cfg.UnderstatTimeout,
		MaxRetries: cfg.UnderstatMaxRetries,
		Logger:     logger,
		Breaker: resilience.BreakerConfig{
			Enabled:          cfg.UnderstatCircuitEnabled,
			FailureThreshold: cfg.UnderstatCircuitFailureCount,
			OpenTimeout:      cfg.UnderstatCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.UnderstatCircuitHalfOpenMaxReq,
		},
	})

	reportSvc := usecase.NewReportService(
		resolver,
		understatClient,
		understatClient,
		cfg.LeagueCheckMaxConcurrent,
		logger,
	)

	var reportCache *cache.Store
	if cfg.CacheEnabled {
		reportCache = cache.NewStore(cfg.CacheTTL)
	}

	handler := httpapi.NewHandler(reportSvc, reportCache, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
