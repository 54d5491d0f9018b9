package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sonic "github.com/bytedance/sonic"

	"github.com/luigi1104/shotmap/external/understat"
	"github.com/luigi1104/shotmap/internal/config"
	"github.com/luigi1104/shotmap/internal/platform/logging"
	"github.com/luigi1104/shotmap/internal/platform/resilience"
	"github.com/luigi1104/shotmap/internal/usecase"
)

type rosterRecord struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	League   string `json:"league"`
}

func main() {
	fromID := flag.Int("from", 1, "first player id to crawl (inclusive)")
	toID := flag.Int("to", 0, "last player id to crawl (inclusive)")
	workers := flag.Int("workers", 8, "max concurrent page fetches")
	output := flag.String("output", "roster.json", "path of the roster artifact to write")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer logger.Sync()

	if *toID <= 0 {
		logger.Error("missing crawl range", "hint", "-to is required, e.g. -from 1 -to 15000")
		os.Exit(2)
	}

	client := understat.NewClient(understat.ClientConfig{
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	crawler := usecase.NewRosterCrawlService(client, logger)

	logger.Info("crawl starting", "from", *fromID, "to", *toID, "workers", *workers)
	result, err := crawler.CrawlRange(ctx, *fromID, *toID, *workers)
	if err != nil {
		logger.Error("crawl failed", "error", err)
		os.Exit(1)
	}

	logger.Info("crawl finished",
		"found", result.FoundCount,
		"not_found", result.NotFoundCount,
		"errors", result.ErrorCount,
		"workers", result.WorkerCount,
	)

	entries := usecase.RosterEntries(result.Outcomes)
	if len(entries) == 0 {
		logger.Error("no roster entries produced", "from", *fromID, "to", *toID)
		os.Exit(1)
	}

	records := make([]rosterRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, rosterRecord{
			PlayerID: entry.PlayerID,
			Name:     entry.Name,
			League:   string(entry.League),
		})
	}

	raw, err := sonic.MarshalIndent(records, "", "  ")
	if err != nil {
		logger.Error("encode roster", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*output, raw, 0o644); err != nil {
		logger.Error("write roster", "path", *output, "error", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %d roster entries to %s\n", len(records), *output)
}
