// Package app assembles the pipeline components from configuration. Both
// the server and the one-shot CLI commands build the same stack through it.
package app

import (
	"fmt"
	"log/slog"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/contentiq/contentiq/models"
	"github.com/contentiq/contentiq/pkg/ai"
	"github.com/contentiq/contentiq/pkg/caching"
	"github.com/contentiq/contentiq/pkg/detector"
	"github.com/contentiq/contentiq/pkg/extractor"
	"github.com/contentiq/contentiq/pkg/fetcher"
	"github.com/contentiq/contentiq/pkg/urlguard"
)

// App bundles the configured pipeline components.
type App struct {
	Config    *models.Config
	Logger    *slog.Logger
	Fetcher   *fetcher.Fetcher
	Extractor *extractor.Extractor
	AI        *ai.Service // nil without an API key
	Cache     *caching.Cache
}

// Build loads configuration from configPath (empty selects defaults plus
// environment overrides) and wires up the full component stack.
func Build(configPath string, quiet bool) (*App, error) {
	cfg, err := models.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := slog.LevelInfo
	if quiet {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	guard, err := urlguard.New(cfg.BlockedURLPatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL guard: %w", err)
	}

	f := fetcher.NewFetcher(guard,
		fetcher.WithTimeout(cfg.ScrapeTimeout()),
		fetcher.WithMaxRedirects(cfg.MaxRedirects),
		fetcher.WithMaxBytes(cfg.MaxResponseBytes),
	)

	e := extractor.NewExtractor(cfg.MaxContentLength, detector.New())

	var shared caching.SharedStore
	if cfg.CacheDBPath != "" {
		store, err := caching.OpenSQLiteStore(cfg.CacheDBPath)
		if err != nil {
			// The shared tier is an optimization; run without it.
			logger.Warn("shared cache unavailable", "path", cfg.CacheDBPath, "error", err)
		} else {
			shared = store
		}
	}
	cache := caching.New(cfg.CacheMaxEntries, cfg.CacheTTL(), shared, logger)

	var aiSvc *ai.Service
	if cfg.OpenAIAPIKey != "" {
		client := openai.NewClient(cfg.OpenAIAPIKey)
		aiSvc = ai.NewService(client, cfg.OpenAIModel)
	} else {
		logger.Info("no OpenAI API key configured, AI analysis disabled")
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		Fetcher:   f,
		Extractor: e,
		AI:        aiSvc,
		Cache:     cache,
	}, nil
}

// Close releases resources held by the components.
func (a *App) Close() {
	if err := a.Cache.Close(); err != nil {
		a.Logger.Warn("failed to close cache", "error", err)
	}
}
