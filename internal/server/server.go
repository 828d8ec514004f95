// Package server exposes the content intelligence pipeline over HTTP: six
// POST endpoints under /api/v1 plus health and pricing metadata.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/contentiq/contentiq/models"
	"github.com/contentiq/contentiq/pkg/ai"
	"github.com/contentiq/contentiq/pkg/caching"
	"github.com/contentiq/contentiq/pkg/extractor"
	"github.com/contentiq/contentiq/pkg/fetcher"
)

const apiVersion = "1.0.0"

// Server holds the pipeline components behind the HTTP surface.
type Server struct {
	cfg       *models.Config
	logger    *slog.Logger
	fetcher   *fetcher.Fetcher
	extractor *extractor.Extractor
	ai        *ai.Service // nil when no API key is configured
	cache     *caching.Cache
	startTime time.Time
}

// New assembles a Server from its components. ai may be nil; the AI-backed
// endpoints then answer 503.
func New(cfg *models.Config, logger *slog.Logger, f *fetcher.Fetcher, e *extractor.Extractor, aiSvc *ai.Service, cache *caching.Cache) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:       cfg,
		logger:    logger,
		fetcher:   f,
		extractor: e,
		ai:        aiSvc,
		cache:     cache,
		startTime: time.Now(),
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/pricing", s.handlePricing)
		r.Post("/extract", s.handleExtract)
		r.Post("/summarize", s.handleSummarize)
		r.Post("/sentiment", s.handleSentiment)
		r.Post("/seo", s.handleSEO)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/compare", s.handleCompare)
	})

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "contentiq",
		"version": apiVersion,
		"health":  "/health",
		"endpoints": []string{
			"/api/v1/extract",
			"/api/v1/summarize",
			"/api/v1/sentiment",
			"/api/v1/seo",
			"/api/v1/analyze",
			"/api/v1/compare",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"version":        apiVersion,
		"uptime_seconds": time.Since(s.startTime).Round(10 * time.Millisecond).Seconds(),
		"ai_enabled":     s.ai != nil,
		"timestamp":      time.Now().UTC(),
	})
}
