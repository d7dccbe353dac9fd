// Package server exposes the simulation engine and the live/result caches
// over HTTP.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/jimmy058910/replitballgame-sub001/internal/cache"
	"github.com/jimmy058910/replitballgame-sub001/internal/config"
	"github.com/jimmy058910/replitballgame-sub001/internal/constants"
	"github.com/jimmy058910/replitballgame-sub001/internal/middleware"
	"github.com/jimmy058910/replitballgame-sub001/internal/sim"
)

type Server struct {
	cfg     *config.Config
	engine  *sim.Simulator
	live    *cache.LiveStateCache
	results *cache.ResultCache
	db      *sql.DB
	logger  zerolog.Logger
}

func New(
	cfg *config.Config,
	engine *sim.Simulator,
	live *cache.LiveStateCache,
	results *cache.ResultCache,
	db *sql.DB,
	logger zerolog.Logger,
) *Server {
	return &Server{
		cfg:     cfg,
		engine:  engine,
		live:    live,
		results: results,
		db:      db,
		logger:  logger,
	}
}

// Router assembles the HTTP surface. Mutating routes share one IP rate
// limiter; reads are unlimited.
func (s *Server) Router() http.Handler {
	limited := middleware.RateLimit(s.cfg.RateLimit, s.cfg.RateLimitWindow)

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/matches", func(m chi.Router) {
			m.Get("/live", s.handleListLive)
			m.Route("/{matchID}", func(mm chi.Router) {
				mm.With(limited).Post("/simulate", s.handleSimulate)
				mm.Get("/live", s.handleGetLive)
				mm.With(limited).Post("/live/sync", s.handleSyncLive)
				mm.With(limited).Patch("/live", s.handleUpdateLive)
				mm.With(limited).Delete("/live", s.handleClearLive)
			})
		})
		api.With(limited).Post("/rounds/{day}/simulate", s.handleSimulateRound)
		api.Route("/cache", func(c chi.Router) {
			c.Get("/stats", s.handleCacheStats)
			c.With(limited).Delete("/", s.handleCacheClearAll)
			c.With(limited).Delete("/{matchID}", s.handleCacheClear)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.DatabaseTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error().Err(err).Msg("health check database ping failed")
		writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
