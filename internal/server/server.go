// Package server provides the HTTP handlers, routing, and middleware
// for the SaveMyLinks API.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"savemylinks/internal/cache"
	"savemylinks/internal/config"
	"savemylinks/internal/ratelimit"
	"savemylinks/internal/store"
)

// Server wires the router, cache, rate limiter, and resource store.
// The composition root constructs the collaborators and passes them in;
// the server never creates shared state of its own, which keeps tests
// free of process-wide singletons.
type Server struct {
	cfg     config.Config
	log     *slog.Logger
	router  *chi.Mux
	cache   *cache.Cache // nil when caching is disabled
	limiter *ratelimit.SlidingWindow
	store   *store.Store
	metrics *metrics

	categories func(context.Context, struct{}) ([]string, error)
}

// New constructs a Server with middleware and routes configured.
// c may be nil to run with caching disabled.
func New(cfg config.Config, logger *slog.Logger, c *cache.Cache, limiter *ratelimit.SlidingWindow, st *store.Store) *Server {
	s := &Server{
		cfg:     cfg,
		log:     logger,
		router:  chi.NewRouter(),
		cache:   c,
		limiter: limiter,
		store:   st,
		metrics: newMetrics(c),
	}

	s.categories = cache.Memoize(c, "resources:categories", cache.DefaultTTL, nil,
		func(context.Context, struct{}) ([]string, error) {
			return st.Categories(), nil
		})

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(s.rateLimit)

	s.router.Get("/health", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/resources", func(r chi.Router) {
			r.Post("/", s.handleCreateResource)
			r.Get("/", s.handleListResources)
			r.Get("/{id}", s.handleGetResource)
			r.Put("/{id}", s.handleUpdateResource)
			r.Delete("/{id}", s.handleDeleteResource)
		})
		r.Get("/categories", s.handleCategories)
		r.Route("/cache", func(r chi.Router) {
			r.Get("/stats", s.handleCacheStats)
			r.Post("/cleanup", s.handleCacheCleanup)
		})
	})

	return s
}

// Router exposes the root HTTP handler for the server.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{"status": "healthy"}
	if s.cache != nil {
		h := s.cache.Health()
		body["status"] = h.Status
		body["cache"] = h
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	if s.cache == nil {
		writeJSON(w, http.StatusOK, map[string]any{"enabled": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"enabled": true,
		"stats":   s.cache.Stats(),
	})
}

func (s *Server) handleCacheCleanup(w http.ResponseWriter, _ *http.Request) {
	if s.cache == nil {
		writeJSON(w, http.StatusOK, map[string]any{"enabled": false, "removed_expired": 0})
		return
	}
	removed := s.cache.CleanupExpired()
	s.log.Info("manual cache cleanup", "removed", removed)
	writeJSON(w, http.StatusOK, map[string]any{
		"enabled":         true,
		"removed_expired": removed,
		"current_size":    s.cache.Len(),
	})
}

// cacheGet, cacheSet, and invalidate tolerate a nil cache so handlers
// need no enabled checks of their own.

func (s *Server) cacheGet(key string) (any, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(key)
}

func (s *Server) cacheSet(key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(key, value, cache.DefaultTTL); err != nil {
		s.log.Error("cache set failed", "key", key, "error", err)
	}
}

func (s *Server) invalidate(pattern string) {
	if s.cache == nil {
		return
	}
	if removed := s.cache.InvalidatePattern(pattern); removed > 0 {
		s.log.Debug("invalidated cache entries", "pattern", pattern, "removed", removed)
	}
}
