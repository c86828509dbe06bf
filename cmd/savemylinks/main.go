// Command savemylinks starts the link-bookmarking HTTP server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"savemylinks/internal/cache"
	"savemylinks/internal/config"
	"savemylinks/internal/ratelimit"
	"savemylinks/internal/server"
	"savemylinks/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// Signal-aware context is the root of ownership for long-lived
	// background work.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var c *cache.Cache
	if cfg.CacheEnabled {
		c, err = cache.New(cache.Config{
			MaxSize:    cfg.CacheMaxSize,
			DefaultTTL: cfg.CacheDefaultTTL,
		})
		if err != nil {
			logger.Error("invalid cache configuration", "error", err)
			os.Exit(1)
		}
		stopJanitor := c.StartJanitor(cfg.CacheCleanupInterval, logger)
		defer stopJanitor()
	} else {
		logger.Info("caching disabled")
	}

	limiter := ratelimit.New(cfg.RateLimitRequests, cfg.RateLimitWindow)
	srv := server.New(cfg, logger, c, limiter, store.New())

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("starting savemylinks",
		"addr", cfg.Addr(),
		"environment", cfg.Environment,
		"cache_enabled", cfg.CacheEnabled,
		"rate_limit_enabled", cfg.RateLimitEnabled,
	)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
