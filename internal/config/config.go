// Package config loads typed application settings from the
// environment, with optional .env file support and eager validation.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting for the service.
type Config struct {
	Environment string // development, staging, or production
	Host        string
	Port        int
	LogLevel    slog.Level

	CacheEnabled         bool
	CacheMaxSize         int
	CacheDefaultTTL      time.Duration
	CacheCleanupInterval time.Duration

	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Load reads settings from the environment. A .env file next to the
// binary is applied first if present (ENV_FILE overrides the path);
// real environment variables win over file values. Malformed values are
// rejected here so they cannot surface later as corrupted state.
func Load() (Config, error) {
	if path := os.Getenv("ENV_FILE"); path != "" {
		if err := godotenv.Load(path); err != nil {
			return Config{}, fmt.Errorf("config: load env file %s: %w", path, err)
		}
	} else {
		_ = godotenv.Load() // best-effort: .env is optional
	}

	cfg := Config{
		Environment: getenv("ENVIRONMENT", "development"),
		Host:        getenv("HOST", "127.0.0.1"),
		Port:        getenvInt("PORT", 8000),
		LogLevel:    parseLogLevel(getenv("LOG_LEVEL", "info")),

		CacheEnabled:         getenvBool("CACHE_ENABLED", true),
		CacheMaxSize:         getenvInt("CACHE_MAX_SIZE", 1000),
		CacheDefaultTTL:      getenvSeconds("CACHE_DEFAULT_TTL", 300*time.Second),
		CacheCleanupInterval: getenvSeconds("CACHE_CLEANUP_INTERVAL", 5*time.Minute),

		RateLimitEnabled:  getenvBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: getenvInt("RATE_LIMIT_REQUESTS", 1000),
		RateLimitWindow:   getenvSeconds("RATE_LIMIT_WINDOW", time.Hour),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: port out of range: %d", c.Port)
	}
	if c.CacheMaxSize < 1 {
		return fmt.Errorf("config: cache max size must be positive, got %d", c.CacheMaxSize)
	}
	if c.CacheDefaultTTL < 0 {
		return fmt.Errorf("config: cache default ttl must be non-negative, got %s", c.CacheDefaultTTL)
	}
	if c.CacheCleanupInterval < 0 {
		return fmt.Errorf("config: cache cleanup interval must be non-negative, got %s", c.CacheCleanupInterval)
	}
	if c.RateLimitRequests < 1 {
		return fmt.Errorf("config: rate limit requests must be positive, got %d", c.RateLimitRequests)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("config: rate limit window must be positive, got %s", c.RateLimitWindow)
	}
	switch c.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("config: unknown environment %q", c.Environment)
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool { return c.Environment == "production" }

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// getenvSeconds reads a duration expressed as whole seconds.
func getenvSeconds(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return time.Duration(n) * time.Second
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
