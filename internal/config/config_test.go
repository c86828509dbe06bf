package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment != "development" {
		t.Fatalf("expected development default, got %q", cfg.Environment)
	}
	if !cfg.CacheEnabled || cfg.CacheMaxSize != 1000 || cfg.CacheDefaultTTL != 300*time.Second {
		t.Fatalf("unexpected cache defaults: %+v", cfg)
	}
	if !cfg.RateLimitEnabled || cfg.RateLimitRequests != 1000 || cfg.RateLimitWindow != time.Hour {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg)
	}
	if cfg.CacheCleanupInterval != 5*time.Minute {
		t.Fatalf("unexpected cleanup interval: %s", cfg.CacheCleanupInterval)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_MAX_SIZE", "42")
	t.Setenv("CACHE_DEFAULT_TTL", "120")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "60")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsProduction() {
		t.Fatal("expected production environment")
	}
	if cfg.Port != 9090 || cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("unexpected server settings: %+v", cfg)
	}
	if cfg.CacheEnabled || cfg.CacheMaxSize != 42 || cfg.CacheDefaultTTL != 2*time.Minute {
		t.Fatalf("unexpected cache settings: %+v", cfg)
	}
	if cfg.RateLimitRequests != 5 || cfg.RateLimitWindow != time.Minute {
		t.Fatalf("unexpected rate limit settings: %+v", cfg)
	}
	if cfg.Addr() != "127.0.0.1:9090" {
		t.Fatalf("unexpected addr %q", cfg.Addr())
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"zero cache size", "CACHE_MAX_SIZE", "0"},
		{"negative cache size", "CACHE_MAX_SIZE", "-10"},
		{"negative ttl", "CACHE_DEFAULT_TTL", "-5"},
		{"zero rate limit", "RATE_LIMIT_REQUESTS", "0"},
		{"zero window", "RATE_LIMIT_WINDOW", "0"},
		{"bad environment", "ENVIRONMENT", "sandbox"},
		{"bad port", "PORT", "70000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestMissingEnvFileFails(t *testing.T) {
	t.Setenv("ENV_FILE", "/nonexistent/.env")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit env file")
	}
}
