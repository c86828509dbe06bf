package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"savemylinks/internal/cache"
)

// metrics exposes cache usage and rate-limit rejections to Prometheus.
// Each server owns its registry so tests can build servers freely
// without duplicate-registration panics.
type metrics struct {
	registry    *prometheus.Registry
	rateLimited prometheus.Counter
}

func newMetrics(c *cache.Cache) *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &metrics{
		registry: reg,
		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "savemylinks",
			Name:      "rate_limit_rejections_total",
			Help:      "Total number of requests rejected by the rate limiter",
		}),
	}

	if c == nil {
		return m
	}

	// The cache keeps its own counters; these are read-only views over
	// the stats snapshot.
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "savemylinks",
		Subsystem: "cache",
		Name:      "entries",
		Help:      "Current number of cached entries",
	}, func() float64 { return float64(c.Stats().Size) })

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "savemylinks",
		Subsystem: "cache",
		Name:      "hit_rate",
		Help:      "Lifetime cache hit rate",
	}, func() float64 { return c.Stats().HitRate })

	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "savemylinks",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, func() float64 { return float64(c.Stats().Hits) })

	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "savemylinks",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, func() float64 { return float64(c.Stats().Misses) })

	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "savemylinks",
		Subsystem: "cache",
		Name:      "evictions_total",
		Help:      "Total entries evicted for capacity",
	}, func() float64 { return float64(c.Stats().Evictions) })

	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "savemylinks",
		Subsystem: "cache",
		Name:      "expired_removals_total",
		Help:      "Total entries removed because they expired",
	}, func() float64 { return float64(c.Stats().ExpiredRemovals) })

	return m
}
