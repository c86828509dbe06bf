package cache

import (
	"log/slog"
	"sync"
	"time"
)

// StartJanitor starts a goroutine that sweeps expired entries every
// interval and logs a stats summary. The returned stop function must be
// called to end the goroutine; it is safe to call more than once.
//
// A failure inside one cycle is recovered and logged so the janitor can
// never take the host process down with it.
func (c *Cache) StartJanitor(interval time.Duration, logger *slog.Logger) (stop func()) {
	if interval <= 0 {
		return func() {}
	}

	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				c.runMaintenance(logger)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

func (c *Cache) runMaintenance(logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("cache maintenance cycle failed", "panic", r)
		}
	}()

	removed := c.CleanupExpired()
	if removed > 0 {
		logger.Info("cache maintenance removed expired entries", "removed", removed)
	}

	st := c.Stats()
	logger.Debug("cache stats",
		"size", st.Size,
		"hits", st.Hits,
		"misses", st.Misses,
		"hit_rate", st.HitRate,
		"evictions", st.Evictions,
		"expired_removals", st.ExpiredRemovals,
	)
}
