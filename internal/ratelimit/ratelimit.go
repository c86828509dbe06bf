// Package ratelimit implements per-client admission control over a
// sliding time window. Each client key maps to the timestamps of its
// requests inside the trailing window; timestamps older than the window
// are purged lazily whenever the key is inspected, never eagerly.
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// SlidingWindow admits at most limit requests per client key within any
// trailing window. It is safe for concurrent use. Callers supply the
// observation time explicitly, which keeps decisions deterministic and
// testable.
type SlidingWindow struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string][]time.Time
}

// New constructs a limiter. limit and window must be positive; the
// configuration layer validates user input before this point, so a bad
// value here is a programming error.
func New(limit int, window time.Duration) *SlidingWindow {
	if limit < 1 {
		panic(fmt.Sprintf("ratelimit: limit must be positive, got %d", limit))
	}
	if window <= 0 {
		panic(fmt.Sprintf("ratelimit: window must be positive, got %s", window))
	}
	return &SlidingWindow{
		limit:   limit,
		window:  window,
		clients: make(map[string][]time.Time),
	}
}

// Limit returns the configured requests-per-window.
func (l *SlidingWindow) Limit() int { return l.limit }

// Window returns the configured window length.
func (l *SlidingWindow) Window() time.Duration { return l.window }

// Allow reports whether a request from key at time now is admissible.
// It purges stale timestamps first, so the count reflects only the
// trailing window. Allow does not record the request; callers that
// admit it must follow up with Record.
func (l *SlidingWindow) Allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.purgeLocked(key, now)) < l.limit
}

// Record registers an admitted request from key at time now.
func (l *SlidingWindow) Record(key string, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.clients[key] = append(l.clients[key], now)
}

// Remaining returns how many more requests key may issue within the
// window ending at now. Purge-then-count, consistent with Allow.
func (l *SlidingWindow) Remaining(key string, now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	remaining := l.limit - len(l.purgeLocked(key, now))
	if remaining < 0 {
		return 0
	}
	return remaining
}

// purgeLocked drops timestamps strictly older than now-window and
// returns the surviving slice. Empty keys are removed from the map so
// one-off clients do not accumulate. Caller must hold the mutex.
func (l *SlidingWindow) purgeLocked(key string, now time.Time) []time.Time {
	stamps, ok := l.clients[key]
	if !ok {
		return nil
	}

	cutoff := now.Add(-l.window)
	i := 0
	for i < len(stamps) && stamps[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		stamps = append(stamps[:0], stamps[i:]...)
		if len(stamps) == 0 {
			delete(l.clients, key)
			return nil
		}
		l.clients[key] = stamps
	}
	return stamps
}
