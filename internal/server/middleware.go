package server

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// rateLimit is the sliding-window admission middleware. Rejections are
// a deliberate control-flow outcome: they get a structured 429 with a
// retry hint and a security log entry, and the attempt itself is not
// recorded against the client's window.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.cfg.RateLimitEnabled {
			next.ServeHTTP(w, r)
			return
		}

		now := time.Now()
		client := clientIP(r)

		if !s.limiter.Allow(client, now) {
			s.log.Warn("rate limit exceeded",
				"event", "rate_limit_exceeded",
				"client_ip", client,
				"method", r.Method,
				"path", r.URL.Path,
			)
			s.metrics.rateLimited.Inc()

			retryAfter := int(s.limiter.Window() / time.Second)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeError(w, http.StatusTooManyRequests, "rate_limit_exceeded",
				"Rate limit exceeded. Please try again later.",
				map[string]any{"retry_after": retryAfter})
			return
		}

		s.limiter.Record(client, now)

		// Headers must be staged before the handler writes the body.
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(s.limiter.Limit()))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(s.limiter.Remaining(client, now)))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(now.Add(s.limiter.Window()).Unix(), 10))

		next.ServeHTTP(w, r)
	})
}

// clientIP resolves the rate-limit key for a request: first
// X-Forwarded-For entry, then X-Real-IP, then the transport peer
// address, then a sentinel.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0]); first != "" {
			return first
		}
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return rip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
