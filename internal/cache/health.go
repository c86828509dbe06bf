package cache

// Health thresholds. A low hit rate is only meaningful once the cache
// has seen enough traffic to judge.
const (
	healthMinLookups   = 100
	healthMinHitRate   = 0.5
	healthFullFraction = 0.9
)

// Health is the result of a cache health check.
type Health struct {
	Status string   `json:"status"` // "healthy" or "warning"
	Issues []string `json:"issues"`
	Stats  Stats    `json:"stats"`
}

// Health inspects the current stats snapshot and flags a low hit rate
// (after 100+ lookups) and near-full capacity (>= 90%).
func (c *Cache) Health() Health {
	st := c.Stats()

	issues := []string{}
	if st.Hits+st.Misses > healthMinLookups && st.HitRate < healthMinHitRate {
		issues = append(issues, "low cache hit rate")
	}
	if float64(st.Size) >= healthFullFraction*float64(st.MaxSize) {
		issues = append(issues, "cache nearly full")
	}

	status := "healthy"
	if len(issues) > 0 {
		status = "warning"
	}
	return Health{Status: status, Issues: issues, Stats: st}
}
