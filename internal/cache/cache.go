package cache

import (
	"container/list"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// TTL sentinels accepted by Set.
const (
	// DefaultTTL tells Set to apply the cache's configured default TTL.
	DefaultTTL time.Duration = 0
	// NoExpiration marks an entry that never expires by time.
	NoExpiration time.Duration = -1
)

var (
	// ErrInvalidTTL is returned by Set for a negative TTL that is not
	// the NoExpiration sentinel.
	ErrInvalidTTL = errors.New("cache: invalid ttl")
)

// Config controls capacity and default expiry.
type Config struct {
	// MaxSize is the entry capacity. It must be positive.
	MaxSize int
	// DefaultTTL is applied when Set is called with DefaultTTL.
	// Zero means entries have no default expiry.
	DefaultTTL time.Duration
}

// entry is the value stored in the LRU list elements. The key is kept
// here because eviction starts from list nodes.
type entry struct {
	key          string
	value        any
	createdAt    time.Time
	ttl          time.Duration // <= 0 means never expires
	accessCount  int64
	lastAccessed time.Time
}

func (e *entry) expired(now time.Time) bool {
	return e.ttl > 0 && now.Sub(e.createdAt) > e.ttl
}

func (e *entry) age(now time.Time) time.Duration {
	return now.Sub(e.createdAt)
}

// Cache is a concurrency-safe in-memory key-value cache with TTL and
// LRU eviction. Construct it with New; the zero value is not usable.
type Cache struct {
	mu sync.Mutex

	maxSize    int
	defaultTTL time.Duration

	items map[string]*list.Element
	lru   *list.List // Front = most recently used, Back = eviction candidate

	// Lifetime counters. Clear does not reset them.
	hits            uint64
	misses          uint64
	evictions       uint64
	expiredRemovals uint64

	clock func() time.Time
}

// New constructs a Cache. The configuration is validated eagerly so a
// malformed capacity or TTL fails here rather than surfacing later as
// corrupted state.
func New(cfg Config) (*Cache, error) {
	if cfg.MaxSize <= 0 {
		return nil, fmt.Errorf("cache: max size must be positive, got %d", cfg.MaxSize)
	}
	if cfg.DefaultTTL < 0 {
		return nil, fmt.Errorf("cache: default ttl must be non-negative, got %s", cfg.DefaultTTL)
	}
	return &Cache{
		maxSize:    cfg.MaxSize,
		defaultTTL: cfg.DefaultTTL,
		items:      make(map[string]*list.Element),
		lru:        list.New(),
		clock:      time.Now,
	}, nil
}

// Get reads a key. Expired entries are removed on access and reported
// as misses; a hit marks the entry most recently used and bumps its
// access bookkeeping.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}

	e := el.Value.(*entry)
	if e.expired(now) {
		c.removeElement(el)
		c.expiredRemovals++
		c.misses++
		return nil, false
	}

	c.lru.MoveToFront(el)
	e.accessCount++
	e.lastAccessed = now
	c.hits++
	return e.value, true
}

// Set writes a key. An existing entry under the same key is discarded
// entirely, access history included, and the fresh entry becomes most
// recently used. After insertion the cache evicts from the LRU end
// until it is back within capacity.
//
// ttl may be an explicit positive duration, DefaultTTL to use the
// cache default, or NoExpiration.
func (c *Cache) Set(key string, value any, ttl time.Duration) error {
	if ttl < 0 && ttl != NoExpiration {
		return ErrInvalidTTL
	}
	if ttl == DefaultTTL {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}

	e := &entry{
		key:          key,
		value:        value,
		createdAt:    now,
		ttl:          ttl,
		lastAccessed: now,
	}
	c.items[key] = c.lru.PushFront(e)

	// Strict post-condition: tolerate any transient overcapacity, not
	// just the single slot this insert added.
	for len(c.items) > c.maxSize {
		back := c.lru.Back()
		if back == nil {
			break
		}
		c.removeElement(back)
		c.evictions++
	}
	return nil
}

// Delete removes a key if present and reports whether a removal
// occurred. It has no effect on the hit/miss counters.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeElement(el)
	return true
}

// Clear removes all entries. Lifetime counters survive.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.lru.Init()
}

// CleanupExpired removes every expired entry in one sweep and returns
// the count removed. This is the only bulk-expiry path; Get expires
// only the key being read.
func (c *Cache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	removed := 0
	for _, el := range c.items {
		e := el.Value.(*entry)
		if e.expired(now) {
			c.removeElement(el)
			removed++
		}
	}
	c.expiredRemovals += uint64(removed)
	return removed
}

// InvalidatePattern removes every entry whose key contains pattern as
// a substring and returns the count removed. The scan and the deletes
// happen in one critical section; insertions racing the call may land
// before or after the sweep, which is the documented best-effort
// behavior.
func (c *Cache) InvalidatePattern(pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, el := range c.items {
		if strings.Contains(key, pattern) {
			c.removeElement(el)
			removed++
		}
	}
	return removed
}

// Len returns the number of currently stored entries, including
// entries that have expired but not yet been swept.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Keys returns keys in MRU -> LRU order. Debug helper.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, c.lru.Len())
	for el := c.lru.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*entry).key)
	}
	return out
}

// HitRate is hits / (hits + misses), or 0.0 before any lookup.
func (c *Cache) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hitRateLocked()
}

func (c *Cache) hitRateLocked() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0.0
	}
	return float64(c.hits) / float64(total)
}

// Stats is a point-in-time snapshot of cache usage.
type Stats struct {
	Size              int     `json:"size"`
	MaxSize           int     `json:"max_size"`
	Hits              uint64  `json:"hits"`
	Misses            uint64  `json:"misses"`
	HitRate           float64 `json:"hit_rate"`
	Evictions         uint64  `json:"evictions"`
	ExpiredRemovals   uint64  `json:"expired_removals"`
	DefaultTTLSeconds float64 `json:"default_ttl_seconds"`
}

// Stats returns a consistent snapshot taken under the cache lock.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Size:              len(c.items),
		MaxSize:           c.maxSize,
		Hits:              c.hits,
		Misses:            c.misses,
		HitRate:           c.hitRateLocked(),
		Evictions:         c.evictions,
		ExpiredRemovals:   c.expiredRemovals,
		DefaultTTLSeconds: c.defaultTTL.Seconds(),
	}
}

// removeElement unlinks an entry from both the map and the list.
// Caller must hold the mutex.
func (c *Cache) removeElement(el *list.Element) {
	e := el.Value.(*entry)
	delete(c.items, e.key)
	c.lru.Remove(el)
}
