// Package cache implements a single-process, in-memory key-value cache
// with per-entry TTL, LRU eviction at a fixed capacity, and usage
// statistics.
//
// The core data structures are explicit: a map gives O(1) key lookup and
// a doubly-linked list maintains recency ordering. A single mutex per
// cache instance serializes every operation, so the read-check-expire
// sequence on Get and the insert-then-evict sequence on Set are each one
// atomic critical section.
//
// Expired entries are removed lazily when read and in bulk by
// CleanupExpired, which a janitor goroutine (StartJanitor) runs on a
// fixed interval.
package cache
