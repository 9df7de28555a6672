// Package ttlcache wraps go-cache behind a typed store so external lookups
// can avoid repeat network calls within a validity window. Expired entries
// read as misses; there is no capacity bound because keys are bounded by the
// small number of distinct location/date combinations a single user generates.
package ttlcache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Store is a typed TTL cache keyed by deterministic strings derived from
// the logical request (normalized query plus language, rounded coordinates
// plus timezone, and so on).
type Store[V any] struct {
	cache      *cache.Cache
	defaultTTL time.Duration
}

// New creates a store with the given default TTL. The janitor sweeps at
// twice the TTL, matching how other clients in this codebase size theirs.
func New[V any](defaultTTL time.Duration) *Store[V] {
	return &Store[V]{
		cache:      cache.New(defaultTTL, 2*defaultTTL),
		defaultTTL: defaultTTL,
	}
}

// Get returns the cached value for key. A missing, expired or
// wrongly-typed entry reads as a miss.
func (s *Store[V]) Get(key string) (V, bool) {
	var zero V
	raw, found := s.cache.Get(key)
	if !found {
		return zero, false
	}
	value, ok := raw.(V)
	if !ok {
		s.cache.Delete(key)
		return zero, false
	}
	return value, true
}

// Set stores value under key with the default TTL.
func (s *Store[V]) Set(key string, value V) {
	s.cache.Set(key, value, cache.DefaultExpiration)
}

// SetTTL stores value under key with an explicit TTL.
func (s *Store[V]) SetTTL(key string, value V, ttl time.Duration) {
	s.cache.Set(key, value, ttl)
}

// Delete removes the entry for key if present.
func (s *Store[V]) Delete(key string) {
	s.cache.Delete(key)
}

// Flush removes all entries.
func (s *Store[V]) Flush() {
	s.cache.Flush()
}

// ItemCount returns the number of items, expired entries included until
// the janitor sweeps them.
func (s *Store[V]) ItemCount() int {
	return s.cache.ItemCount()
}
