package guardkit

import (
	"sync"
	"time"
)

// CacheConfig configures one named TTLCache instance.
type CacheConfig struct {
	Name       string
	MaxSize    int
	DefaultTTL time.Duration
	Clock      Clock // defaults to SystemClock
}

type cacheEntry[V any] struct {
	value     V
	writtenAt time.Time
	ttl       time.Duration
}

func (e *cacheEntry[V]) expired(now time.Time) bool {
	return now.Sub(e.writtenAt) > e.ttl
}

// TTLCache is a bounded in-memory key/value store with per-entry expiry.
//
// Entries expire lazily: a stale entry is evicted as a side effect of the
// read that finds it, so no background sweep is required for correctness.
// Cleanup can still run on a timer for memory hygiene. When the cache is at
// capacity, the least-recently-inserted entry is evicted (insertion order,
// not access order). Entries are owned exclusively by one instance and never
// shared by reference across instances.
//
// All methods are safe for concurrent use.
type TTLCache[V any] struct {
	name       string
	maxSize    int
	defaultTTL time.Duration
	clock      Clock

	mu      sync.RWMutex
	entries map[string]*cacheEntry[V]
	order   []string // insertion order, oldest first
}

// NewTTLCache creates a named cache instance.
func NewTTLCache[V any](cfg CacheConfig) *TTLCache[V] {
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock
	}
	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = 1000
	}
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TTLCache[V]{
		name:       cfg.Name,
		maxSize:    maxSize,
		defaultTTL: ttl,
		clock:      clock,
		entries:    make(map[string]*cacheEntry[V]),
	}
}

// Name returns the cache instance name.
func (c *TTLCache[V]) Name() string {
	return c.name
}

// Get returns the value for key, or false if the key was never set or its
// entry has outlived its TTL. A stale entry found here is removed as a side
// effect; Get never grows the cache.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	var zero V

	// Snapshot the entry under the read lock: SetTTL mutates entries in
	// place, so the fields must not be read after the lock is released.
	c.mu.RLock()
	e, ok := c.entries[key]
	var snapshot cacheEntry[V]
	if ok {
		snapshot = *e
	}
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}

	now := c.clock.Now()
	if snapshot.expired(now) {
		c.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have
		// refreshed the entry since the snapshot above.
		if cur, ok := c.entries[key]; ok && cur.expired(now) {
			c.removeLocked(key)
		}
		c.mu.Unlock()
		return zero, false
	}

	return snapshot.value, true
}

// Set stores value under key with the cache's default TTL.
func (c *TTLCache[V]) Set(key string, value V) {
	c.SetTTL(key, value, c.defaultTTL)
}

// SetTTL stores value under key with an explicit TTL, overwriting any
// existing entry. Overwriting refreshes value, write time and TTL but keeps
// the key's original insertion position. If the cache is at capacity and the
// key is new, the least-recently-inserted entry is evicted first; the
// capacity cap is enforced here only.
func (c *TTLCache[V]) SetTTL(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.writtenAt = now
		e.ttl = ttl
		return
	}

	if len(c.entries) >= c.maxSize && len(c.order) > 0 {
		c.removeLocked(c.order[0])
	}

	c.entries[key] = &cacheEntry[V]{value: value, writtenAt: now, ttl: ttl}
	c.order = append(c.order, key)
}

// Delete removes the entry for key if present.
func (c *TTLCache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return false
	}
	c.removeLocked(key)
	return true
}

// Clear removes all entries.
func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry[V])
	c.order = nil
}

// Keys returns a snapshot of the current keys in insertion order. The copy
// does not reflect mutations made after the snapshot is taken.
func (c *TTLCache[V]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, len(c.order))
	copy(keys, c.order)
	return keys
}

// Cleanup removes every expired entry and returns how many were dropped.
// Intended to run on a periodic timer independent of reads.
func (c *TTLCache[V]) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	var stale []string
	for key, e := range c.entries {
		if e.expired(now) {
			stale = append(stale, key)
		}
	}
	for _, key := range stale {
		c.removeLocked(key)
	}
	return len(stale)
}

// Len returns the number of entries currently stored, expired or not.
func (c *TTLCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *TTLCache[V]) removeLocked(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
