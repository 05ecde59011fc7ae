package guardkit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestCache(maxSize int, ttl time.Duration, clock Clock) *TTLCache[string] {
	return NewTTLCache[string](CacheConfig{
		Name:       "test",
		MaxSize:    maxSize,
		DefaultTTL: ttl,
		Clock:      clock,
	})
}

// TestCacheSetGet validates the basic round-trip.
func TestCacheSetGet(t *testing.T) {
	cache := newTestCache(10, time.Minute, nil)

	_, ok := cache.Get("missing")
	assert.False(t, ok)

	cache.Set("a", "alpha")
	got, ok := cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "alpha", got)
	assert.Equal(t, 1, cache.Len())
}

// TestCacheExpiry validates lazy TTL expiry against a fake clock.
func TestCacheExpiry(t *testing.T) {
	clock := NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	cache := newTestCache(10, time.Minute, clock)

	cache.Set("a", "alpha")

	// Exactly at the TTL boundary the entry is still live
	clock.Advance(time.Minute)
	got, ok := cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "alpha", got)

	// One tick past the TTL it is gone, and the read evicts it
	clock.Advance(time.Nanosecond)
	_, ok = cache.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

// TestCachePerEntryTTL validates SetTTL overriding the default.
func TestCachePerEntryTTL(t *testing.T) {
	clock := NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	cache := newTestCache(10, time.Minute, clock)

	cache.SetTTL("short", "s", 10*time.Second)
	cache.Set("long", "l")

	clock.Advance(30 * time.Second)
	_, ok := cache.Get("short")
	assert.False(t, ok)
	_, ok = cache.Get("long")
	assert.True(t, ok)
}

// TestCacheOverwriteRefreshes validates that overwriting resets the entry's
// write time and TTL.
func TestCacheOverwriteRefreshes(t *testing.T) {
	clock := NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	cache := newTestCache(10, time.Minute, clock)

	cache.Set("a", "v1")
	clock.Advance(45 * time.Second)
	cache.Set("a", "v2")

	clock.Advance(45 * time.Second)
	got, ok := cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "v2", got)
}

// TestCacheCapacityEviction validates insertion-order eviction at capacity.
func TestCacheCapacityEviction(t *testing.T) {
	cache := newTestCache(3, time.Minute, nil)

	cache.Set("a", "1")
	cache.Set("b", "2")
	cache.Set("c", "3")
	cache.Set("d", "4")

	// Oldest insertion evicted, the rest survive
	_, ok := cache.Get("a")
	assert.False(t, ok)
	for _, key := range []string{"b", "c", "d"} {
		_, ok := cache.Get(key)
		assert.True(t, ok, "key %s", key)
	}
	assert.Equal(t, 3, cache.Len())
}

// TestCacheOverwriteKeepsPosition validates that overwriting does not move a
// key to the back of the eviction order.
func TestCacheOverwriteKeepsPosition(t *testing.T) {
	cache := newTestCache(3, time.Minute, nil)

	cache.Set("a", "1")
	cache.Set("b", "2")
	cache.Set("c", "3")

	// Refreshing "a" keeps it the oldest insertion
	cache.Set("a", "1b")
	cache.Set("d", "4")

	_, ok := cache.Get("a")
	assert.False(t, ok)
	_, ok = cache.Get("b")
	assert.True(t, ok)
}

// TestCacheOverwriteNeverEvicts validates that a full cache accepts
// overwrites without evicting anything.
func TestCacheOverwriteNeverEvicts(t *testing.T) {
	cache := newTestCache(2, time.Minute, nil)

	cache.Set("a", "1")
	cache.Set("b", "2")
	cache.Set("b", "2b")

	assert.Equal(t, 2, cache.Len())
	got, _ := cache.Get("a")
	assert.Equal(t, "1", got)
	got, _ = cache.Get("b")
	assert.Equal(t, "2b", got)
}

// TestCacheDeleteAndClear validates explicit removal.
func TestCacheDeleteAndClear(t *testing.T) {
	cache := newTestCache(10, time.Minute, nil)

	cache.Set("a", "1")
	cache.Set("b", "2")

	assert.True(t, cache.Delete("a"))
	assert.False(t, cache.Delete("a"))
	assert.Equal(t, 1, cache.Len())

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
	assert.Empty(t, cache.Keys())
}

// TestCacheKeysInsertionOrder validates the key snapshot ordering.
func TestCacheKeysInsertionOrder(t *testing.T) {
	cache := newTestCache(10, time.Minute, nil)

	cache.Set("c", "3")
	cache.Set("a", "1")
	cache.Set("b", "2")

	assert.Equal(t, []string{"c", "a", "b"}, cache.Keys())
}

// TestCacheCleanup validates the periodic sweep of expired entries.
func TestCacheCleanup(t *testing.T) {
	clock := NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	cache := newTestCache(10, time.Minute, clock)

	cache.SetTTL("short1", "a", 10*time.Second)
	cache.SetTTL("short2", "b", 10*time.Second)
	cache.Set("long", "c")

	clock.Advance(30 * time.Second)
	assert.Equal(t, 2, cache.Cleanup())
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 0, cache.Cleanup())
}

// TestCacheConcurrentGetSet exercises simultaneous readers and writers on a
// single key. Run with -race; a reader must always observe a complete value,
// never a partially overwritten entry.
func TestCacheConcurrentGetSet(t *testing.T) {
	cache := newTestCache(100, time.Minute, nil)
	cache.Set("shared", "value-seed")

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(2)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				cache.SetTTL("shared", fmt.Sprintf("value-%d-%d", g, i), time.Minute)
			}
		}(g)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				if v, ok := cache.Get("shared"); ok {
					assert.Contains(t, v, "value-")
				}
			}
		}()
	}
	wg.Wait()

	v, ok := cache.Get("shared")
	assert.True(t, ok)
	assert.Contains(t, v, "value-")
	assert.Equal(t, 1, cache.Len())
}

// TestCacheConcurrentMixedOps exercises the full method surface from many
// goroutines across distinct and shared keys.
func TestCacheConcurrentMixedOps(t *testing.T) {
	cache := newTestCache(50, time.Minute, nil)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("key-%d", i%10)
				switch i % 5 {
				case 0:
					cache.Set(key, "value")
				case 1:
					cache.Get(key)
				case 2:
					cache.Delete(key)
				case 3:
					cache.Keys()
				case 4:
					cache.Cleanup()
				}
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, cache.Len(), 10)
}

// TestCacheConfigDefaults validates fallback configuration values.
func TestCacheConfigDefaults(t *testing.T) {
	cache := NewTTLCache[int](CacheConfig{Name: "defaults"})
	assert.Equal(t, "defaults", cache.Name())

	cache.Set("k", 42)
	got, ok := cache.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 42, got)
}
