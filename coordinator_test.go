package guardkit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newCoordinatorFixture() (*CacheCoordinator, *CacheSet) {
	caches := NewCacheSet(DefaultConfig(), nil)
	return caches.Coordinator(), caches
}

// TestInvalidatePageMutated validates the page entry plus listing sweep
// policy.
func TestInvalidatePageMutated(t *testing.T) {
	coordinator, caches := newCoordinatorFixture()

	caches.Pages.Set(PageKey("p1"), "page one")
	caches.Pages.Set(PageKey("p2"), "page two")
	caches.Pages.Set(PageListKey("recent"), "listing a")
	caches.Pages.Set(PageListKey("author=u1"), "listing b")
	caches.Users.Set(UserKey("u1"), "user one")

	coordinator.Invalidate(PageMutated("p1"))

	_, ok := caches.Pages.Get(PageKey("p1"))
	assert.False(t, ok)

	// Every listing key is swept, regardless of which page changed
	_, ok = caches.Pages.Get(PageListKey("recent"))
	assert.False(t, ok)
	_, ok = caches.Pages.Get(PageListKey("author=u1"))
	assert.False(t, ok)

	// Other pages and other caches untouched
	_, ok = caches.Pages.Get(PageKey("p2"))
	assert.True(t, ok)
	_, ok = caches.Users.Get(UserKey("u1"))
	assert.True(t, ok)
}

// TestInvalidateUserMutated validates the user entry policy.
func TestInvalidateUserMutated(t *testing.T) {
	coordinator, caches := newCoordinatorFixture()

	caches.Users.Set(UserKey("u1"), "user one")
	caches.Users.Set(UserPagesKey("u1"), "their pages")
	caches.Users.Set(UserKey("u2"), "user two")

	coordinator.Invalidate(UserMutated("u1"))

	_, ok := caches.Users.Get(UserKey("u1"))
	assert.False(t, ok)
	_, ok = caches.Users.Get(UserPagesKey("u1"))
	assert.False(t, ok)
	_, ok = caches.Users.Get(UserKey("u2"))
	assert.True(t, ok)
}

// TestInvalidateCommentChanged validates the comment thread and counter
// policy.
func TestInvalidateCommentChanged(t *testing.T) {
	coordinator, caches := newCoordinatorFixture()

	caches.Pages.Set(PageKey("p1"), "page one")
	caches.Pages.Set(PageCommentsKey("p1"), "comments")
	caches.Pages.Set(PageStatsKey("p1"), "counters")

	coordinator.Invalidate(CommentChanged("p1"))

	_, ok := caches.Pages.Get(PageCommentsKey("p1"))
	assert.False(t, ok)
	_, ok = caches.Pages.Get(PageStatsKey("p1"))
	assert.False(t, ok)

	// The page body itself stays cached on a comment change
	_, ok = caches.Pages.Get(PageKey("p1"))
	assert.True(t, ok)
}

// TestInvalidateFullClears validates the whole-cache policies.
func TestInvalidateFullClears(t *testing.T) {
	coordinator, caches := newCoordinatorFixture()

	caches.Search.Set("search:q=golang", "results")
	caches.Search.Set("search:q=testing", "results")
	caches.Stats.Set("stats:global", "numbers")
	caches.Pages.Set(PageKey("p1"), "page one")

	coordinator.Invalidate(SearchStale(), StatsStale())

	assert.Equal(t, 0, caches.Search.Len())
	assert.Equal(t, 0, caches.Stats.Len())
	assert.Equal(t, 1, caches.Pages.Len())
}

// TestInvalidateIdempotent validates that reapplying an event is a no-op.
func TestInvalidateIdempotent(t *testing.T) {
	coordinator, caches := newCoordinatorFixture()

	caches.Pages.Set(PageKey("p1"), "page one")

	coordinator.Invalidate(PageMutated("p1"))
	assert.NotPanics(t, func() {
		coordinator.Invalidate(PageMutated("p1"))
		coordinator.Invalidate(UserMutated("ghost"))
	})
}

// TestInvalidateUnknownKindSwallowed validates that an unknown event kind is
// logged, not propagated.
func TestInvalidateUnknownKindSwallowed(t *testing.T) {
	coordinator, caches := newCoordinatorFixture()

	caches.Pages.Set(PageKey("p1"), "page one")

	assert.NotPanics(t, func() {
		coordinator.Invalidate(Event{Kind: EventKind("bogus")}, PageMutated("p1"))
	})

	// The later event in the batch is still applied
	_, ok := caches.Pages.Get(PageKey("p1"))
	assert.False(t, ok)
}

// TestCacheKeyLayout validates the shared key helpers.
func TestCacheKeyLayout(t *testing.T) {
	assert.Equal(t, "page:p1", PageKey("p1"))
	assert.Equal(t, "pages:recent", PageListKey("recent"))
	assert.Equal(t, "page:p1:comments", PageCommentsKey("p1"))
	assert.Equal(t, "page:p1:stats", PageStatsKey("p1"))
	assert.Equal(t, "user:u1", UserKey("u1"))
	assert.Equal(t, "user:u1:pages", UserPagesKey("u1"))
}

// TestCacheSetFromConfig validates the config-driven cache construction.
func TestCacheSetFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PageCacheSize = 2
	cfg.PageCacheTTL = 30 * time.Second

	clock := NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	caches := NewCacheSet(cfg, clock)

	assert.Equal(t, "pages", caches.Pages.Name())
	assert.Equal(t, "users", caches.Users.Name())
	assert.Equal(t, "search", caches.Search.Name())
	assert.Equal(t, "stats", caches.Stats.Name())

	caches.Pages.Set("a", 1)
	caches.Pages.Set("b", 2)
	caches.Pages.Set("c", 3)
	assert.Equal(t, 2, caches.Pages.Len())

	clock.Advance(31 * time.Second)
	assert.Equal(t, 2, caches.Pages.Cleanup())
}
