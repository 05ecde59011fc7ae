package guardkit

import (
	"fmt"
	"log/slog"
	"strings"
)

// Store is the view of a cache instance the coordinator needs. *TTLCache[V]
// satisfies it for any V.
type Store interface {
	Name() string
	Delete(key string) bool
	Keys() []string
	Clear()
}

// EventKind tags a domain mutation for cache invalidation purposes.
type EventKind string

const (
	EventPageMutated    EventKind = "page_mutated"
	EventUserMutated    EventKind = "user_mutated"
	EventCommentChanged EventKind = "comment_changed"
	EventSearchStale    EventKind = "search_stale"
	EventStatsStale     EventKind = "stats_stale"
)

// Event is a tagged domain mutation. ID identifies the affected resource
// where the kind needs one (pages, users); it is empty for whole-cache
// events.
type Event struct {
	Kind EventKind
	ID   string
}

// PageMutated signals that a single page was created, updated or deleted.
func PageMutated(pageID string) Event {
	return Event{Kind: EventPageMutated, ID: pageID}
}

// UserMutated signals that a user record changed.
func UserMutated(userID string) Event {
	return Event{Kind: EventUserMutated, ID: userID}
}

// CommentChanged signals that a comment was added to or removed from a page.
func CommentChanged(pageID string) Event {
	return Event{Kind: EventCommentChanged, ID: pageID}
}

// SearchStale signals any search-affecting mutation.
func SearchStale() Event {
	return Event{Kind: EventSearchStale}
}

// StatsStale signals any mutation affecting global statistics.
func StatsStale() Event {
	return Event{Kind: EventStatsStale}
}

// Cache key layout shared between read-through handlers and invalidation.
const pageListPrefix = "pages:"

// PageKey is the page cache key for a single page.
func PageKey(pageID string) string { return "page:" + pageID }

// PageListKey is the page cache key for a listing keyed by filter
// parameters. Listing keys share the swept prefix, so any single page
// mutation drops all of them.
func PageListKey(params string) string { return pageListPrefix + params }

// PageCommentsKey is the page cache key for a page's comment thread.
func PageCommentsKey(pageID string) string { return "page:" + pageID + ":comments" }

// PageStatsKey is the page cache key for a page's counters.
func PageStatsKey(pageID string) string { return "page:" + pageID + ":stats" }

// UserKey is the user cache key for a single user.
func UserKey(userID string) string { return "user:" + userID }

// UserPagesKey is the user cache key for a user's page listing.
func UserPagesKey(userID string) string { return "user:" + userID + ":pages" }

// CacheCoordinator maps domain mutation events to the cache entries that
// must be dropped across the named cache instances.
//
// Invalidation is best-effort and idempotent: failures are logged and never
// propagated to the triggering business operation (a bounded stale read is
// acceptable, an aborted mutation is not), and invalidating the same event
// twice is a no-op the second time.
type CacheCoordinator struct {
	pages  Store
	users  Store
	search Store
	stats  Store
	logger *slog.Logger
}

// CoordinatorOption configures the CacheCoordinator.
type CoordinatorOption func(*CacheCoordinator)

// WithCoordinatorLogger sets the logger used for invalidation failures.
func WithCoordinatorLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *CacheCoordinator) {
		c.logger = logger
	}
}

// NewCacheCoordinator creates a coordinator over the four named caches.
func NewCacheCoordinator(pages, users, search, stats Store, opts ...CoordinatorOption) *CacheCoordinator {
	c := &CacheCoordinator{
		pages:  pages,
		users:  users,
		search: search,
		stats:  stats,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invalidate applies the invalidation policy for each event:
//
//	page mutated     -> page:{id} removed; every pages:-prefixed key swept
//	user mutated     -> user:{id} and user:{id}:pages removed
//	comment changed  -> page:{id}:comments and page:{id}:stats removed
//	search stale     -> entire search cache cleared
//	stats stale      -> entire stats cache cleared
func (c *CacheCoordinator) Invalidate(events ...Event) {
	for _, ev := range events {
		c.apply(ev)
	}
}

func (c *CacheCoordinator) apply(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("cache invalidation failed",
				slog.String("event", string(ev.Kind)),
				slog.String("id", ev.ID),
				slog.Any("error", r))
		}
	}()

	switch ev.Kind {
	case EventPageMutated:
		c.pages.Delete(PageKey(ev.ID))
		for _, key := range c.pages.Keys() {
			if strings.HasPrefix(key, pageListPrefix) {
				c.pages.Delete(key)
			}
		}
	case EventUserMutated:
		c.users.Delete(UserKey(ev.ID))
		c.users.Delete(UserPagesKey(ev.ID))
	case EventCommentChanged:
		c.pages.Delete(PageCommentsKey(ev.ID))
		c.pages.Delete(PageStatsKey(ev.ID))
	case EventSearchStale:
		c.search.Clear()
	case EventStatsStale:
		c.stats.Clear()
	default:
		panic(fmt.Sprintf("unknown event kind %q", ev.Kind))
	}
}
