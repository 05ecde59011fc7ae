// Package guardkit provides the request governance layer for the knowledge
// base: role checks, rate limiting, cache invalidation and activity auditing
// composed around every mutating or sensitive request.
//
// GuardKit is a library, not a service. Request handlers keep owning their
// business logic; guardkit wraps them with the cross-cutting checks that every
// governed request must pass through, in a fixed order:
//
//	authenticate -> authorize -> rate-limit -> handler -> invalidate -> audit
//
// # Core Concepts
//
// Role: one of the four fixed roles (member, editor, admin, system_admin),
// totally ordered by privilege. Who may assign or modify whom is a static
// matrix, not configuration.
//
// Principal: the authenticated identity of a request, {ID, Role}. Built per
// request from session data and carried in context.
//
// TTLCache: a bounded in-memory cache with per-entry expiry. Four named
// instances exist (pages, users, search, stats) with independent capacities
// and TTLs.
//
// Event: a tag describing what a mutation changed ("page mutated", "user
// mutated", ...). The CacheCoordinator maps events to the cache keys that
// must be dropped.
//
// ActivityLogEntry: an append-only audit record persisted through dbkit/bun.
// Audit writes are observational: a failed write is logged and dropped, it
// never fails the request it describes.
//
// # Basic Usage
//
//	// 1. Build the shared components at startup
//	cfg, _ := guardkit.LoadConfig()
//	caches := guardkit.NewCacheSet(cfg, guardkit.SystemClock)
//	limiters := guardkit.NewLimiterSet(cfg.LimiterConfigs(), guardkit.SystemClock)
//	coordinator := guardkit.NewCacheCoordinator(
//	    caches.Pages, caches.Users, caches.Search, caches.Stats)
//
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	audit := guardkit.NewService(db)
//
//	// 2. Run migrations
//	db.Migrate(ctx, guardkit.NewMigrationService(audit).Migrations())
//
//	// 3. Wire the middleware
//	mw := guardkit.NewMiddleware(audit, coordinator, limiters)
//
//	router.With(mw.Govern(guardkit.GovernRule{
//	    MinRole:  guardkit.RoleEditor,
//	    Action:   guardkit.ActionPageUpdated,
//	    Resource: guardkit.ResourcePage,
//	    Route:    guardkit.RouteAPI,
//	    Events: func(r *http.Request) []guardkit.Event {
//	        id := r.PathValue("pageID")
//	        return []guardkit.Event{guardkit.PageMutated(id), guardkit.SearchStale()}
//	    },
//	})).Put("/pages/{pageID}", updatePageHandler)
//
// # Role Matrix
//
// system_admin may assign every role and modify anyone but themselves.
// admin may assign editor/member and modify users whose current role is
// editor or member. editor and member administer nobody. Self-modification
// is always denied, regardless of role.
//
// # Rate Limiting
//
// Each route class (auth, search, upload, users, api) owns an independent
// sliding-window limiter; an identity exhausting its search budget keeps its
// full budget everywhere else. Denials carry a numeric retry-after hint.
//
// # Audit Log
//
// Every governed mutation appends one entry with actor, action, resource,
// structured details and request metadata (IP, user agent, request ID).
// The log is queryable with filters and pagination, aggregable into
// statistics and per-user summaries, and trimmed by a time-boxed retention
// sweep (default 365 days), the only path that ever deletes entries.
package guardkit
