package guardkit

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// Middleware provides HTTP middleware that governs requests: authorization
// against the role hierarchy, rate limiting, cache invalidation, and audit
// recording, in that order around the wrapped handler.
type Middleware struct {
	audit        AuditRecorder
	caches       Invalidator
	limiters     *LimiterSet
	notifier     Notifier
	logger       *slog.Logger
	getPrincipal func(*http.Request) (Principal, bool)
	errorHandler func(http.ResponseWriter, *http.Request, error)
}

// MiddlewareOption configures the Middleware.
type MiddlewareOption func(*Middleware)

// NewMiddleware creates a new Middleware instance.
//
// Example:
//
//	mw := guardkit.NewMiddleware(service, coordinator, limiters,
//	    guardkit.WithPrincipalExtractor(func(r *http.Request) (guardkit.Principal, bool) {
//	        return sessionStore.Principal(r)
//	    }),
//	)
func NewMiddleware(audit AuditRecorder, caches Invalidator, limiters *LimiterSet, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		audit:        audit,
		caches:       caches,
		limiters:     limiters,
		notifier:     NopNotifier,
		logger:       slog.Default(),
		getPrincipal: defaultGetPrincipal,
		errorHandler: defaultErrorHandler,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// WithPrincipalExtractor sets a custom function to extract the authenticated
// principal from a request.
func WithPrincipalExtractor(fn func(*http.Request) (Principal, bool)) MiddlewareOption {
	return func(m *Middleware) {
		m.getPrincipal = fn
	}
}

// WithMiddlewareErrorHandler sets a custom error handler for middleware.
func WithMiddlewareErrorHandler(fn func(http.ResponseWriter, *http.Request, error)) MiddlewareOption {
	return func(m *Middleware) {
		m.errorHandler = fn
	}
}

// WithNotifier sets the notifier invoked after governed mutations commit.
func WithNotifier(n Notifier) MiddlewareOption {
	return func(m *Middleware) {
		m.notifier = n
	}
}

// WithMiddlewareLogger sets the logger used for middleware diagnostics.
func WithMiddlewareLogger(logger *slog.Logger) MiddlewareOption {
	return func(m *Middleware) {
		m.logger = logger
	}
}

func defaultGetPrincipal(r *http.Request) (Principal, bool) {
	return GetPrincipal(r.Context())
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case IsNoPrincipal(err):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case IsAuthorizationDenied(err):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case IsRateLimited(err):
		if retry := RetryAfterSeconds(err); retry > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(retry))
		}
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
	case IsInvalidRole(err) || IsInvalidFilter(err):
		http.Error(w, "Bad Request", http.StatusBadRequest)
	default:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// GovernRule declares how one route class is governed. Zero-value fields
// disable their stage: no MinRole skips authorization, no Route skips rate
// limiting, no Action skips audit recording, no Events skips invalidation.
type GovernRule struct {
	// MinRole is the minimum role required to pass authorization.
	MinRole Role

	// Authorize runs after the MinRole check for finer-grained decisions,
	// such as comparing the actor against the target user. Return nil to
	// allow.
	Authorize func(c *Checker, r *http.Request) error

	// Route selects the limiter from the set. Empty means unlimited.
	Route string

	// Action and Resource describe the request in the audit log.
	Action   Action
	Resource ResourceType

	// ResourceID extracts the acted-on resource ID from the request.
	ResourceID func(*http.Request) string

	// Details extracts extra audit payload from the request.
	Details func(*http.Request) map[string]any

	// Events produces the invalidation events emitted after the handler
	// commits.
	Events func(*http.Request) []Event

	// AffectedUsers lists user IDs for the commit notification.
	AffectedUsers func(*http.Request) []string
}

// statusRecorder captures the status code written by the wrapped handler so
// the outer stages can tell committed requests from failed ones.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	return sr.ResponseWriter.Write(b)
}

// Unwrap exposes the wrapped writer so http.ResponseController can reach
// Flusher and Hijacker implementations through the recorder.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// committed reports whether the handler response counts as a successful
// mutation. Only committed requests trigger invalidation, audit, and
// notifications.
func (sr *statusRecorder) committed() bool {
	status := sr.status
	if status == 0 {
		status = http.StatusOK
	}
	return status < 400
}

// Govern wraps a handler with the full governance pipeline: authorize, rate
// limit, execute, then on commit invalidate caches and record the activity.
// Failed handler responses (status >= 400) skip the post stages, so denied or
// errored requests never stale caches or pollute the log.
//
// Example:
//
//	router.Handle("POST /pages", mw.Govern(guardkit.GovernRule{
//	    MinRole:    guardkit.RoleEditor,
//	    Route:      guardkit.RouteAPI,
//	    Action:     guardkit.ActionPageCreated,
//	    Resource:   guardkit.ResourcePage,
//	    ResourceID: func(r *http.Request) string { return r.PathValue("pageID") },
//	    Events: func(r *http.Request) []guardkit.Event {
//	        return []guardkit.Event{guardkit.PageMutated(r.PathValue("pageID"))}
//	    },
//	})(createPageHandler))
func (m *Middleware) Govern(rule GovernRule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := m.getPrincipal(r)
			if !ok {
				m.errorHandler(w, r, NewError(ErrNoPrincipal, "authentication required"))
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			checker := NewChecker(principal)
			ctx = WithChecker(ctx, checker)
			r = r.WithContext(ctx)

			if rule.MinRole != "" && !HigherOrEqual(principal.Role, rule.MinRole) {
				m.errorHandler(w, r, NewError(ErrAuthorizationDenied, "insufficient role").
					WithActor(principal.ID).
					WithRole(rule.MinRole))
				return
			}

			if rule.Authorize != nil {
				if err := rule.Authorize(checker, r); err != nil {
					m.errorHandler(w, r, err)
					return
				}
			}

			if rule.Route != "" {
				if limiter := m.limiters.Get(rule.Route); limiter != nil {
					result := limiter.CheckKey(r)
					writeRateLimitHeaders(w, limiter, result)
					if !result.Allowed {
						m.errorHandler(w, r, NewError(ErrRateLimited,
							fmt.Sprintf("budget exhausted for route %q", rule.Route)).
							WithActor(principal.ID).
							WithRetryAfter(result.RetryAfter))
						return
					}
				}
			}

			sr := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(sr, r)

			if !sr.committed() {
				return
			}

			if rule.Events != nil {
				m.caches.Invalidate(rule.Events(r)...)
			}

			resourceID := ""
			if rule.ResourceID != nil {
				resourceID = rule.ResourceID(r)
			}

			if rule.Action != "" {
				ac := GetAuditContext(ctx)
				entry := ActivityEntry{
					UserID:       principal.ID,
					Action:       rule.Action,
					ResourceType: rule.Resource,
					ResourceID:   resourceID,
					IPAddress:    ac.IPAddress,
					UserAgent:    ac.UserAgent,
					RequestID:    ac.RequestID,
				}
				if rule.Details != nil {
					entry.Details = rule.Details(r)
				}
				m.audit.Record(ctx, entry)
			}

			if rule.AffectedUsers != nil || rule.Action != "" {
				n := Notification{
					Action:       rule.Action,
					ResourceType: rule.Resource,
					ResourceID:   resourceID,
					ActorID:      principal.ID,
				}
				if rule.AffectedUsers != nil {
					n.AffectedUserIDs = rule.AffectedUsers(r)
				}
				m.notifier.Notify(ctx, n)
			}
		})
	}
}

// RequireRole creates middleware that requires a minimum role. Authorization
// only; use Govern for the full pipeline.
//
// Example:
//
//	router.With(mw.RequireRole(guardkit.RoleAdmin)).
//	    Get("/admin/stats", statsHandler)
func (m *Middleware) RequireRole(minRole Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := m.getPrincipal(r)
			if !ok {
				m.errorHandler(w, r, NewError(ErrNoPrincipal, "authentication required"))
				return
			}

			if !HigherOrEqual(principal.Role, minRole) {
				m.errorHandler(w, r, NewError(ErrAuthorizationDenied, "insufficient role").
					WithActor(principal.ID).
					WithRole(minRole))
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			ctx = WithChecker(ctx, NewChecker(principal))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission creates middleware that requires a specific permission
// from the principal's role grants.
//
// Example:
//
//	router.With(mw.RequirePermission("users.write")).
//	    Post("/users", createUserHandler)
func (m *Middleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := m.getPrincipal(r)
			if !ok {
				m.errorHandler(w, r, NewError(ErrNoPrincipal, "authentication required"))
				return
			}

			if !principal.Role.HasPermission(permission) {
				m.errorHandler(w, r, NewError(ErrAuthorizationDenied, "missing required permission").
					WithActor(principal.ID))
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			ctx = WithChecker(ctx, NewChecker(principal))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimit creates middleware that only applies the named route budget.
//
// Example:
//
//	router.With(mw.RateLimit(guardkit.RouteSearch)).
//	    Get("/search", searchHandler)
func (m *Middleware) RateLimit(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := m.limiters.Get(route)
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			result := limiter.CheckKey(r)
			writeRateLimitHeaders(w, limiter, result)
			if !result.Allowed {
				m.errorHandler(w, r, NewError(ErrRateLimited,
					fmt.Sprintf("budget exhausted for route %q", route)).
					WithRetryAfter(result.RetryAfter))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// InjectAuditContext creates middleware that extracts request metadata and
// adds it to the context for audit recording. Install it ahead of Govern so
// committed activities carry IP, user agent, and request ID.
//
// Example:
//
//	router.Use(mw.InjectAuditContext())
func (m *Middleware) InjectAuditContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := r.Header.Get("X-Forwarded-For")
			if ip == "" {
				ip = r.Header.Get("X-Real-IP")
			}
			if ip == "" {
				ip = r.RemoteAddr
			}
			ctx = WithIPAddress(ctx, ip)
			ctx = WithUserAgent(ctx, r.UserAgent())

			if requestID := r.Header.Get("X-Request-ID"); requestID != "" {
				ctx = WithRequestID(ctx, requestID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeRateLimitHeaders(w http.ResponseWriter, l *RateLimiter, result RateLimitResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.MaxRequests()))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime.Unix(), 10))
}
