package guardkit

import (
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// Route classes with independent rate budgets. An identity's consumption on
// one route never affects its budget on another.
const (
	RouteAuth   = "auth"
	RouteSearch = "search"
	RouteUpload = "upload"
	RouteUsers  = "users"
	RouteAPI    = "api"
)

// KeyFunc derives the limiter key for a request. The default keys by
// principal ID, falling back to the client IP for anonymous requests.
type KeyFunc func(*http.Request) string

// DefaultKeyFunc keys requests by principal ID when authenticated, client IP
// otherwise.
func DefaultKeyFunc(r *http.Request) string {
	if p, ok := GetPrincipal(r.Context()); ok {
		return p.ID
	}
	if ip := GetIPAddress(r.Context()); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// RateLimitResult is the outcome of one limiter check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int       // requests left in the window after this one
	ResetTime  time.Time // when the oldest surviving request leaves the window
	RetryAfter int       // seconds until a denied caller may retry; 0 when allowed
}

// RateLimiterConfig configures one named limiter instance.
type RateLimiterConfig struct {
	RoutePattern string
	MaxRequests  int
	Window       time.Duration
	KeyFunc      KeyFunc // defaults to DefaultKeyFunc
	Clock        Clock   // defaults to SystemClock
}

// rateWindow is the per-key timestamp log. Windows are created lazily on the
// first request for a key and garbage-collected by Sweep once empty and idle.
type rateWindow struct {
	mu       sync.Mutex
	stamps   []time.Time
	lastSeen time.Time
}

// RateLimiter throttles requests with a sliding window counted from a
// per-key timestamp log. Many limiter instances coexist, one per route
// pattern, each with its own budget.
//
// Check is a pure in-memory computation; it never blocks and needs no
// timeout. Safe for concurrent use: the key map is a concurrent map, each
// window carries its own mutex.
type RateLimiter struct {
	route       string
	maxRequests int
	window      time.Duration
	keyFn       KeyFunc
	clock       Clock
	windows     *xsync.MapOf[string, *rateWindow]
}

// NewRateLimiter creates a limiter for one route pattern.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock
	}
	keyFn := cfg.KeyFunc
	if keyFn == nil {
		keyFn = DefaultKeyFunc
	}
	maxRequests := cfg.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 60
	}
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		route:       cfg.RoutePattern,
		maxRequests: maxRequests,
		window:      window,
		keyFn:       keyFn,
		clock:       clock,
		windows:     xsync.NewMapOf[string, *rateWindow](),
	}
}

// Route returns the route pattern this limiter guards.
func (l *RateLimiter) Route() string {
	return l.route
}

// MaxRequests returns the per-window budget.
func (l *RateLimiter) MaxRequests() int {
	return l.maxRequests
}

// Check counts one request against the limiter's configured budget.
func (l *RateLimiter) Check(key string) RateLimitResult {
	return l.CheckLimit(key, l.maxRequests, l.window)
}

// CheckKey derives the key from the request and checks it.
func (l *RateLimiter) CheckKey(r *http.Request) RateLimitResult {
	return l.Check(l.keyFn(r))
}

// CheckLimit counts one request against an explicit budget. Timestamps older
// than the window are dropped first; if the surviving count is below
// maxRequests the request is recorded and allowed, otherwise it is denied
// with a retry-after hint derived from when the oldest timestamp slides out.
func (l *RateLimiter) CheckLimit(key string, maxRequests int, window time.Duration) RateLimitResult {
	w, _ := l.windows.LoadOrCompute(key, func() *rateWindow {
		return &rateWindow{}
	})

	w.mu.Lock()
	defer w.mu.Unlock()

	now := l.clock.Now()
	w.lastSeen = now
	w.stamps = pruneStamps(w.stamps, now.Add(-window))

	if len(w.stamps) < maxRequests {
		count := len(w.stamps)
		w.stamps = append(w.stamps, now)
		return RateLimitResult{
			Allowed:   true,
			Remaining: maxRequests - count - 1,
			ResetTime: w.stamps[0].Add(window),
		}
	}

	oldest := w.stamps[0]
	reset := oldest.Add(window)
	return RateLimitResult{
		Allowed:    false,
		Remaining:  0,
		ResetTime:  reset,
		RetryAfter: int(math.Ceil(reset.Sub(now).Seconds())),
	}
}

// Sweep removes idle key windows: those whose timestamp log has emptied and
// that saw no request within one window of their last entry. Returns the
// number of windows evicted. Run it periodically to keep one-off callers
// from growing the map without bound.
func (l *RateLimiter) Sweep() int {
	now := l.clock.Now()
	evicted := 0
	l.windows.Range(func(key string, w *rateWindow) bool {
		w.mu.Lock()
		w.stamps = pruneStamps(w.stamps, now.Add(-l.window))
		idle := len(w.stamps) == 0 && now.Sub(w.lastSeen) > l.window
		w.mu.Unlock()
		if idle {
			l.windows.Delete(key)
			evicted++
		}
		return true
	})
	return evicted
}

// Len returns the number of tracked key windows.
func (l *RateLimiter) Len() int {
	return l.windows.Size()
}

// pruneStamps drops timestamps strictly older than cutoff. Stamps are
// appended in order, so the suffix starting at the first survivor is the
// whole surviving window.
func pruneStamps(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(stamps) && stamps[i].Before(cutoff) {
		i++
	}
	if i == 0 {
		return stamps
	}
	return append(stamps[:0], stamps[i:]...)
}

// LimiterSet holds the named limiter instances, one per route class. Built
// once at startup and read-only afterwards.
type LimiterSet struct {
	limiters map[string]*RateLimiter
}

// NewLimiterSet builds the named limiters from their configs.
func NewLimiterSet(configs []RateLimiterConfig, clock Clock) *LimiterSet {
	set := &LimiterSet{limiters: make(map[string]*RateLimiter, len(configs))}
	for _, cfg := range configs {
		if cfg.Clock == nil {
			cfg.Clock = clock
		}
		set.limiters[cfg.RoutePattern] = NewRateLimiter(cfg)
	}
	return set
}

// Get returns the limiter for a route pattern, or nil if none is configured.
func (s *LimiterSet) Get(route string) *RateLimiter {
	return s.limiters[route]
}

// Sweep runs idle eviction on every limiter and returns the total windows
// evicted.
func (s *LimiterSet) Sweep() int {
	total := 0
	for _, l := range s.limiters {
		total += l.Sweep()
	}
	return total
}
