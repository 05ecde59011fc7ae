package guardkit

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the tunable knobs for the governance layer: cache capacities
// and TTLs, per-route rate budgets, and audit retention. All values have
// working defaults; override them via GUARDKIT_* environment variables.
type Config struct {
	// Cache capacities and TTLs, one namespace per data shape.
	PageCacheSize   int           `envconfig:"PAGE_CACHE_SIZE" default:"1000"`
	PageCacheTTL    time.Duration `envconfig:"PAGE_CACHE_TTL" default:"5m"`
	UserCacheSize   int           `envconfig:"USER_CACHE_SIZE" default:"500"`
	UserCacheTTL    time.Duration `envconfig:"USER_CACHE_TTL" default:"10m"`
	SearchCacheSize int           `envconfig:"SEARCH_CACHE_SIZE" default:"200"`
	SearchCacheTTL  time.Duration `envconfig:"SEARCH_CACHE_TTL" default:"2m"`
	StatsCacheSize  int           `envconfig:"STATS_CACHE_SIZE" default:"100"`
	StatsCacheTTL   time.Duration `envconfig:"STATS_CACHE_TTL" default:"15m"`

	// Per-route sliding-window budgets.
	AuthLimit    int           `envconfig:"AUTH_LIMIT" default:"10"`
	AuthWindow   time.Duration `envconfig:"AUTH_WINDOW" default:"15m"`
	SearchLimit  int           `envconfig:"SEARCH_LIMIT" default:"30"`
	SearchWindow time.Duration `envconfig:"SEARCH_WINDOW" default:"1m"`
	UploadLimit  int           `envconfig:"UPLOAD_LIMIT" default:"20"`
	UploadWindow time.Duration `envconfig:"UPLOAD_WINDOW" default:"1h"`
	UsersLimit   int           `envconfig:"USERS_LIMIT" default:"30"`
	UsersWindow  time.Duration `envconfig:"USERS_WINDOW" default:"1m"`
	APILimit     int           `envconfig:"API_LIMIT" default:"100"`
	APIWindow    time.Duration `envconfig:"API_WINDOW" default:"1m"`

	// Audit log retention.
	RetentionDays int `envconfig:"RETENTION_DAYS" default:"365"`
}

// LoadConfig reads configuration from GUARDKIT_* environment variables,
// falling back to the defaults.
func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("guardkit", &cfg)
	return cfg, err
}

// DefaultConfig returns the built-in defaults without touching the
// environment.
func DefaultConfig() Config {
	return Config{
		PageCacheSize:   1000,
		PageCacheTTL:    5 * time.Minute,
		UserCacheSize:   500,
		UserCacheTTL:    10 * time.Minute,
		SearchCacheSize: 200,
		SearchCacheTTL:  2 * time.Minute,
		StatsCacheSize:  100,
		StatsCacheTTL:   15 * time.Minute,
		AuthLimit:       10,
		AuthWindow:      15 * time.Minute,
		SearchLimit:     30,
		SearchWindow:    time.Minute,
		UploadLimit:     20,
		UploadWindow:    time.Hour,
		UsersLimit:      30,
		UsersWindow:     time.Minute,
		APILimit:        100,
		APIWindow:       time.Minute,
		RetentionDays:   365,
	}
}

// LimiterConfigs expands the config into one RateLimiterConfig per route
// class, ready for NewLimiterSet.
func (c Config) LimiterConfigs() []RateLimiterConfig {
	return []RateLimiterConfig{
		{RoutePattern: RouteAuth, MaxRequests: c.AuthLimit, Window: c.AuthWindow},
		{RoutePattern: RouteSearch, MaxRequests: c.SearchLimit, Window: c.SearchWindow},
		{RoutePattern: RouteUpload, MaxRequests: c.UploadLimit, Window: c.UploadWindow},
		{RoutePattern: RouteUsers, MaxRequests: c.UsersLimit, Window: c.UsersWindow},
		{RoutePattern: RouteAPI, MaxRequests: c.APILimit, Window: c.APIWindow},
	}
}

// CacheSet bundles the four cache namespaces the coordinator manages.
type CacheSet struct {
	Pages  *TTLCache[any]
	Users  *TTLCache[any]
	Search *TTLCache[any]
	Stats  *TTLCache[any]
}

// NewCacheSet builds the four caches from the config. Pass nil for the clock
// to use the system clock.
func NewCacheSet(cfg Config, clock Clock) *CacheSet {
	return &CacheSet{
		Pages:  NewTTLCache[any](CacheConfig{Name: "pages", MaxSize: cfg.PageCacheSize, DefaultTTL: cfg.PageCacheTTL, Clock: clock}),
		Users:  NewTTLCache[any](CacheConfig{Name: "users", MaxSize: cfg.UserCacheSize, DefaultTTL: cfg.UserCacheTTL, Clock: clock}),
		Search: NewTTLCache[any](CacheConfig{Name: "search", MaxSize: cfg.SearchCacheSize, DefaultTTL: cfg.SearchCacheTTL, Clock: clock}),
		Stats:  NewTTLCache[any](CacheConfig{Name: "stats", MaxSize: cfg.StatsCacheSize, DefaultTTL: cfg.StatsCacheTTL, Clock: clock}),
	}
}

// Coordinator builds a CacheCoordinator over the set's namespaces.
func (cs *CacheSet) Coordinator(opts ...CoordinatorOption) *CacheCoordinator {
	return NewCacheCoordinator(cs.Pages, cs.Users, cs.Search, cs.Stats, opts...)
}
