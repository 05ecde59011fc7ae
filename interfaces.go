package guardkit

import (
	"context"
	"net/http"
	"time"

	"github.com/fernandezvara/dbkit"
)

// Database defines the database operations interface for dependency injection
type Database interface {
	dbkit.IDB
}

// AuditRecorder defines the audit recording surface the middleware depends
// on. *Service satisfies it; tests can substitute an in-memory recorder.
type AuditRecorder interface {
	Record(ctx context.Context, entry ActivityEntry)
}

// AuditQuerier defines the audit retrieval interface
type AuditQuerier interface {
	Query(ctx context.Context, filter ActivityFilter) (*ActivityPage, error)
	Statistics(ctx context.Context, since, until time.Time) (*ActivityStatistics, error)
	UserSummary(ctx context.Context, userID string, days int) (*UserActivitySummary, error)
}

// RetentionManager defines the log retention interface
type RetentionManager interface {
	Cleanup(ctx context.Context, daysToKeep int) (int64, error)
}

// Invalidator defines the cache invalidation surface the middleware depends
// on. *CacheCoordinator satisfies it.
type Invalidator interface {
	Invalidate(events ...Event)
}

// Limiter defines the admission check surface the middleware depends on.
// *RateLimiter satisfies it.
type Limiter interface {
	CheckKey(r *http.Request) RateLimitResult
}

// TransactionManager defines the transaction management interface
type TransactionManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
	TransactionWithOptions(ctx context.Context, opts dbkit.TxOptions, fn func(ctx context.Context) error) error
	ReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MigrationManager defines the migration management interface
type MigrationManager interface {
	Migrations() []dbkit.Migration
}

// HealthMonitor defines the health monitoring interface
type HealthMonitor interface {
	Health(ctx context.Context) dbkit.HealthStatus
	IsHealthy(ctx context.Context) bool
	Ping(ctx context.Context) error
	GetPoolStats() dbkit.PoolStats
}

// PoolManager defines the connection pool management interface
type PoolManager interface {
	ConfigureConnectionPool(config PoolConfig) error
	GetConnectionPoolConfig() (*PoolConfig, error)
	ResetConnectionPool() error
}
