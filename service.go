package guardkit

import (
	"log/slog"

	"github.com/fernandezvara/dbkit"
)

// Service is the audit log: an append-only writer plus query and aggregation
// reader over the persistent store. It integrates with the database through
// dbkit with enhanced error handling.
//
// Record is observational: persistence failures are caught, counted and
// logged so that an audit failure can never block the governed operation it
// describes. Query, Statistics, UserSummary and Cleanup return errors the
// usual way.
//
// Error Handling:
// All database operations use dbkit's chainable error wrapping to provide
// detailed context about failed operations.
//
// Example error handling:
//
//	page, err := service.Query(ctx, filter)
//	if err != nil {
//	    if guardkit.IsInvalidFilter(err) {
//	        // Reject the request as a bad query, not a server fault
//	    }
//
//	    var dbErr *dbkit.Error
//	    if errors.As(err, &dbErr) {
//	        fmt.Printf("Operation: %s, Table: %s\n", dbErr.Operation, dbErr.Table)
//	    }
//	}
type Service struct {
	db      dbkit.IDB
	clock   Clock
	logger  *slog.Logger
	metrics *auditMetrics
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithClock sets the time source used for entry timestamps and retention
// cutoffs. Defaults to SystemClock.
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithLogger sets the logger used for swallowed write failures.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a new audit log service.
//
// Example:
//
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	audit := guardkit.NewService(db)
func NewService(db dbkit.IDB, opts ...ServiceOption) *Service {
	s := &Service{
		db:      db,
		clock:   SystemClock,
		logger:  slog.Default(),
		metrics: newAuditMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
