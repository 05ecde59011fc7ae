package guardkit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// APPEND
// ============================================================================

// Record appends one activity entry. It never returns an error: the audit
// trail is observational, not transactional with the mutation it describes,
// so a failed write is logged, counted as dropped and otherwise swallowed.
// The single attempt is not retried; a retry loop here would sit on the
// caller's critical path.
//
// Example:
//
//	audit.Record(ctx, guardkit.ActivityEntry{
//	    UserID:       actorID,
//	    Action:       guardkit.ActionUserRoleChanged,
//	    ResourceType: guardkit.ResourceUser,
//	    ResourceID:   targetID,
//	    Details:      map[string]any{"from": "member", "to": "editor"},
//	})
func (s *Service) Record(ctx context.Context, entry ActivityEntry) {
	if err := s.record(ctx, entry); err != nil {
		s.metrics.recordDropped()
		s.logger.Error("audit write dropped",
			slog.String("user_id", entry.UserID),
			slog.String("action", string(entry.Action)),
			slog.Any("error", err))
		return
	}
	s.metrics.recordWritten()
}

func (s *Service) record(ctx context.Context, entry ActivityEntry) error {
	if !entry.Action.Valid() {
		return NewError(ErrInvalidAction, "action not in taxonomy").WithAction(entry.Action)
	}
	if !entry.ResourceType.Valid() {
		return NewError(ErrInvalidResourceType, "resource type not in taxonomy").
			WithResource(entry.ResourceType, entry.ResourceID)
	}

	model := entry.ToModel(uuid.NewString(), s.clock.Now().UTC())
	result, err := s.db.NewInsert().Model(model).Exec(ctx)
	return dbkit.WithErr(result, err, "RecordActivity").Err()
}

// ============================================================================
// QUERY
// ============================================================================

// ActivityPage is one page of query results.
type ActivityPage struct {
	Entries []ActivityLogEntry
	Total   int
	HasMore bool
}

// Query retrieves activity entries matching the filter, most recent first.
// created_at is the sole sort key: entries sharing a timestamp have
// unspecified relative order. Malformed filters are rejected before touching
// the repository.
func (s *Service) Query(ctx context.Context, filter ActivityFilter) (*ActivityPage, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	total, err := dbkit.Count[ActivityLogEntry](ctx, s.db, filter.apply)
	if err != nil {
		s.metrics.recordFailedQuery()
		return nil, err
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 50 // Default limit
	}

	var entries []ActivityLogEntry
	q := filter.apply(s.db.NewSelect().Model(&entries)).
		Order("created_at DESC").
		Limit(limit)
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	if err := dbkit.WithErr1(q.Scan(ctx), "QueryActivity").Err(); err != nil {
		s.metrics.recordFailedQuery()
		return nil, err
	}

	s.metrics.recordQuery()
	return &ActivityPage{
		Entries: entries,
		Total:   total,
		HasMore: filter.Offset+len(entries) < total,
	}, nil
}

// ============================================================================
// RETENTION
// ============================================================================

// DefaultRetentionDays bounds how long entries are kept when Cleanup is
// called without an explicit horizon.
const DefaultRetentionDays = 365

// Cleanup bulk-deletes entries older than daysToKeep days and returns how
// many were removed. This is the only mutation path against the log.
func (s *Service) Cleanup(ctx context.Context, daysToKeep int) (int64, error) {
	if daysToKeep <= 0 {
		daysToKeep = DefaultRetentionDays
	}
	cutoff := s.clock.Now().UTC().Add(-time.Duration(daysToKeep) * 24 * time.Hour)

	result, err := s.db.NewDelete().
		Table("activity_log").
		Where("created_at < ?", cutoff).
		Exec(ctx)
	if err = dbkit.WithErr(result, err, "CleanupActivity").Err(); err != nil {
		return 0, err
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
