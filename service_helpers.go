package guardkit

import (
	"github.com/uptrace/bun"
)

// ============================================================================
// INTERNAL HELPERS
// ============================================================================

// apply narrows a select query to the filter. Shared by Query (both the
// count and the page select must see identical predicates) and UserSummary.
func (f ActivityFilter) apply(q *bun.SelectQuery) *bun.SelectQuery {
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.ResourceType != "" {
		q = q.Where("resource_type = ?", f.ResourceType)
	}
	if f.ResourceID != "" {
		q = q.Where("resource_id = ?", f.ResourceID)
	}
	if !f.Since.IsZero() {
		q = q.Where("created_at >= ?", f.Since)
	}
	if !f.Until.IsZero() {
		q = q.Where("created_at <= ?", f.Until)
	}
	return q
}

// rangeFilter is the date-range-only filter used by Statistics.
func rangeFilter(q *bun.SelectQuery, f ActivityFilter) *bun.SelectQuery {
	return ActivityFilter{Since: f.Since, Until: f.Until}.apply(q)
}
