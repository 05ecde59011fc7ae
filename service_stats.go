package guardkit

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// AGGREGATION
// ============================================================================

// ActionCount is one bucket of the per-action breakdown.
type ActionCount struct {
	Action Action `bun:"action"`
	Count  int    `bun:"count"`
}

// UserCount is one bucket of the per-user breakdown.
type UserCount struct {
	UserID string `bun:"user_id"`
	Count  int    `bun:"count"`
}

// ResourceTypeCount is one bucket of the per-resource-type breakdown.
type ResourceTypeCount struct {
	ResourceType ResourceType `bun:"resource_type"`
	Count        int          `bun:"count"`
}

// ActivityStatistics aggregates the log, optionally within a date range.
type ActivityStatistics struct {
	TotalActivities          int
	ActivitiesByAction       []ActionCount       // descending by count
	TopUsers                 []UserCount         // top 10 by activity count, descending
	ActivitiesByResourceType []ResourceTypeCount // descending by count
}

// Statistics computes aggregate counts over the log. Pass zero times to
// aggregate everything; either bound may be set independently.
func (s *Service) Statistics(ctx context.Context, since, until time.Time) (*ActivityStatistics, error) {
	filter := ActivityFilter{Since: since, Until: until}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	total, err := dbkit.Count[ActivityLogEntry](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		return rangeFilter(q, filter)
	})
	if err != nil {
		s.metrics.recordFailedQuery()
		return nil, err
	}

	var byAction []ActionCount
	q := rangeFilter(s.db.NewSelect().Model((*ActivityLogEntry)(nil)), filter).
		ColumnExpr("action").
		ColumnExpr("COUNT(*) AS count").
		Group("action").
		Order("count DESC")
	if err := dbkit.WithErr1(q.Scan(ctx, &byAction), "StatisticsByAction").Err(); err != nil {
		s.metrics.recordFailedQuery()
		return nil, err
	}

	var topUsers []UserCount
	q = rangeFilter(s.db.NewSelect().Model((*ActivityLogEntry)(nil)), filter).
		ColumnExpr("user_id").
		ColumnExpr("COUNT(*) AS count").
		Group("user_id").
		Order("count DESC").
		Limit(10)
	if err := dbkit.WithErr1(q.Scan(ctx, &topUsers), "StatisticsTopUsers").Err(); err != nil {
		s.metrics.recordFailedQuery()
		return nil, err
	}

	var byResource []ResourceTypeCount
	q = rangeFilter(s.db.NewSelect().Model((*ActivityLogEntry)(nil)), filter).
		ColumnExpr("resource_type").
		ColumnExpr("COUNT(*) AS count").
		Group("resource_type").
		Order("count DESC")
	if err := dbkit.WithErr1(q.Scan(ctx, &byResource), "StatisticsByResourceType").Err(); err != nil {
		s.metrics.recordFailedQuery()
		return nil, err
	}

	s.metrics.recordQuery()
	return &ActivityStatistics{
		TotalActivities:          total,
		ActivitiesByAction:       byAction,
		TopUsers:                 topUsers,
		ActivitiesByResourceType: byResource,
	}, nil
}

// UserActivitySummary describes one user's recent footprint in the log.
type UserActivitySummary struct {
	UserID           string
	TotalActivities  int
	ActionCounts     map[Action]int
	RecentActivities []ActivityLogEntry // most recent 10
	PeriodDays       int
}

// UserSummary aggregates one user's activity over the trailing number of
// days (default 30).
func (s *Service) UserSummary(ctx context.Context, userID string, days int) (*UserActivitySummary, error) {
	if days <= 0 {
		days = 30
	}
	since := s.clock.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	filter := ActivityFilter{UserID: userID, Since: since}

	total, err := dbkit.Count[ActivityLogEntry](ctx, s.db, filter.apply)
	if err != nil {
		s.metrics.recordFailedQuery()
		return nil, err
	}

	var byAction []ActionCount
	q := filter.apply(s.db.NewSelect().Model((*ActivityLogEntry)(nil))).
		ColumnExpr("action").
		ColumnExpr("COUNT(*) AS count").
		Group("action").
		Order("count DESC")
	if err := dbkit.WithErr1(q.Scan(ctx, &byAction), "UserSummaryActions").Err(); err != nil {
		s.metrics.recordFailedQuery()
		return nil, err
	}
	actionCounts := make(map[Action]int, len(byAction))
	for _, ac := range byAction {
		actionCounts[ac.Action] = ac.Count
	}

	var recent []ActivityLogEntry
	q = filter.apply(s.db.NewSelect().Model(&recent)).
		Order("created_at DESC").
		Limit(10)
	if err := dbkit.WithErr1(q.Scan(ctx), "UserSummaryRecent").Err(); err != nil {
		s.metrics.recordFailedQuery()
		return nil, err
	}

	s.metrics.recordQuery()
	return &UserActivitySummary{
		UserID:           userID,
		TotalActivities:  total,
		ActionCounts:     actionCounts,
		RecentActivities: recent,
		PeriodDays:       days,
	}, nil
}
