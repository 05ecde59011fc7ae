package guardkit

import "time"

// ActivityFilter provides options for filtering activity log queries.
// Zero-valued fields are ignored.
type ActivityFilter struct {
	// Filter by the user who performed the activity
	UserID string

	// Filter by action and resource taxonomy values
	Action       Action
	ResourceType ResourceType
	ResourceID   string

	// Filter by creation time range, inclusive on both ends
	Since time.Time
	Until time.Time

	// Pagination
	Limit  int
	Offset int
}

// NewActivityFilter creates a new ActivityFilter with default values.
func NewActivityFilter() ActivityFilter {
	return ActivityFilter{
		Limit: 50,
	}
}

// WithUser sets the user ID filter.
func (f ActivityFilter) WithUser(userID string) ActivityFilter {
	f.UserID = userID
	return f
}

// WithAction sets the action filter.
func (f ActivityFilter) WithAction(action Action) ActivityFilter {
	f.Action = action
	return f
}

// WithResourceType sets only the resource type filter.
func (f ActivityFilter) WithResourceType(rt ResourceType) ActivityFilter {
	f.ResourceType = rt
	return f
}

// WithResource sets the resource type and ID filters.
func (f ActivityFilter) WithResource(rt ResourceType, resourceID string) ActivityFilter {
	f.ResourceType = rt
	f.ResourceID = resourceID
	return f
}

// WithTimeRange sets the time range filter.
func (f ActivityFilter) WithTimeRange(since, until time.Time) ActivityFilter {
	f.Since = since
	f.Until = until
	return f
}

// WithSince sets the start time filter.
func (f ActivityFilter) WithSince(since time.Time) ActivityFilter {
	f.Since = since
	return f
}

// WithUntil sets the end time filter.
func (f ActivityFilter) WithUntil(until time.Time) ActivityFilter {
	f.Until = until
	return f
}

// WithLimit sets the limit for results.
func (f ActivityFilter) WithLimit(limit int) ActivityFilter {
	f.Limit = limit
	return f
}

// WithOffset sets the offset for pagination.
func (f ActivityFilter) WithOffset(offset int) ActivityFilter {
	f.Offset = offset
	return f
}

// WithPagination sets both limit and offset.
func (f ActivityFilter) WithPagination(limit, offset int) ActivityFilter {
	f.Limit = limit
	f.Offset = offset
	return f
}

// Validate rejects malformed filters before they touch the repository:
// unknown taxonomy values, inverted date ranges, negative pagination.
func (f ActivityFilter) Validate() error {
	if f.Action != "" && !f.Action.Valid() {
		return NewError(ErrInvalidFilter, "unknown action").WithAction(f.Action)
	}
	if f.ResourceType != "" && !f.ResourceType.Valid() {
		return NewError(ErrInvalidFilter, "unknown resource type").WithResource(f.ResourceType, f.ResourceID)
	}
	if !f.Since.IsZero() && !f.Until.IsZero() && f.Since.After(f.Until) {
		return NewError(ErrInvalidFilter, "since is after until")
	}
	if f.Limit < 0 {
		return NewError(ErrInvalidFilter, "limit cannot be negative")
	}
	if f.Offset < 0 {
		return NewError(ErrInvalidFilter, "offset cannot be negative")
	}
	return nil
}
