package guardkit

import (
	"errors"
	"fmt"
)

// Sentinel errors for GuardKit operations.
var (
	// ErrInvalidRole is returned when a role string is not one of the four
	// defined roles. Unknown roles are rejected at parse time and never
	// reach the hierarchy predicates.
	ErrInvalidRole = errors.New("guardkit: invalid role")

	// ErrInvalidAction is returned when an action is not part of the closed
	// activity taxonomy.
	ErrInvalidAction = errors.New("guardkit: invalid action")

	// ErrInvalidResourceType is returned when a resource type is not part of
	// the closed resource taxonomy.
	ErrInvalidResourceType = errors.New("guardkit: invalid resource type")

	// ErrInvalidFilter is returned when an activity query filter is malformed
	// (bad date range, unknown enum values, bad pagination).
	ErrInvalidFilter = errors.New("guardkit: invalid filter")

	// ErrAuthorizationDenied is returned when the role hierarchy rejects an
	// action on the target.
	ErrAuthorizationDenied = errors.New("guardkit: authorization denied")

	// ErrRateLimited is returned when a sliding-window budget is exhausted.
	ErrRateLimited = errors.New("guardkit: rate limit exceeded")

	// ErrNoPrincipal is returned when no authenticated principal is found in
	// the request context.
	ErrNoPrincipal = errors.New("guardkit: no principal in context")

	// ErrDatabaseError is returned when an audit store operation fails.
	ErrDatabaseError = errors.New("guardkit: database error")
)

// Error wraps a sentinel error with additional context.
type Error struct {
	Err        error  // Underlying sentinel error
	Message    string // Additional context
	ActorID    string // Principal performing the request (if applicable)
	TargetID   string // User the request acts on (if applicable)
	Role       string // Role involved (if applicable)
	Action     string // Audited action involved (if applicable)
	Resource   string // Resource type involved (if applicable)
	ResourceID string // Resource ID involved (if applicable)
	RetryAfter int    // Seconds until the limiter window slides (rate limits only)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithActor adds the acting principal to the error.
func (e *Error) WithActor(actorID string) *Error {
	e.ActorID = actorID
	return e
}

// WithTarget adds the target user to the error.
func (e *Error) WithTarget(userID string) *Error {
	e.TargetID = userID
	return e
}

// WithRole adds role information to the error.
func (e *Error) WithRole(role Role) *Error {
	e.Role = string(role)
	return e
}

// WithAction adds the audited action to the error.
func (e *Error) WithAction(action Action) *Error {
	e.Action = string(action)
	return e
}

// WithResource adds resource information to the error.
func (e *Error) WithResource(resource ResourceType, resourceID string) *Error {
	e.Resource = string(resource)
	e.ResourceID = resourceID
	return e
}

// WithRetryAfter adds the retry-after hint (seconds) to a rate-limit error.
func (e *Error) WithRetryAfter(seconds int) *Error {
	e.RetryAfter = seconds
	return e
}

// IsAuthorizationDenied checks if an error is an authorization rejection.
func IsAuthorizationDenied(err error) bool {
	return errors.Is(err, ErrAuthorizationDenied)
}

// IsRateLimited checks if an error is a rate-limit denial.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsInvalidFilter checks if an error is due to a malformed query filter.
func IsInvalidFilter(err error) bool {
	return errors.Is(err, ErrInvalidFilter)
}

// IsInvalidRole checks if an error is due to an unknown role value.
func IsInvalidRole(err error) bool {
	return errors.Is(err, ErrInvalidRole)
}

// IsNoPrincipal checks if an error is due to a missing principal.
func IsNoPrincipal(err error) bool {
	return errors.Is(err, ErrNoPrincipal)
}

// RetryAfterSeconds extracts the retry-after hint from a rate-limit error.
// Returns 0 when the error carries no hint.
func RetryAfterSeconds(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.RetryAfter
	}
	return 0
}
