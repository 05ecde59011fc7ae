package guardkit

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Action is one entry of the closed activity taxonomy. Closed enumerations
// keep groupBy aggregations bounded and stable; free text never reaches the
// log.
type Action string

const (
	ActionUserLogin       Action = "USER_LOGIN"
	ActionUserLogout      Action = "USER_LOGOUT"
	ActionUserCreated     Action = "USER_CREATED"
	ActionUserUpdated     Action = "USER_UPDATED"
	ActionUserDeleted     Action = "USER_DELETED"
	ActionUserRoleChanged Action = "USER_ROLE_CHANGED"
	ActionPageCreated     Action = "PAGE_CREATED"
	ActionPageUpdated     Action = "PAGE_UPDATED"
	ActionPageDeleted     Action = "PAGE_DELETED"
	ActionCommentAdded    Action = "COMMENT_ADDED"
	ActionCommentDeleted  Action = "COMMENT_DELETED"
	ActionFileUploaded    Action = "FILE_UPLOADED"
	ActionFileDeleted     Action = "FILE_DELETED"
	ActionSearchPerformed Action = "SEARCH_PERFORMED"
)

var validActions = map[Action]bool{
	ActionUserLogin:       true,
	ActionUserLogout:      true,
	ActionUserCreated:     true,
	ActionUserUpdated:     true,
	ActionUserDeleted:     true,
	ActionUserRoleChanged: true,
	ActionPageCreated:     true,
	ActionPageUpdated:     true,
	ActionPageDeleted:     true,
	ActionCommentAdded:    true,
	ActionCommentDeleted:  true,
	ActionFileUploaded:    true,
	ActionFileDeleted:     true,
	ActionSearchPerformed: true,
}

// Valid reports whether the action belongs to the taxonomy.
func (a Action) Valid() bool {
	return validActions[a]
}

// ParseAction validates a raw action string at the boundary.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
	return a, nil
}

// ResourceType is one entry of the closed resource taxonomy.
type ResourceType string

const (
	ResourceUser    ResourceType = "USER"
	ResourcePage    ResourceType = "PAGE"
	ResourceComment ResourceType = "COMMENT"
	ResourceFile    ResourceType = "FILE"
	ResourceSearch  ResourceType = "SEARCH"
	ResourceSystem  ResourceType = "SYSTEM"
)

var validResourceTypes = map[ResourceType]bool{
	ResourceUser:    true,
	ResourcePage:    true,
	ResourceComment: true,
	ResourceFile:    true,
	ResourceSearch:  true,
	ResourceSystem:  true,
}

// Valid reports whether the resource type belongs to the taxonomy.
func (rt ResourceType) Valid() bool {
	return validResourceTypes[rt]
}

// ParseResourceType validates a raw resource type string at the boundary.
func ParseResourceType(s string) (ResourceType, error) {
	rt := ResourceType(s)
	if !rt.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidResourceType, s)
	}
	return rt, nil
}

// ActivityLogEntry is one append-only audit record. Once written it is never
// mutated or deleted, except by the bulk retention sweep.
type ActivityLogEntry struct {
	bun.BaseModel `bun:"table:activity_log,alias:al"`

	ID           string       `bun:"id,pk,type:uuid"`
	UserID       string       `bun:"user_id,notnull"`
	Action       Action       `bun:"action,notnull"`
	ResourceType ResourceType `bun:"resource_type,notnull"`
	ResourceID   string       `bun:"resource_id"`

	// Additional context (JSON)
	Details map[string]any `bun:"details,type:jsonb"`

	// Request metadata for forensics
	IPAddress string `bun:"ip_address"`
	UserAgent string `bun:"user_agent"`
	RequestID string `bun:"request_id"`

	CreatedAt time.Time `bun:"created_at,notnull"`
}

// ActivityEntry is the input used to append new audit records.
type ActivityEntry struct {
	UserID       string
	Action       Action
	ResourceType ResourceType
	ResourceID   string
	Details      map[string]any
	IPAddress    string
	UserAgent    string
	RequestID    string
}

// ToModel converts an ActivityEntry to an ActivityLogEntry model.
func (e *ActivityEntry) ToModel(id string, createdAt time.Time) *ActivityLogEntry {
	return &ActivityLogEntry{
		ID:           id,
		UserID:       e.UserID,
		Action:       e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		Details:      e.Details,
		IPAddress:    e.IPAddress,
		UserAgent:    e.UserAgent,
		RequestID:    e.RequestID,
		CreatedAt:    createdAt,
	}
}
