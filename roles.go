package guardkit

import "fmt"

// Role is one of the four fixed knowledge-base roles, totally ordered by
// privilege: member < editor < admin < system_admin.
type Role string

const (
	RoleMember      Role = "member"
	RoleEditor      Role = "editor"
	RoleAdmin       Role = "admin"
	RoleSystemAdmin Role = "system_admin"
)

// roleLevels is the total-order rank of each role. The order is fixed; no
// two roles are incomparable.
var roleLevels = map[Role]int{
	RoleMember:      1,
	RoleEditor:      2,
	RoleAdmin:       3,
	RoleSystemAdmin: 4,
}

// assignableBy is the static assignment matrix: which roles each role may
// hand out. Roles absent from the map may assign nothing.
var assignableBy = map[Role][]Role{
	RoleSystemAdmin: {RoleMember, RoleEditor, RoleAdmin, RoleSystemAdmin},
	RoleAdmin:       {RoleMember, RoleEditor},
}

// AllRoles returns every role in ascending privilege order.
func AllRoles() []Role {
	return []Role{RoleMember, RoleEditor, RoleAdmin, RoleSystemAdmin}
}

// ParseRole validates a raw role string at the boundary. Every role value
// entering the hierarchy predicates must pass through here first; the
// predicates themselves assume valid input.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// Valid reports whether the role is one of the four defined roles.
func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// Level returns the total-order rank of the role (member=1 ... system_admin=4).
func (r Role) Level() int {
	return roleLevels[r]
}

// String returns the role constant's string form.
func (r Role) String() string {
	return string(r)
}

// HigherOrEqual reports whether a ranks at or above b in the hierarchy.
func HigherOrEqual(a, b Role) bool {
	return a.Level() >= b.Level()
}

// CanAssign reports whether an actor holding the given role may assign
// desired to a user. system_admin may assign any role; admin only editor and
// member; editor and member may assign nothing.
func CanAssign(actor, desired Role) bool {
	for _, r := range assignableBy[actor] {
		if r == desired {
			return true
		}
	}
	return false
}

// AssignableRoles returns every role the actor may assign, in ascending
// privilege order. Empty for member and editor.
func AssignableRoles(actor Role) []Role {
	var roles []Role
	for _, r := range AllRoles() {
		if CanAssign(actor, r) {
			roles = append(roles, r)
		}
	}
	return roles
}

// CanChangeRole reports whether the actor may move a target from
// targetCurrent to newRole. Both the current and the new role must lie in
// the actor's assignable set: an admin can neither promote anyone to admin
// nor touch a user who already is one. Identity rules (self-modification)
// are the caller's job via CanModify.
func CanChangeRole(actor, targetCurrent, newRole Role) bool {
	return CanAssign(actor, targetCurrent) && CanAssign(actor, newRole)
}

// Principal is the authenticated identity performing a request. Immutable
// for the lifetime of the request.
type Principal struct {
	ID   string
	Role Role
}

// CanModify reports whether the actor may administratively modify the
// target. Self-modification is always denied, regardless of role.
// system_admin may modify anyone else; admin only users whose current role
// is editor or member.
func CanModify(actor, target Principal) bool {
	if actor.ID == target.ID {
		return false
	}
	switch actor.Role {
	case RoleSystemAdmin:
		return true
	case RoleAdmin:
		return target.Role == RoleEditor || target.Role == RoleMember
	default:
		return false
	}
}

// AssignmentRequest represents "actor wants to change target's role to
// DesiredRole". It is evaluated and discarded, never persisted.
type AssignmentRequest struct {
	Actor       Principal
	Target      Principal
	DesiredRole Role
}

// Allowed combines the identity rule and the assignment matrix: the actor
// must be permitted to modify the target and to hand out both the target's
// current role and the desired one.
func (ar AssignmentRequest) Allowed() bool {
	return CanModify(ar.Actor, ar.Target) &&
		CanChangeRole(ar.Actor.Role, ar.Target.Role, ar.DesiredRole)
}
