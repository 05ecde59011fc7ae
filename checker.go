package guardkit

// Checker bundles the hierarchy predicates for a single principal. It is
// typically created by middleware and stored in context for use in handlers.
type Checker struct {
	principal Principal
}

// NewChecker creates a new Checker for a principal.
func NewChecker(p Principal) *Checker {
	return &Checker{principal: p}
}

// Principal returns the principal this checker is for.
func (c *Checker) Principal() Principal {
	return c.principal
}

// CanAssign checks if the principal may assign the desired role.
//
// Example:
//
//	if checker.CanAssign(guardkit.RoleEditor) {
//	    // principal may hand out the editor role
//	}
func (c *Checker) CanAssign(desired Role) bool {
	return CanAssign(c.principal.Role, desired)
}

// CanModify checks if the principal may administratively modify the target.
// Always false when the target is the principal itself.
func (c *Checker) CanModify(target Principal) bool {
	return CanModify(c.principal, target)
}

// CanChangeRole checks if the principal may move a target between the two
// roles. The self-modification rule is enforced by CanModify, not here.
func (c *Checker) CanChangeRole(targetCurrent, newRole Role) bool {
	return CanChangeRole(c.principal.Role, targetCurrent, newRole)
}

// EvaluateAssignment checks a full role-change request: identity rule plus
// assignment matrix.
func (c *Checker) EvaluateAssignment(target Principal, desired Role) bool {
	return AssignmentRequest{Actor: c.principal, Target: target, DesiredRole: desired}.Allowed()
}

// AssignableRoles returns every role the principal may assign.
func (c *Checker) AssignableRoles() []Role {
	return AssignableRoles(c.principal.Role)
}

// HigherOrEqual checks if the principal's role ranks at or above the given
// role.
func (c *Checker) HigherOrEqual(role Role) bool {
	return HigherOrEqual(c.principal.Role, role)
}

// HasPermission checks if the principal's role grants a permission.
//
// Example:
//
//	if checker.HasPermission("pages.write") {
//	    // principal can edit pages
//	}
func (c *Checker) HasPermission(permission string) bool {
	return c.principal.Role.HasPermission(permission)
}
