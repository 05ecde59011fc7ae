package guardkit

import "strings"

// RoleInfo is the display and capability metadata for a role. The table
// below is static: roles are constants, not configuration.
type RoleInfo struct {
	Label       string
	Description string
	Permissions []string
}

var roleInfos = map[Role]RoleInfo{
	RoleMember: {
		Label:       "Member",
		Description: "Can read pages and participate in discussions",
		Permissions: []string{"pages.read", "comments.read", "comments.write", "search.read", "files.read"},
	},
	RoleEditor: {
		Label:       "Editor",
		Description: "Can create and edit pages and upload files",
		Permissions: []string{"pages.*", "comments.*", "search.read", "files.*"},
	},
	RoleAdmin: {
		Label:       "Admin",
		Description: "Can manage content and non-admin users",
		Permissions: []string{"pages.*", "comments.*", "search.*", "files.*", "users.read", "users.write", "stats.read"},
	},
	RoleSystemAdmin: {
		Label:       "System Admin",
		Description: "Full access, including user administration and audit",
		Permissions: []string{"*"},
	},
}

// Info returns the display metadata and permission patterns for the role.
func (r Role) Info() RoleInfo {
	return roleInfos[r]
}

// HasPermission reports whether the role's permission patterns cover the
// given permission.
func (r Role) HasPermission(permission string) bool {
	return MatchAnyPermission(roleInfos[r].Permissions, permission)
}

// MatchPermission checks if a permission pattern matches a required
// permission.
//
// Supported patterns:
//   - "*" matches all permissions
//   - "resource.*" matches all actions on a resource (e.g., "pages.*" matches "pages.read")
//   - "*.action" matches an action on all resources (e.g., "*.read" matches "pages.read")
//   - "exact.match" matches exactly
func MatchPermission(pattern, permission string) bool {
	if pattern == permission || pattern == "*" {
		return true
	}

	patternParts := strings.Split(pattern, ".")
	permParts := strings.Split(permission, ".")
	if len(patternParts) != len(permParts) {
		return false
	}

	for i, pp := range patternParts {
		if pp == "*" {
			continue
		}
		if pp != permParts[i] {
			return false
		}
	}
	return true
}

// MatchAnyPermission checks if any of the patterns match the required
// permission.
func MatchAnyPermission(patterns []string, permission string) bool {
	for _, pattern := range patterns {
		if MatchPermission(pattern, permission) {
			return true
		}
	}
	return false
}
