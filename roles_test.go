package guardkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseRole validates role parsing at the boundary.
func TestParseRole(t *testing.T) {
	for _, raw := range []string{"member", "editor", "admin", "system_admin"} {
		role, err := ParseRole(raw)
		assert.NoError(t, err)
		assert.Equal(t, Role(raw), role)
	}

	for _, raw := range []string{"", "owner", "ADMIN", "superuser", "Member"} {
		_, err := ParseRole(raw)
		assert.Error(t, err)
		assert.True(t, IsInvalidRole(err))
	}
}

// TestRoleLevels validates the total order of the hierarchy.
func TestRoleLevels(t *testing.T) {
	assert.Equal(t, 1, RoleMember.Level())
	assert.Equal(t, 2, RoleEditor.Level())
	assert.Equal(t, 3, RoleAdmin.Level())
	assert.Equal(t, 4, RoleSystemAdmin.Level())

	assert.True(t, HigherOrEqual(RoleSystemAdmin, RoleAdmin))
	assert.True(t, HigherOrEqual(RoleAdmin, RoleAdmin))
	assert.False(t, HigherOrEqual(RoleEditor, RoleAdmin))
	assert.False(t, HigherOrEqual(RoleMember, RoleEditor))
}

// TestCanAssign validates the static assignment matrix.
func TestCanAssign(t *testing.T) {
	tests := []struct {
		actor    Role
		desired  Role
		expected bool
	}{
		{RoleSystemAdmin, RoleMember, true},
		{RoleSystemAdmin, RoleEditor, true},
		{RoleSystemAdmin, RoleAdmin, true},
		{RoleSystemAdmin, RoleSystemAdmin, true},
		{RoleAdmin, RoleMember, true},
		{RoleAdmin, RoleEditor, true},
		{RoleAdmin, RoleAdmin, false},
		{RoleAdmin, RoleSystemAdmin, false},
		{RoleEditor, RoleMember, false},
		{RoleEditor, RoleEditor, false},
		{RoleMember, RoleMember, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CanAssign(tt.actor, tt.desired),
			"CanAssign(%s, %s)", tt.actor, tt.desired)
	}
}

// TestAssignableRoles validates the derived assignable sets.
func TestAssignableRoles(t *testing.T) {
	assert.Equal(t, []Role{RoleMember, RoleEditor, RoleAdmin, RoleSystemAdmin},
		AssignableRoles(RoleSystemAdmin))
	assert.Equal(t, []Role{RoleMember, RoleEditor}, AssignableRoles(RoleAdmin))
	assert.Empty(t, AssignableRoles(RoleEditor))
	assert.Empty(t, AssignableRoles(RoleMember))
}

// TestCanModify validates the identity and privilege rules for
// administrative modification.
func TestCanModify(t *testing.T) {
	sysadmin := Principal{ID: "u-sys", Role: RoleSystemAdmin}
	admin := Principal{ID: "u-adm", Role: RoleAdmin}
	editor := Principal{ID: "u-edi", Role: RoleEditor}
	member := Principal{ID: "u-mem", Role: RoleMember}
	otherAdmin := Principal{ID: "u-adm2", Role: RoleAdmin}

	// Self-modification is always denied, even for system_admin
	assert.False(t, CanModify(sysadmin, sysadmin))
	assert.False(t, CanModify(admin, admin))

	// system_admin may modify anyone else
	assert.True(t, CanModify(sysadmin, admin))
	assert.True(t, CanModify(sysadmin, editor))
	assert.True(t, CanModify(sysadmin, member))

	// admin may modify editors and members only
	assert.True(t, CanModify(admin, editor))
	assert.True(t, CanModify(admin, member))
	assert.False(t, CanModify(admin, otherAdmin))
	assert.False(t, CanModify(admin, sysadmin))

	// editor and member may modify no one
	assert.False(t, CanModify(editor, member))
	assert.False(t, CanModify(member, editor))
}

// TestCanChangeRole validates that both endpoints of a role change must lie
// in the actor's assignable set.
func TestCanChangeRole(t *testing.T) {
	// admin may move users between member and editor
	assert.True(t, CanChangeRole(RoleAdmin, RoleMember, RoleEditor))
	assert.True(t, CanChangeRole(RoleAdmin, RoleEditor, RoleMember))

	// admin cannot promote to admin nor touch an existing admin
	assert.False(t, CanChangeRole(RoleAdmin, RoleMember, RoleAdmin))
	assert.False(t, CanChangeRole(RoleAdmin, RoleAdmin, RoleMember))

	// system_admin may do anything
	assert.True(t, CanChangeRole(RoleSystemAdmin, RoleMember, RoleSystemAdmin))
	assert.True(t, CanChangeRole(RoleSystemAdmin, RoleAdmin, RoleMember))

	// editor and member may change nothing
	assert.False(t, CanChangeRole(RoleEditor, RoleMember, RoleMember))
	assert.False(t, CanChangeRole(RoleMember, RoleMember, RoleEditor))
}

// TestAssignmentRequestAllowed validates the combined identity plus matrix
// evaluation.
func TestAssignmentRequestAllowed(t *testing.T) {
	admin := Principal{ID: "u-adm", Role: RoleAdmin}
	member := Principal{ID: "u-mem", Role: RoleMember}
	otherAdmin := Principal{ID: "u-adm2", Role: RoleAdmin}

	assert.True(t, AssignmentRequest{Actor: admin, Target: member, DesiredRole: RoleEditor}.Allowed())

	// Promotion beyond the actor's assignable set
	assert.False(t, AssignmentRequest{Actor: admin, Target: member, DesiredRole: RoleAdmin}.Allowed())

	// Target already outside the actor's reach
	assert.False(t, AssignmentRequest{Actor: admin, Target: otherAdmin, DesiredRole: RoleMember}.Allowed())

	// Self-change denied even when the matrix would allow both roles
	self := AssignmentRequest{Actor: admin, Target: admin, DesiredRole: RoleEditor}
	assert.False(t, self.Allowed())
}

// TestAllRoles validates the ascending enumeration.
func TestAllRoles(t *testing.T) {
	roles := AllRoles()
	assert.Len(t, roles, 4)
	for i := 1; i < len(roles); i++ {
		assert.Less(t, roles[i-1].Level(), roles[i].Level())
	}
}
