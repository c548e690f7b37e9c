package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleOwner, PermissionCompanyManage))
	assert.False(t, HasPermission(RoleAdmin, PermissionCompanyManage))
	assert.True(t, HasPermission(RoleAdmin, PermissionInvitationManage))
	assert.False(t, HasPermission(RoleDispatcher, PermissionInvitationManage))
	assert.True(t, HasPermission(RoleViewer, PermissionInvitationView))
	assert.False(t, HasPermission(Role("driver"), PermissionInvitationView))
}

func TestRole_Label(t *testing.T) {
	assert.Equal(t, "Administrator", RoleAdmin.Label())
	assert.Equal(t, "mystery", Role("mystery").Label())
	assert.True(t, RoleViewer.IsValid())
	assert.False(t, Role("pending").IsValid())
}

func TestUser_IsAdmin(t *testing.T) {
	for role, want := range map[Role]bool{
		RoleOwner:      true,
		RoleAdmin:      true,
		RoleDispatcher: false,
		RoleViewer:     false,
	} {
		u := User{Role: role}
		assert.Equal(t, want, u.IsAdmin(), role)
	}
}
