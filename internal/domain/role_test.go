package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleSetHasImplicitUser(t *testing.T) {
	var s RoleSet
	assert.True(t, s.Has(RoleUser))
	assert.False(t, s.Has(RoleModerator))
	assert.False(t, s.Privileged())
}

func TestRoleSetWithDeduplicates(t *testing.T) {
	s := RoleSet{}
	s = s.With(RoleModerator)
	s = s.With(RoleModerator)
	assert.Equal(t, RoleSet{RoleModerator}, s)

	// user 是隐含角色，不落入集合
	s = s.With(RoleUser)
	assert.Equal(t, RoleSet{RoleModerator}, s)
}

func TestRoleSetWithCopies(t *testing.T) {
	orig := RoleSet{RoleModerator}
	grown := orig.With(RoleAdmin)
	assert.Equal(t, RoleSet{RoleModerator}, orig)
	assert.True(t, grown.Has(RoleAdmin))
}

func TestRoleSetEffective(t *testing.T) {
	assert.Equal(t, []string{"user"}, RoleSet{}.Effective())
	assert.Equal(t, []string{"user", "moderator", "admin"},
		RoleSet{RoleModerator, RoleAdmin}.Effective())
}

func TestRoleSetPrivileged(t *testing.T) {
	assert.True(t, RoleSet{RoleModerator}.Privileged())
	assert.True(t, RoleSet{RoleAdmin}.Privileged())
	assert.False(t, RoleSet{RoleUser}.Privileged())
}
