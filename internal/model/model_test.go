package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeptUsable(t *testing.T) {
	assert.True(t, (&Dept{Status: StatusEnabled}).Usable())
	assert.False(t, (&Dept{Status: StatusDisabled}).Usable())
	assert.False(t, (&Dept{Status: StatusEnabled, DelFlag: true}).Usable())
}

func TestUserDetailRoles(t *testing.T) {
	u := UserDetail{Roles: []RoleDetail{
		{Role: Role{ID: 1, Status: StatusEnabled}},
		{Role: Role{ID: 2, Status: StatusDisabled}},
		{Role: Role{ID: 3, Status: StatusEnabled}},
	}}

	assert.Equal(t, []int64{1, 2, 3}, u.RoleIDs())

	enabled := u.EnabledRoles()
	assert.Len(t, enabled, 2)
	assert.Equal(t, int64(3), enabled[1].ID)
}

func TestRoleDetailMenuIDs(t *testing.T) {
	r := RoleDetail{Menus: []Menu{{ID: 4}, {ID: 9}}}
	assert.Equal(t, []int64{4, 9}, r.MenuIDs())
	assert.Empty(t, (&RoleDetail{}).MenuIDs())
}
