package model

import "time"

// User is an account of the admin backend. Password holds the bcrypt hash.
type User struct {
	ID            int64
	UUID          string
	Username      string
	Nickname      string
	Password      string
	Email         *string
	Phone         *string
	Avatar        *string
	Status        int
	IsSuperuser   bool
	IsStaff       bool
	IsMultiLogin  bool
	DeptID        *int64
	JoinTime      time.Time
	LastLoginTime *time.Time
	CreatedTime   time.Time
	UpdatedTime   *time.Time
}

// UserDetail is a user together with its department and roles.
type UserDetail struct {
	User
	Dept  *Dept
	Roles []RoleDetail
}

// RoleIDs returns the ids of the user's roles in order.
func (u *UserDetail) RoleIDs() []int64 {
	ids := make([]int64, 0, len(u.Roles))
	for _, r := range u.Roles {
		ids = append(ids, r.ID)
	}
	return ids
}

// EnabledRoles filters out disabled roles.
func (u *UserDetail) EnabledRoles() []RoleDetail {
	var out []RoleDetail
	for _, r := range u.Roles {
		if r.Status == StatusEnabled {
			out = append(out, r)
		}
	}
	return out
}
