package schema

import (
	"adminapi/internal/model"
	"adminapi/internal/repository"
)

type AddUserParam struct {
	Username string  `json:"username" validate:"required,max=20"`
	Password string  `json:"password" validate:"required,min=6,max=64"`
	Nickname string  `json:"nickname" validate:"max=20"`
	Email    *string `json:"email" validate:"omitempty,email,max=50"`
	Phone    *string `json:"phone" validate:"omitempty,phone"`
	DeptID   *int64  `json:"dept_id" validate:"omitempty,gt=0"`
	Roles    []int64 `json:"roles" validate:"dive,gt=0"`
}

type UpdateUserParam struct {
	Username string  `json:"username" validate:"required,max=20"`
	Nickname string  `json:"nickname" validate:"max=20"`
	Email    *string `json:"email" validate:"omitempty,email,max=50"`
	Phone    *string `json:"phone" validate:"omitempty,phone"`
	DeptID   *int64  `json:"dept_id" validate:"omitempty,gt=0"`
}

func (p UpdateUserParam) Apply(u *model.User) {
	u.Username = p.Username
	u.Nickname = p.Nickname
	u.Email = p.Email
	u.Phone = p.Phone
	u.DeptID = p.DeptID
}

type UpdateUserRoleParam struct {
	Roles []int64 `json:"roles" validate:"dive,gt=0"`
}

// ResetPasswordParam changes the caller's own password.
type ResetPasswordParam struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=64"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// SetPasswordParam sets another user's password.
type SetPasswordParam struct {
	Password string `json:"password" validate:"required,min=6,max=64"`
}

type UserListParams struct {
	PageParams
	DeptID   *int64 `query:"dept" validate:"omitempty,gt=0"`
	Username string `query:"username"`
	Phone    string `query:"phone"`
	Status   *int   `query:"status" validate:"omitempty,oneof=0 1"`
}

func (p UserListParams) Filter() repository.UserFilter {
	return repository.UserFilter{DeptID: p.DeptID, Username: p.Username, Phone: p.Phone, Status: p.Status}
}

type GetUserInfo struct {
	ID            int64      `json:"id"`
	UUID          string     `json:"uuid"`
	Username      string     `json:"username"`
	Nickname      string     `json:"nickname"`
	Email         *string    `json:"email"`
	Phone         *string    `json:"phone"`
	Avatar        *string    `json:"avatar"`
	Status        int        `json:"status"`
	IsSuperuser   bool       `json:"is_superuser"`
	IsStaff       bool       `json:"is_staff"`
	IsMultiLogin  bool       `json:"is_multi_login"`
	DeptID        *int64     `json:"dept_id"`
	JoinTime      LocalTime  `json:"join_time"`
	LastLoginTime *LocalTime `json:"last_login_time"`
}

// UserInfo never carries the password hash.
func UserInfo(u *model.User) GetUserInfo {
	return GetUserInfo{
		ID:            u.ID,
		UUID:          u.UUID,
		Username:      u.Username,
		Nickname:      u.Nickname,
		Email:         u.Email,
		Phone:         u.Phone,
		Avatar:        u.Avatar,
		Status:        u.Status,
		IsSuperuser:   u.IsSuperuser,
		IsStaff:       u.IsStaff,
		IsMultiLogin:  u.IsMultiLogin,
		DeptID:        u.DeptID,
		JoinTime:      NewLocalTime(u.JoinTime),
		LastLoginTime: LocalTimePtr(u.LastLoginTime),
	}
}

type GetUserInfoDetail struct {
	GetUserInfo
	Dept  *GetDeptDetail  `json:"dept"`
	Roles []GetRoleDetail `json:"roles"`
}

func UserInfoDetail(u *model.UserDetail) GetUserInfoDetail {
	out := GetUserInfoDetail{GetUserInfo: UserInfo(&u.User), Roles: make([]GetRoleDetail, 0, len(u.Roles))}
	if u.Dept != nil {
		d := DeptDetail(u.Dept)
		out.Dept = &d
	}
	for i := range u.Roles {
		out.Roles = append(out.Roles, RoleDetail(&u.Roles[i].Role))
	}
	return out
}
