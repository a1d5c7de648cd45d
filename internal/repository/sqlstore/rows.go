package sqlstore

import (
	"time"

	"github.com/uptrace/bun"

	"adminapi/internal/model"
)

type deptRow struct {
	bun.BaseModel `bun:"table:sys_dept"`
	ID            int64      `bun:"id,pk,autoincrement"`
	Name          string     `bun:"name"`
	ParentID      *int64     `bun:"parent_id"`
	Sort          int        `bun:"sort"`
	Leader        *string    `bun:"leader"`
	Phone         *string    `bun:"phone"`
	Email         *string    `bun:"email"`
	Status        int        `bun:"status"`
	DelFlag       bool       `bun:"del_flag"`
	CreatedTime   time.Time  `bun:"created_time"`
	UpdatedTime   *time.Time `bun:"updated_time"`
}

func newDeptRow(d *model.Dept) *deptRow {
	return &deptRow{
		ID: d.ID, Name: d.Name, ParentID: d.ParentID, Sort: d.Sort,
		Leader: d.Leader, Phone: d.Phone, Email: d.Email,
		Status: d.Status, DelFlag: d.DelFlag,
		CreatedTime: d.CreatedTime, UpdatedTime: d.UpdatedTime,
	}
}

func (r *deptRow) toModel() model.Dept {
	return model.Dept{
		ID: r.ID, Name: r.Name, ParentID: r.ParentID, Sort: r.Sort,
		Leader: r.Leader, Phone: r.Phone, Email: r.Email,
		Status: r.Status, DelFlag: r.DelFlag,
		CreatedTime: r.CreatedTime, UpdatedTime: r.UpdatedTime,
	}
}

type userRow struct {
	bun.BaseModel `bun:"table:sys_user"`
	ID            int64      `bun:"id,pk,autoincrement"`
	UUID          string     `bun:"uuid"`
	Username      string     `bun:"username"`
	Nickname      string     `bun:"nickname"`
	Password      string     `bun:"password"`
	Email         *string    `bun:"email"`
	Phone         *string    `bun:"phone"`
	Avatar        *string    `bun:"avatar"`
	Status        int        `bun:"status"`
	IsSuperuser   bool       `bun:"is_superuser"`
	IsStaff       bool       `bun:"is_staff"`
	IsMultiLogin  bool       `bun:"is_multi_login"`
	DeptID        *int64     `bun:"dept_id"`
	JoinTime      time.Time  `bun:"join_time"`
	LastLoginTime *time.Time `bun:"last_login_time"`
	CreatedTime   time.Time  `bun:"created_time"`
	UpdatedTime   *time.Time `bun:"updated_time"`
}

func newUserRow(u *model.User) *userRow {
	return &userRow{
		ID: u.ID, UUID: u.UUID, Username: u.Username, Nickname: u.Nickname, Password: u.Password,
		Email: u.Email, Phone: u.Phone, Avatar: u.Avatar, Status: u.Status,
		IsSuperuser: u.IsSuperuser, IsStaff: u.IsStaff, IsMultiLogin: u.IsMultiLogin,
		DeptID: u.DeptID, JoinTime: u.JoinTime, LastLoginTime: u.LastLoginTime,
		CreatedTime: u.CreatedTime, UpdatedTime: u.UpdatedTime,
	}
}

func (r *userRow) toModel() model.User {
	return model.User{
		ID: r.ID, UUID: r.UUID, Username: r.Username, Nickname: r.Nickname, Password: r.Password,
		Email: r.Email, Phone: r.Phone, Avatar: r.Avatar, Status: r.Status,
		IsSuperuser: r.IsSuperuser, IsStaff: r.IsStaff, IsMultiLogin: r.IsMultiLogin,
		DeptID: r.DeptID, JoinTime: r.JoinTime, LastLoginTime: r.LastLoginTime,
		CreatedTime: r.CreatedTime, UpdatedTime: r.UpdatedTime,
	}
}

type roleRow struct {
	bun.BaseModel `bun:"table:sys_role"`
	ID            int64      `bun:"id,pk,autoincrement"`
	Name          string     `bun:"name"`
	DataScope     int        `bun:"data_scope"`
	Status        int        `bun:"status"`
	Remark        *string    `bun:"remark"`
	CreatedTime   time.Time  `bun:"created_time"`
	UpdatedTime   *time.Time `bun:"updated_time"`
}

func newRoleRow(r *model.Role) *roleRow {
	return &roleRow{
		ID: r.ID, Name: r.Name, DataScope: r.DataScope, Status: r.Status, Remark: r.Remark,
		CreatedTime: r.CreatedTime, UpdatedTime: r.UpdatedTime,
	}
}

func (r *roleRow) toModel() model.Role {
	return model.Role{
		ID: r.ID, Name: r.Name, DataScope: r.DataScope, Status: r.Status, Remark: r.Remark,
		CreatedTime: r.CreatedTime, UpdatedTime: r.UpdatedTime,
	}
}

type menuRow struct {
	bun.BaseModel `bun:"table:sys_menu"`
	ID            int64      `bun:"id,pk,autoincrement"`
	Title         string     `bun:"title"`
	Name          string     `bun:"name"`
	Path          *string    `bun:"path"`
	Sort          int        `bun:"sort"`
	Icon          *string    `bun:"icon"`
	MenuType      int        `bun:"menu_type"`
	Component     *string    `bun:"component"`
	Perms         *string    `bun:"perms"`
	Status        int        `bun:"status"`
	ParentID      *int64     `bun:"parent_id"`
	Remark        *string    `bun:"remark"`
	CreatedTime   time.Time  `bun:"created_time"`
	UpdatedTime   *time.Time `bun:"updated_time"`
}

func newMenuRow(m *model.Menu) *menuRow {
	return &menuRow{
		ID: m.ID, Title: m.Title, Name: m.Name, Path: m.Path, Sort: m.Sort, Icon: m.Icon,
		MenuType: m.MenuType, Component: m.Component, Perms: m.Perms, Status: m.Status,
		ParentID: m.ParentID, Remark: m.Remark,
		CreatedTime: m.CreatedTime, UpdatedTime: m.UpdatedTime,
	}
}

func (r *menuRow) toModel() model.Menu {
	return model.Menu{
		ID: r.ID, Title: r.Title, Name: r.Name, Path: r.Path, Sort: r.Sort, Icon: r.Icon,
		MenuType: r.MenuType, Component: r.Component, Perms: r.Perms, Status: r.Status,
		ParentID: r.ParentID, Remark: r.Remark,
		CreatedTime: r.CreatedTime, UpdatedTime: r.UpdatedTime,
	}
}

type userRoleRow struct {
	bun.BaseModel `bun:"table:sys_user_role"`
	ID            int64 `bun:"id,pk,autoincrement"`
	UserID        int64 `bun:"user_id"`
	RoleID        int64 `bun:"role_id"`
}

type roleMenuRow struct {
	bun.BaseModel `bun:"table:sys_role_menu"`
	ID            int64 `bun:"id,pk,autoincrement"`
	RoleID        int64 `bun:"role_id"`
	MenuID        int64 `bun:"menu_id"`
}

func menusToModel(rows []menuRow) []model.Menu {
	out := make([]model.Menu, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out
}

func rolesToModel(rows []roleRow) []model.Role {
	out := make([]model.Role, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out
}
