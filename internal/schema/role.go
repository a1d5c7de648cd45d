package schema

import (
	"adminapi/internal/model"
	"adminapi/internal/repository"
)

type CreateRoleParam struct {
	Name      string  `json:"name" validate:"required,max=20"`
	DataScope int     `json:"data_scope" validate:"oneof=1 2"`
	Status    int     `json:"status" validate:"oneof=0 1"`
	Remark    *string `json:"remark"`
}

type UpdateRoleParam = CreateRoleParam

func (p CreateRoleParam) Apply(r *model.Role) {
	r.Name = p.Name
	r.DataScope = p.DataScope
	r.Status = p.Status
	r.Remark = p.Remark
}

type UpdateRoleMenuParam struct {
	Menus []int64 `json:"menus" validate:"dive,gt=0"`
}

type DeleteRolesParam struct {
	PKs []int64 `json:"pk" validate:"required,min=1,dive,gt=0"`
}

type RoleListParams struct {
	PageParams
	Name   string `query:"name"`
	Status *int   `query:"status" validate:"omitempty,oneof=0 1"`
}

func (p RoleListParams) Filter() repository.RoleFilter {
	return repository.RoleFilter{Name: p.Name, Status: p.Status}
}

type GetRoleDetail struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	DataScope   int        `json:"data_scope"`
	Status      int        `json:"status"`
	Remark      *string    `json:"remark"`
	CreatedTime LocalTime  `json:"created_time"`
	UpdatedTime *LocalTime `json:"updated_time"`
	// Menus is only filled for a single role lookup.
	Menus []int64 `json:"menus,omitempty"`
}

func RoleDetail(r *model.Role) GetRoleDetail {
	return GetRoleDetail{
		ID:          r.ID,
		Name:        r.Name,
		DataScope:   r.DataScope,
		Status:      r.Status,
		Remark:      r.Remark,
		CreatedTime: NewLocalTime(r.CreatedTime),
		UpdatedTime: LocalTimePtr(r.UpdatedTime),
	}
}

func RoleDetailWithMenus(r *model.RoleDetail) GetRoleDetail {
	out := RoleDetail(&r.Role)
	out.Menus = r.MenuIDs()
	return out
}

func RoleDetails(roles []model.Role) []GetRoleDetail {
	out := make([]GetRoleDetail, 0, len(roles))
	for i := range roles {
		out = append(out, RoleDetail(&roles[i]))
	}
	return out
}
