package schema

import (
	"adminapi/internal/model"
	"adminapi/internal/repository"
)

type CreateMenuParam struct {
	Title     string  `json:"title" validate:"required,max=50"`
	Name      string  `json:"name" validate:"required,max=50"`
	Path      *string `json:"path" validate:"omitempty,max=200"`
	Sort      int     `json:"sort" validate:"gte=0"`
	Icon      *string `json:"icon" validate:"omitempty,max=100"`
	MenuType  int     `json:"menu_type" validate:"oneof=0 1 2"`
	Component *string `json:"component" validate:"omitempty,max=255"`
	Perms     *string `json:"perms" validate:"omitempty,max=100"`
	Status    int     `json:"status" validate:"oneof=0 1"`
	ParentID  *int64  `json:"parent_id" validate:"omitempty,gt=0"`
	Remark    *string `json:"remark"`
}

type UpdateMenuParam = CreateMenuParam

func (p CreateMenuParam) Apply(m *model.Menu) {
	m.Title = p.Title
	m.Name = p.Name
	m.Path = p.Path
	m.Sort = p.Sort
	m.Icon = p.Icon
	m.MenuType = p.MenuType
	m.Component = p.Component
	m.Perms = p.Perms
	m.Status = p.Status
	m.ParentID = p.ParentID
	m.Remark = p.Remark
}

type MenuListParams struct {
	Title  string `query:"title"`
	Status *int   `query:"status" validate:"omitempty,oneof=0 1"`
}

func (p MenuListParams) Filter() repository.MenuFilter {
	return repository.MenuFilter{Title: p.Title, Status: p.Status}
}

type GetMenuDetail struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Name        string     `json:"name"`
	Path        *string    `json:"path"`
	Sort        int        `json:"sort"`
	Icon        *string    `json:"icon"`
	MenuType    int        `json:"menu_type"`
	Component   *string    `json:"component"`
	Perms       *string    `json:"perms"`
	Status      int        `json:"status"`
	ParentID    *int64     `json:"parent_id"`
	Remark      *string    `json:"remark"`
	CreatedTime LocalTime  `json:"created_time"`
	UpdatedTime *LocalTime `json:"updated_time"`
}

func MenuDetail(m *model.Menu) GetMenuDetail {
	return GetMenuDetail{
		ID:          m.ID,
		Title:       m.Title,
		Name:        m.Name,
		Path:        m.Path,
		Sort:        m.Sort,
		Icon:        m.Icon,
		MenuType:    m.MenuType,
		Component:   m.Component,
		Perms:       m.Perms,
		Status:      m.Status,
		ParentID:    m.ParentID,
		Remark:      m.Remark,
		CreatedTime: NewLocalTime(m.CreatedTime),
		UpdatedTime: LocalTimePtr(m.UpdatedTime),
	}
}

type MenuTreeNode struct {
	GetMenuDetail
	Children []*MenuTreeNode `json:"children,omitempty"`
}

func BuildMenuTree(menus []model.Menu) []*MenuTreeNode {
	nodes := make([]*MenuTreeNode, 0, len(menus))
	for i := range menus {
		nodes = append(nodes, &MenuTreeNode{GetMenuDetail: MenuDetail(&menus[i])})
	}
	return linkTree(nodes,
		func(n *MenuTreeNode) (int64, *int64) { return n.ID, n.ParentID },
		func(parent, child *MenuTreeNode) { parent.Children = append(parent.Children, child) },
	)
}
