package schema

import (
	"adminapi/internal/model"
	"adminapi/internal/repository"
)

type CreateDeptParam struct {
	Name     string  `json:"name" validate:"required,max=50"`
	ParentID *int64  `json:"parent_id" validate:"omitempty,gt=0"`
	Sort     int     `json:"sort" validate:"gte=0"`
	Leader   *string `json:"leader" validate:"omitempty,max=20"`
	Phone    *string `json:"phone" validate:"omitempty,phone"`
	Email    *string `json:"email" validate:"omitempty,email,max=50"`
	Status   int     `json:"status" validate:"oneof=0 1"`
}

type UpdateDeptParam = CreateDeptParam

// Apply copies the writable fields onto d.
func (p CreateDeptParam) Apply(d *model.Dept) {
	d.Name = p.Name
	d.ParentID = p.ParentID
	d.Sort = p.Sort
	d.Leader = p.Leader
	d.Phone = p.Phone
	d.Email = p.Email
	d.Status = p.Status
}

type DeptListParams struct {
	Name   string `query:"name"`
	Leader string `query:"leader"`
	Phone  string `query:"phone"`
	Status *int   `query:"status" validate:"omitempty,oneof=0 1"`
}

func (p DeptListParams) Filter() repository.DeptFilter {
	return repository.DeptFilter{Name: p.Name, Leader: p.Leader, Phone: p.Phone, Status: p.Status}
}

type GetDeptDetail struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	ParentID    *int64     `json:"parent_id"`
	Sort        int        `json:"sort"`
	Leader      *string    `json:"leader"`
	Phone       *string    `json:"phone"`
	Email       *string    `json:"email"`
	Status      int        `json:"status"`
	CreatedTime LocalTime  `json:"created_time"`
	UpdatedTime *LocalTime `json:"updated_time"`
}

func DeptDetail(d *model.Dept) GetDeptDetail {
	return GetDeptDetail{
		ID:          d.ID,
		Name:        d.Name,
		ParentID:    d.ParentID,
		Sort:        d.Sort,
		Leader:      d.Leader,
		Phone:       d.Phone,
		Email:       d.Email,
		Status:      d.Status,
		CreatedTime: NewLocalTime(d.CreatedTime),
		UpdatedTime: LocalTimePtr(d.UpdatedTime),
	}
}

type DeptTreeNode struct {
	GetDeptDetail
	Children []*DeptTreeNode `json:"children,omitempty"`
}

// BuildDeptTree nests depts under their parents, keeping the input order
// among siblings.
func BuildDeptTree(depts []model.Dept) []*DeptTreeNode {
	nodes := make([]*DeptTreeNode, 0, len(depts))
	for i := range depts {
		nodes = append(nodes, &DeptTreeNode{GetDeptDetail: DeptDetail(&depts[i])})
	}
	return linkTree(nodes,
		func(n *DeptTreeNode) (int64, *int64) { return n.ID, n.ParentID },
		func(parent, child *DeptTreeNode) { parent.Children = append(parent.Children, child) },
	)
}
