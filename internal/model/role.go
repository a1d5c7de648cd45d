package model

import "time"

type Role struct {
	ID          int64
	Name        string
	DataScope   int
	Status      int
	Remark      *string
	CreatedTime time.Time
	UpdatedTime *time.Time
}

// RoleDetail is a role with the menus granted to it.
type RoleDetail struct {
	Role
	Menus []Menu
}

func (r *RoleDetail) MenuIDs() []int64 {
	ids := make([]int64, 0, len(r.Menus))
	for _, m := range r.Menus {
		ids = append(ids, m.ID)
	}
	return ids
}
