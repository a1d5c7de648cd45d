package model

import "time"

// Menu is a directory, page or button of the front-end navigation.
// Buttons usually carry Perms, the permission identifier checked by RBAC.
type Menu struct {
	ID          int64
	Title       string
	Name        string
	Path        *string
	Sort        int
	Icon        *string
	MenuType    int
	Component   *string
	Perms       *string
	Status      int
	ParentID    *int64
	Remark      *string
	CreatedTime time.Time
	UpdatedTime *time.Time
}
