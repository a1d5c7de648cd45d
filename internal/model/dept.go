package model

import "time"

// Dept is a node of the department tree. Deleted departments keep their row
// with DelFlag set.
type Dept struct {
	ID          int64
	Name        string
	ParentID    *int64
	Sort        int
	Leader      *string
	Phone       *string
	Email       *string
	Status      int
	DelFlag     bool
	CreatedTime time.Time
	UpdatedTime *time.Time
}

// Usable reports whether users of the department may sign in.
func (d *Dept) Usable() bool {
	return d.Status == StatusEnabled && !d.DelFlag
}
