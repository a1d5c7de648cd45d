package service

import (
	"context"

	"adminapi/internal/model"
	"adminapi/internal/repository"
	"adminapi/internal/schema"
)

// DeptService manages the department tree.
type DeptService interface {
	Create(ctx context.Context, in schema.CreateDeptParam) (*model.Dept, error)
	Get(ctx context.Context, id int64) (*model.Dept, error)
	Tree(ctx context.Context, p schema.DeptListParams) ([]*schema.DeptTreeNode, error)
	Update(ctx context.Context, id int64, in schema.UpdateDeptParam) error
	// Delete soft-deletes a department without children or users.
	Delete(ctx context.Context, id int64) error
}

type deptService struct {
	depts repository.DeptRepository
}

func NewDeptService(depts repository.DeptRepository) DeptService {
	return &deptService{depts: depts}
}

func (s *deptService) Create(ctx context.Context, in schema.CreateDeptParam) (*model.Dept, error) {
	if err := s.checkName(ctx, 0, in.Name); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		if _, err := s.find(ctx, *in.ParentID, "parent department"); err != nil {
			return nil, err
		}
	}
	d := &model.Dept{}
	in.Apply(d)
	created, err := s.depts.Create(ctx, d)
	if err != nil {
		return nil, conflictOnDuplicate(err, "department name already exists")
	}
	return created, nil
}

func (s *deptService) Get(ctx context.Context, id int64) (*model.Dept, error) {
	return s.find(ctx, id, "department")
}

func (s *deptService) Tree(ctx context.Context, p schema.DeptListParams) ([]*schema.DeptTreeNode, error) {
	depts, err := s.depts.List(ctx, p.Filter())
	if err != nil {
		return nil, err
	}
	return schema.BuildDeptTree(depts), nil
}

func (s *deptService) Update(ctx context.Context, id int64, in schema.UpdateDeptParam) error {
	d, err := s.find(ctx, id, "department")
	if err != nil {
		return err
	}
	if in.Name != d.Name {
		if err := s.checkName(ctx, id, in.Name); err != nil {
			return err
		}
	}
	if in.ParentID != nil {
		if *in.ParentID == id {
			return newError(ErrBadRequest, "a department cannot be its own parent")
		}
		if err := s.checkNotDescendant(ctx, id, *in.ParentID); err != nil {
			return err
		}
	}
	in.Apply(d)
	return conflictOnDuplicate(s.depts.Update(ctx, d), "department name already exists")
}

func (s *deptService) Delete(ctx context.Context, id int64) error {
	if _, err := s.find(ctx, id, "department"); err != nil {
		return err
	}
	users, err := s.depts.CountUsers(ctx, id)
	if err != nil {
		return err
	}
	if users > 0 {
		return newError(ErrConflict, "department has users")
	}
	children, err := s.depts.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return newError(ErrConflict, "department has sub-departments")
	}
	return s.depts.SoftDelete(ctx, id)
}

func (s *deptService) find(ctx context.Context, id int64, what string) (*model.Dept, error) {
	d, err := s.depts.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundIf(err, what)
	}
	return d, nil
}

func (s *deptService) checkName(ctx context.Context, id int64, name string) error {
	d, err := s.depts.FindByName(ctx, name)
	taken, err := found(err)
	if err != nil {
		return err
	}
	if taken && d.ID != id {
		return newError(ErrConflict, "department name already exists")
	}
	return nil
}

// checkNotDescendant walks up from parentID and fails when it reaches id,
// which would turn the tree into a cycle.
func (s *deptService) checkNotDescendant(ctx context.Context, id, parentID int64) error {
	seen := map[int64]struct{}{}
	cur := &parentID
	for cur != nil {
		if *cur == id {
			return newError(ErrBadRequest, "a department cannot move under its own descendant")
		}
		if _, ok := seen[*cur]; ok {
			return nil
		}
		seen[*cur] = struct{}{}
		d, err := s.find(ctx, *cur, "parent department")
		if err != nil {
			return err
		}
		cur = d.ParentID
	}
	return nil
}
