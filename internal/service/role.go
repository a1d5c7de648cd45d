package service

import (
	"context"

	"adminapi/internal/model"
	"adminapi/internal/repository"
	"adminapi/internal/schema"
)

// RoleService manages roles and the menus they grant.
type RoleService interface {
	Create(ctx context.Context, in schema.CreateRoleParam) (*model.Role, error)
	Get(ctx context.Context, id int64) (*model.RoleDetail, error)
	List(ctx context.Context, p schema.RoleListParams) (*repository.PageResult[model.Role], error)
	All(ctx context.Context) ([]model.Role, error)
	Update(ctx context.Context, id int64, in schema.UpdateRoleParam) error
	SetMenus(ctx context.Context, id int64, menuIDs []int64) error
	Delete(ctx context.Context, ids []int64) error
}

type roleService struct {
	roles repository.RoleRepository
	menus repository.MenuRepository
}

func NewRoleService(roles repository.RoleRepository, menus repository.MenuRepository) RoleService {
	return &roleService{roles: roles, menus: menus}
}

func (s *roleService) Create(ctx context.Context, in schema.CreateRoleParam) (*model.Role, error) {
	if err := s.checkName(ctx, 0, in.Name); err != nil {
		return nil, err
	}
	r := &model.Role{}
	in.Apply(r)
	created, err := s.roles.Create(ctx, r)
	if err != nil {
		return nil, conflictOnDuplicate(err, "role name already exists")
	}
	return created, nil
}

func (s *roleService) Get(ctx context.Context, id int64) (*model.RoleDetail, error) {
	r, err := s.roles.FindDetail(ctx, id)
	if err != nil {
		return nil, notFoundIf(err, "role")
	}
	return r, nil
}

func (s *roleService) List(ctx context.Context, p schema.RoleListParams) (*repository.PageResult[model.Role], error) {
	pp := p.PageParams.Normalize()
	return s.roles.List(ctx, p.Filter(), repository.PageQuery{Limit: pp.Size, Offset: pp.Offset()})
}

func (s *roleService) All(ctx context.Context) ([]model.Role, error) {
	return s.roles.All(ctx)
}

func (s *roleService) Update(ctx context.Context, id int64, in schema.UpdateRoleParam) error {
	r, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return notFoundIf(err, "role")
	}
	if in.Name != r.Name {
		if err := s.checkName(ctx, id, in.Name); err != nil {
			return err
		}
	}
	in.Apply(r)
	return conflictOnDuplicate(s.roles.Update(ctx, r), "role name already exists")
}

func (s *roleService) SetMenus(ctx context.Context, id int64, menuIDs []int64) error {
	if _, err := s.roles.FindByID(ctx, id); err != nil {
		return notFoundIf(err, "role")
	}
	if len(menuIDs) > 0 {
		menus, err := s.menus.FindByIDs(ctx, menuIDs)
		if err != nil {
			return err
		}
		have := make(map[int64]struct{}, len(menus))
		for _, m := range menus {
			have[m.ID] = struct{}{}
		}
		for _, mid := range menuIDs {
			if _, ok := have[mid]; !ok {
				return newError(ErrNotFound, "menu %d not found", mid)
			}
		}
	}
	return s.roles.SetMenus(ctx, id, menuIDs)
}

func (s *roleService) Delete(ctx context.Context, ids []int64) error {
	if err := checkRoles(ctx, s.roles, ids); err != nil {
		return err
	}
	return s.roles.Delete(ctx, ids)
}

func (s *roleService) checkName(ctx context.Context, id int64, name string) error {
	r, err := s.roles.FindByName(ctx, name)
	taken, err := found(err)
	if err != nil {
		return err
	}
	if taken && r.ID != id {
		return newError(ErrConflict, "role name already exists")
	}
	return nil
}
