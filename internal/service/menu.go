package service

import (
	"context"

	"adminapi/internal/model"
	"adminapi/internal/repository"
	"adminapi/internal/schema"
)

// MenuService manages navigation menus and permission buttons.
type MenuService interface {
	Create(ctx context.Context, in schema.CreateMenuParam) (*model.Menu, error)
	Get(ctx context.Context, id int64) (*model.Menu, error)
	Tree(ctx context.Context, p schema.MenuListParams) ([]*schema.MenuTreeNode, error)
	// Sidebar returns the enabled directories and pages u may open, as a tree.
	Sidebar(ctx context.Context, u *model.UserDetail) ([]*schema.MenuTreeNode, error)
	Update(ctx context.Context, id int64, in schema.UpdateMenuParam) error
	Delete(ctx context.Context, id int64) error
}

type menuService struct {
	menus repository.MenuRepository
}

func NewMenuService(menus repository.MenuRepository) MenuService {
	return &menuService{menus: menus}
}

func (s *menuService) Create(ctx context.Context, in schema.CreateMenuParam) (*model.Menu, error) {
	if err := s.checkTitle(ctx, 0, in.Title); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		if _, err := s.find(ctx, *in.ParentID, "parent menu"); err != nil {
			return nil, err
		}
	}
	m := &model.Menu{}
	in.Apply(m)
	return s.menus.Create(ctx, m)
}

func (s *menuService) Get(ctx context.Context, id int64) (*model.Menu, error) {
	return s.find(ctx, id, "menu")
}

func (s *menuService) Tree(ctx context.Context, p schema.MenuListParams) ([]*schema.MenuTreeNode, error) {
	menus, err := s.menus.List(ctx, p.Filter())
	if err != nil {
		return nil, err
	}
	return schema.BuildMenuTree(menus), nil
}

func (s *menuService) Sidebar(ctx context.Context, u *model.UserDetail) ([]*schema.MenuTreeNode, error) {
	var (
		menus []model.Menu
		err   error
	)
	if u.IsSuperuser {
		enabled := model.StatusEnabled
		menus, err = s.menus.List(ctx, repository.MenuFilter{Status: &enabled})
	} else {
		roles := u.EnabledRoles()
		ids := make([]int64, 0, len(roles))
		for _, r := range roles {
			ids = append(ids, r.ID)
		}
		if len(ids) > 0 {
			menus, err = s.menus.ListByRoles(ctx, ids)
		}
	}
	if err != nil {
		return nil, err
	}

	visible := make([]model.Menu, 0, len(menus))
	for _, m := range menus {
		if m.MenuType != model.MenuTypeButton {
			visible = append(visible, m)
		}
	}
	return schema.BuildMenuTree(visible), nil
}

func (s *menuService) Update(ctx context.Context, id int64, in schema.UpdateMenuParam) error {
	m, err := s.find(ctx, id, "menu")
	if err != nil {
		return err
	}
	if in.Title != m.Title {
		if err := s.checkTitle(ctx, id, in.Title); err != nil {
			return err
		}
	}
	if in.ParentID != nil {
		if *in.ParentID == id {
			return newError(ErrBadRequest, "a menu cannot be its own parent")
		}
		if err := s.checkNotDescendant(ctx, id, *in.ParentID); err != nil {
			return err
		}
	}
	in.Apply(m)
	return s.menus.Update(ctx, m)
}

func (s *menuService) Delete(ctx context.Context, id int64) error {
	if _, err := s.find(ctx, id, "menu"); err != nil {
		return err
	}
	children, err := s.menus.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return newError(ErrConflict, "menu has sub-menus")
	}
	return s.menus.Delete(ctx, id)
}

func (s *menuService) find(ctx context.Context, id int64, what string) (*model.Menu, error) {
	m, err := s.menus.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundIf(err, what)
	}
	return m, nil
}

// checkNotDescendant fails when parentID sits below id in the menu tree.
func (s *menuService) checkNotDescendant(ctx context.Context, id, parentID int64) error {
	seen := map[int64]bool{}
	for cur := &parentID; cur != nil; {
		if *cur == id {
			return newError(ErrBadRequest, "a menu cannot move under its own sub-menu")
		}
		if seen[*cur] {
			return nil
		}
		seen[*cur] = true
		m, err := s.find(ctx, *cur, "parent menu")
		if err != nil {
			return err
		}
		cur = m.ParentID
	}
	return nil
}

func (s *menuService) checkTitle(ctx context.Context, id int64, title string) error {
	m, err := s.menus.FindByTitle(ctx, title)
	taken, err := found(err)
	if err != nil {
		return err
	}
	if taken && m.ID != id {
		return newError(ErrConflict, "menu title already exists")
	}
	return nil
}
