package sqlstore

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"adminapi/internal/model"
	"adminapi/internal/repository"
)

// MenuStore is a bun implementation of repository.MenuRepository.
type MenuStore struct {
	db  *bun.DB
	now func() time.Time
}

func NewMenuStore(db *bun.DB) *MenuStore {
	return &MenuStore{db: db, now: time.Now}
}

var _ repository.MenuRepository = (*MenuStore)(nil)

func (s *MenuStore) Create(ctx context.Context, m *model.Menu) (*model.Menu, error) {
	row := newMenuRow(m)
	row.ID = 0
	row.CreatedTime = s.now()
	row.UpdatedTime = nil
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return nil, mapError(err)
	}
	out := row.toModel()
	return &out, nil
}

func (s *MenuStore) FindByID(ctx context.Context, id int64) (*model.Menu, error) {
	return s.findOne(ctx, "id = ?", id)
}

func (s *MenuStore) FindByTitle(ctx context.Context, title string) (*model.Menu, error) {
	return s.findOne(ctx, "title = ?", title)
}

func (s *MenuStore) findOne(ctx context.Context, where string, arg any) (*model.Menu, error) {
	var row menuRow
	if err := s.db.NewSelect().Model(&row).Where(where, arg).Limit(1).Scan(ctx); err != nil {
		return nil, err
	}
	out := row.toModel()
	return &out, nil
}

func (s *MenuStore) FindByIDs(ctx context.Context, ids []int64) ([]model.Menu, error) {
	if len(ids) == 0 {
		return []model.Menu{}, nil
	}
	var rows []menuRow
	err := s.db.NewSelect().Model(&rows).
		Where("id IN (?)", bun.In(uniqueIDs(ids))).
		OrderExpr("sort ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return menusToModel(rows), nil
}

func (s *MenuStore) List(ctx context.Context, f repository.MenuFilter) ([]model.Menu, error) {
	var rows []menuRow
	q := s.db.NewSelect().Model(&rows)
	if f.Title != "" {
		q = q.Where("title LIKE ?", contains(f.Title))
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if err := q.OrderExpr("sort ASC, id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return menusToModel(rows), nil
}

func (s *MenuStore) ListByRoles(ctx context.Context, roleIDs []int64) ([]model.Menu, error) {
	if len(roleIDs) == 0 {
		return []model.Menu{}, nil
	}
	granted := s.db.NewSelect().
		TableExpr("sys_role_menu").
		ColumnExpr("menu_id").
		Where("role_id IN (?)", bun.In(uniqueIDs(roleIDs)))

	var rows []menuRow
	err := s.db.NewSelect().Model(&rows).
		Where("id IN (?)", granted).
		Where("status = ?", model.StatusEnabled).
		OrderExpr("sort ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return menusToModel(rows), nil
}

func (s *MenuStore) Update(ctx context.Context, m *model.Menu) error {
	row := newMenuRow(m)
	now := s.now()
	row.UpdatedTime = &now
	_, err := s.db.NewUpdate().Model(row).
		Column("title", "name", "path", "sort", "icon", "menu_type", "component",
			"perms", "status", "parent_id", "remark", "updated_time").
		WherePK().
		Exec(ctx)
	return mapError(err)
}

// Delete removes the menu and the role links pointing at it.
func (s *MenuStore) Delete(ctx context.Context, id int64) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*roleMenuRow)(nil)).Where("menu_id = ?", id).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model((*menuRow)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
}

func (s *MenuStore) CountChildren(ctx context.Context, id int64) (int, error) {
	return s.db.NewSelect().Model((*menuRow)(nil)).Where("parent_id = ?", id).Count(ctx)
}
