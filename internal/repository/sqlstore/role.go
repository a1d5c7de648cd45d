package sqlstore

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"adminapi/internal/model"
	"adminapi/internal/repository"
)

// RoleStore is a bun implementation of repository.RoleRepository.
type RoleStore struct {
	db  *bun.DB
	now func() time.Time
}

func NewRoleStore(db *bun.DB) *RoleStore {
	return &RoleStore{db: db, now: time.Now}
}

var _ repository.RoleRepository = (*RoleStore)(nil)

func (s *RoleStore) Create(ctx context.Context, r *model.Role) (*model.Role, error) {
	row := newRoleRow(r)
	row.ID = 0
	row.CreatedTime = s.now()
	row.UpdatedTime = nil
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return nil, mapError(err)
	}
	out := row.toModel()
	return &out, nil
}

func (s *RoleStore) FindByID(ctx context.Context, id int64) (*model.Role, error) {
	return s.findOne(ctx, "id = ?", id)
}

func (s *RoleStore) FindByName(ctx context.Context, name string) (*model.Role, error) {
	return s.findOne(ctx, "name = ?", name)
}

func (s *RoleStore) findOne(ctx context.Context, where string, arg any) (*model.Role, error) {
	var row roleRow
	if err := s.db.NewSelect().Model(&row).Where(where, arg).Limit(1).Scan(ctx); err != nil {
		return nil, err
	}
	out := row.toModel()
	return &out, nil
}

func (s *RoleStore) FindByIDs(ctx context.Context, ids []int64) ([]model.Role, error) {
	if len(ids) == 0 {
		return []model.Role{}, nil
	}
	var rows []roleRow
	if err := s.db.NewSelect().Model(&rows).Where("id IN (?)", bun.In(uniqueIDs(ids))).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rolesToModel(rows), nil
}

func (s *RoleStore) FindDetail(ctx context.Context, id int64) (*model.RoleDetail, error) {
	role, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details, err := loadRoleDetails(ctx, s.db, []model.Role{*role})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *RoleStore) List(ctx context.Context, f repository.RoleFilter, pq repository.PageQuery) (*repository.PageResult[model.Role], error) {
	filter := func(q *bun.SelectQuery) *bun.SelectQuery {
		if f.Name != "" {
			q = q.Where("name LIKE ?", contains(f.Name))
		}
		if f.Status != nil {
			q = q.Where("status = ?", *f.Status)
		}
		return q
	}

	total, err := s.db.NewSelect().Model((*roleRow)(nil)).Apply(filter).Count(ctx)
	if err != nil {
		return nil, err
	}

	var rows []roleRow
	err = s.db.NewSelect().Model(&rows).
		Apply(filter).
		OrderExpr("id ASC").
		Limit(pq.Limit).
		Offset(pq.Offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Role]{
		Items: rolesToModel(rows),
		Total: total,
	}, nil
}

func (s *RoleStore) All(ctx context.Context) ([]model.Role, error) {
	var rows []roleRow
	if err := s.db.NewSelect().Model(&rows).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rolesToModel(rows), nil
}

func (s *RoleStore) Update(ctx context.Context, r *model.Role) error {
	row := newRoleRow(r)
	now := s.now()
	row.UpdatedTime = &now
	_, err := s.db.NewUpdate().Model(row).
		Column("name", "data_scope", "status", "remark", "updated_time").
		WherePK().
		Exec(ctx)
	return mapError(err)
}

func (s *RoleStore) SetMenus(ctx context.Context, roleID int64, menuIDs []int64) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*roleMenuRow)(nil)).Where("role_id = ?", roleID).Exec(ctx); err != nil {
			return err
		}
		ids := uniqueIDs(menuIDs)
		if len(ids) == 0 {
			return nil
		}
		links := make([]roleMenuRow, 0, len(ids))
		for _, id := range ids {
			links = append(links, roleMenuRow{RoleID: roleID, MenuID: id})
		}
		_, err := tx.NewInsert().Model(&links).Exec(ctx)
		return mapError(err)
	})
}

func (s *RoleStore) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	ids = uniqueIDs(ids)
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*userRoleRow)(nil)).Where("role_id IN (?)", bun.In(ids)).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*roleMenuRow)(nil)).Where("role_id IN (?)", bun.In(ids)).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model((*roleRow)(nil)).Where("id IN (?)", bun.In(ids)).Exec(ctx)
		return err
	})
}

// loadRoleDetails attaches the menus of every role. Menus keep sort order.
func loadRoleDetails(ctx context.Context, db bun.IDB, roles []model.Role) ([]model.RoleDetail, error) {
	out := make([]model.RoleDetail, len(roles))
	if len(roles) == 0 {
		return out, nil
	}
	roleIDs := make([]int64, 0, len(roles))
	for i, r := range roles {
		out[i] = model.RoleDetail{Role: r, Menus: []model.Menu{}}
		roleIDs = append(roleIDs, r.ID)
	}

	var links []roleMenuRow
	if err := db.NewSelect().Model(&links).Where("role_id IN (?)", bun.In(roleIDs)).Scan(ctx); err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return out, nil
	}

	menuIDs := make([]int64, 0, len(links))
	for _, l := range links {
		menuIDs = append(menuIDs, l.MenuID)
	}
	var menus []menuRow
	err := db.NewSelect().Model(&menus).
		Where("id IN (?)", bun.In(uniqueIDs(menuIDs))).
		OrderExpr("sort ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	granted := make(map[int64]map[int64]bool, len(roles))
	for _, l := range links {
		if granted[l.RoleID] == nil {
			granted[l.RoleID] = make(map[int64]bool)
		}
		granted[l.RoleID][l.MenuID] = true
	}
	for i := range out {
		for j := range menus {
			if granted[out[i].ID][menus[j].ID] {
				out[i].Menus = append(out[i].Menus, menus[j].toModel())
			}
		}
	}
	return out, nil
}
