package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"adminapi/internal/model"
	"adminapi/internal/repository"
)

// UserStore is a bun implementation of repository.UserRepository.
type UserStore struct {
	db  *bun.DB
	now func() time.Time
}

func NewUserStore(db *bun.DB) *UserStore {
	return &UserStore{db: db, now: time.Now}
}

var _ repository.UserRepository = (*UserStore)(nil)

func (s *UserStore) Create(ctx context.Context, u *model.User, roleIDs []int64) (*model.User, error) {
	row := newUserRow(u)
	row.ID = 0
	now := s.now()
	row.CreatedTime = now
	row.UpdatedTime = nil
	if row.JoinTime.IsZero() {
		row.JoinTime = now
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
			return mapError(err)
		}
		return insertUserRoles(ctx, tx, row.ID, roleIDs)
	})
	if err != nil {
		return nil, err
	}
	out := row.toModel()
	return &out, nil
}

func (s *UserStore) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return s.findOne(ctx, "id = ?", id)
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.findOne(ctx, "username = ?", username)
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findOne(ctx, "email = ?", email)
}

func (s *UserStore) findOne(ctx context.Context, where string, arg any) (*model.User, error) {
	var row userRow
	if err := s.db.NewSelect().Model(&row).Where(where, arg).Limit(1).Scan(ctx); err != nil {
		return nil, err
	}
	out := row.toModel()
	return &out, nil
}

func (s *UserStore) FindDetail(ctx context.Context, id int64) (*model.UserDetail, error) {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &model.UserDetail{User: *u, Roles: []model.RoleDetail{}}

	if u.DeptID != nil {
		var dept deptRow
		err := s.db.NewSelect().Model(&dept).Where("id = ?", *u.DeptID).Limit(1).Scan(ctx)
		switch {
		case err == nil:
			d := dept.toModel()
			detail.Dept = &d
		case !errors.Is(err, sql.ErrNoRows):
			return nil, err
		}
	}

	var links []userRoleRow
	if err := s.db.NewSelect().Model(&links).Where("user_id = ?", id).Scan(ctx); err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return detail, nil
	}
	roleIDs := make([]int64, 0, len(links))
	for _, l := range links {
		roleIDs = append(roleIDs, l.RoleID)
	}

	var roles []roleRow
	err = s.db.NewSelect().Model(&roles).
		Where("id IN (?)", bun.In(uniqueIDs(roleIDs))).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	detail.Roles, err = loadRoleDetails(ctx, s.db, rolesToModel(roles))
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *UserStore) List(ctx context.Context, f repository.UserFilter, pq repository.PageQuery) (*repository.PageResult[model.User], error) {
	filter := func(q *bun.SelectQuery) *bun.SelectQuery {
		if f.DeptID != nil {
			q = q.Where("dept_id = ?", *f.DeptID)
		}
		if f.Username != "" {
			q = q.Where("username LIKE ?", contains(f.Username))
		}
		if f.Phone != "" {
			q = q.Where("phone LIKE ?", contains(f.Phone))
		}
		if f.Status != nil {
			q = q.Where("status = ?", *f.Status)
		}
		return q
	}

	total, err := s.db.NewSelect().Model((*userRow)(nil)).Apply(filter).Count(ctx)
	if err != nil {
		return nil, err
	}

	var rows []userRow
	err = s.db.NewSelect().Model(&rows).
		Apply(filter).
		OrderExpr("join_time DESC, id DESC").
		Limit(pq.Limit).
		Offset(pq.Offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]model.User, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].toModel())
	}
	return &repository.PageResult[model.User]{
		Items: items,
		Total: total,
	}, nil
}

func (s *UserStore) UpdateProfile(ctx context.Context, u *model.User) error {
	return s.update(ctx, u, "username", "nickname", "email", "phone", "dept_id")
}

func (s *UserStore) UpdateFlags(ctx context.Context, u *model.User) error {
	return s.update(ctx, u, "status", "is_superuser", "is_staff", "is_multi_login")
}

func (s *UserStore) update(ctx context.Context, u *model.User, columns ...string) error {
	row := newUserRow(u)
	now := s.now()
	row.UpdatedTime = &now
	_, err := s.db.NewUpdate().Model(row).
		Column(append(columns, "updated_time")...).
		WherePK().
		Exec(ctx)
	return mapError(err)
}

func (s *UserStore) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return s.set(ctx, id, "password = ?", hash)
}

func (s *UserStore) UpdateAvatar(ctx context.Context, id int64, avatar *string) error {
	return s.set(ctx, id, "avatar = ?", avatar)
}

// UpdateLoginTime leaves updated_time alone; signing in is not an edit.
func (s *UserStore) UpdateLoginTime(ctx context.Context, id int64, at time.Time) error {
	_, err := s.db.NewUpdate().Model((*userRow)(nil)).
		Set("last_login_time = ?", at).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (s *UserStore) set(ctx context.Context, id int64, expr string, arg any) error {
	_, err := s.db.NewUpdate().Model((*userRow)(nil)).
		Set(expr, arg).
		Set("updated_time = ?", s.now()).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (s *UserStore) SetRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*userRoleRow)(nil)).Where("user_id = ?", userID).Exec(ctx); err != nil {
			return err
		}
		return insertUserRoles(ctx, tx, userID, roleIDs)
	})
}

func (s *UserStore) Delete(ctx context.Context, id int64) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*userRoleRow)(nil)).Where("user_id = ?", id).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model((*userRow)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
}

func insertUserRoles(ctx context.Context, tx bun.Tx, userID int64, roleIDs []int64) error {
	ids := uniqueIDs(roleIDs)
	if len(ids) == 0 {
		return nil
	}
	links := make([]userRoleRow, 0, len(ids))
	for _, id := range ids {
		links = append(links, userRoleRow{UserID: userID, RoleID: id})
	}
	_, err := tx.NewInsert().Model(&links).Exec(ctx)
	return mapError(err)
}
