package sqlstore

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"adminapi/internal/model"
	"adminapi/internal/repository"
)

// DeptStore is a bun implementation of repository.DeptRepository.
type DeptStore struct {
	db  *bun.DB
	now func() time.Time
}

func NewDeptStore(db *bun.DB) *DeptStore {
	return &DeptStore{db: db, now: time.Now}
}

var _ repository.DeptRepository = (*DeptStore)(nil)

func (s *DeptStore) Create(ctx context.Context, d *model.Dept) (*model.Dept, error) {
	row := newDeptRow(d)
	row.ID = 0
	row.DelFlag = false
	row.CreatedTime = s.now()
	row.UpdatedTime = nil
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return nil, mapError(err)
	}
	out := row.toModel()
	return &out, nil
}

func (s *DeptStore) FindByID(ctx context.Context, id int64) (*model.Dept, error) {
	return s.findOne(ctx, "id = ?", id)
}

func (s *DeptStore) FindByName(ctx context.Context, name string) (*model.Dept, error) {
	return s.findOne(ctx, "name = ?", name)
}

func (s *DeptStore) findOne(ctx context.Context, where string, arg any) (*model.Dept, error) {
	var row deptRow
	err := s.db.NewSelect().Model(&row).
		Where(where, arg).
		Where("del_flag = ?", false).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := row.toModel()
	return &out, nil
}

func (s *DeptStore) List(ctx context.Context, f repository.DeptFilter) ([]model.Dept, error) {
	var rows []deptRow
	q := s.db.NewSelect().Model(&rows).Where("del_flag = ?", false)
	if f.Name != "" {
		q = q.Where("name LIKE ?", contains(f.Name))
	}
	if f.Leader != "" {
		q = q.Where("leader LIKE ?", contains(f.Leader))
	}
	if f.Phone != "" {
		q = q.Where("phone LIKE ?", contains(f.Phone))
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if err := q.OrderExpr("sort ASC, id ASC").Scan(ctx); err != nil {
		return nil, err
	}

	out := make([]model.Dept, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}

func (s *DeptStore) Update(ctx context.Context, d *model.Dept) error {
	row := newDeptRow(d)
	now := s.now()
	row.UpdatedTime = &now
	_, err := s.db.NewUpdate().Model(row).
		Column("name", "parent_id", "sort", "leader", "phone", "email", "status", "updated_time").
		WherePK().
		Exec(ctx)
	return mapError(err)
}

func (s *DeptStore) SoftDelete(ctx context.Context, id int64) error {
	_, err := s.db.NewUpdate().Model((*deptRow)(nil)).
		Set("del_flag = ?", true).
		Set("updated_time = ?", s.now()).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (s *DeptStore) CountChildren(ctx context.Context, id int64) (int, error) {
	return s.db.NewSelect().Model((*deptRow)(nil)).
		Where("parent_id = ?", id).
		Where("del_flag = ?", false).
		Count(ctx)
}

func (s *DeptStore) CountUsers(ctx context.Context, id int64) (int, error) {
	return s.db.NewSelect().Model((*userRow)(nil)).
		Where("dept_id = ?", id).
		Count(ctx)
}
