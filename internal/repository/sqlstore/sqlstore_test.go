package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"

	"adminapi/internal/model"
	"adminapi/internal/repository"
)

var fixedNow = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

// newMockDB builds the bun DB before any expectation is registered because
// the dialect probes the server version on construction.
func newMockDB(t *testing.T) (*bun.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := bun.NewDB(sqldb, mysqldialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))

	dupMySQL := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'admin' for key 'username'"}
	assert.ErrorIs(t, mapError(dupMySQL), repository.ErrDuplicate)

	dupPG := &pgconn.PgError{Code: "23505", Detail: "Key (name)=(x) already exists."}
	assert.ErrorIs(t, mapError(dupPG), repository.ErrDuplicate)

	other := &mysql.MySQLError{Number: 1452, Message: "foreign key"}
	assert.Equal(t, other, mapError(other))

	plain := errors.New("boom")
	assert.Equal(t, plain, mapError(plain))
}

func TestContains(t *testing.T) {
	assert.Equal(t, "%adm%", contains("adm"))
	assert.Equal(t, `%50\%\_off%`, contains("50%_off"))
}

func TestDeptStore_Create(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewDeptStore(db)
	store.now = func() time.Time { return fixedNow }

	mock.ExpectExec("INSERT INTO `sys_dept`").WillReturnResult(sqlmock.NewResult(3, 1))

	got, err := store.Create(context.Background(), &model.Dept{Name: "R&D", Status: model.StatusEnabled})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
	assert.Equal(t, fixedNow, got.CreatedTime)
	assert.Nil(t, got.UpdatedTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeptStore_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewDeptStore(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "parent_id", "sort", "status", "del_flag", "created_time"}).
			AddRow(1, "test", nil, 0, 1, false, fixedNow)
		mock.ExpectQuery("SELECT (.+) FROM `sys_dept`").WillReturnRows(rows)

		d, err := store.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "test", d.Name)
		assert.Nil(t, d.ParentID)
		assert.True(t, d.Usable())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM `sys_dept`").WillReturnRows(sqlmock.NewRows([]string{"id"}))

		d, err := store.FindByID(ctx, 99)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, d)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeptStore_ListAndCounts(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewDeptStore(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "name", "parent_id", "sort", "status", "del_flag", "created_time"}).
		AddRow(1, "root", nil, 0, 1, false, fixedNow).
		AddRow(2, "child", 1, 1, 1, false, fixedNow)
	mock.ExpectQuery("SELECT (.+) FROM `sys_dept` (.+)name LIKE '%roo%'(.+)ORDER BY sort ASC, id ASC").WillReturnRows(rows)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `sys_dept`").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `sys_user`").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	list, err := store.List(ctx, repository.DeptFilter{Name: "roo"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NotNil(t, list[1].ParentID)
	assert.Equal(t, int64(1), *list[1].ParentID)

	children, err := store.CountChildren(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, children)

	users, err := store.CountUsers(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, users)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeptStore_UpdateAndSoftDelete(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewDeptStore(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE `sys_dept`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectExec("UPDATE `sys_dept` (.+)del_flag").WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Update(ctx, &model.Dept{ID: 2, Name: "dup"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	require.NoError(t, store.SoftDelete(ctx, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func userColumns() []string {
	return []string{"id", "uuid", "username", "nickname", "password", "status",
		"is_superuser", "is_staff", "is_multi_login", "dept_id", "join_time", "created_time"}
}

func TestUserStore_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("with roles", func(t *testing.T) {
		db, mock := newMockDB(t)
		store := NewUserStore(db)
		store.now = func() time.Time { return fixedNow }

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `sys_user`").WillReturnResult(sqlmock.NewResult(10, 1))
		mock.ExpectExec("INSERT INTO `sys_user_role`").WillReturnResult(sqlmock.NewResult(1, 2))
		mock.ExpectCommit()

		u, err := store.Create(ctx, &model.User{Username: "alice", Nickname: "alice", Password: "hash"}, []int64{1, 2, 2})
		require.NoError(t, err)
		assert.Equal(t, int64(10), u.ID)
		assert.Equal(t, fixedNow, u.JoinTime)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate username rolls back", func(t *testing.T) {
		db, mock := newMockDB(t)
		store := NewUserStore(db)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `sys_user`").
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice'"})
		mock.ExpectRollback()

		u, err := store.Create(ctx, &model.User{Username: "alice"}, nil)
		assert.ErrorIs(t, err, repository.ErrDuplicate)
		assert.Nil(t, u)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserStore_FindDetail(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewUserStore(db)

	mock.ExpectQuery("SELECT (.+) FROM `sys_user`").WillReturnRows(
		sqlmock.NewRows(userColumns()).
			AddRow(1, "uuid-1", "admin", "admin", "hash", 1, true, true, true, 1, fixedNow, fixedNow))
	mock.ExpectQuery("SELECT (.+) FROM `sys_dept`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "status", "del_flag", "created_time"}).
			AddRow(1, "test", 1, false, fixedNow))
	mock.ExpectQuery("SELECT (.+) FROM `sys_user_role`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "user_id", "role_id"}).AddRow(1, 1, 1))
	mock.ExpectQuery("SELECT (.+) FROM `sys_role`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "data_scope", "status", "created_time"}).
			AddRow(1, "test", 2, 1, fixedNow))
	mock.ExpectQuery("SELECT (.+) FROM `sys_role_menu`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "role_id", "menu_id"}).AddRow(1, 1, 5).AddRow(2, 1, 6))
	mock.ExpectQuery("SELECT (.+) FROM `sys_menu`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "title", "name", "menu_type", "perms", "status", "created_time"}).
			AddRow(5, "Add", "AddSysDept", 2, "sys:dept:add", 1, fixedNow).
			AddRow(6, "Edit", "EditSysDept", 2, "sys:dept:edit", 1, fixedNow))

	detail, err := store.FindDetail(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "admin", detail.Username)
	assert.True(t, detail.IsSuperuser)
	require.NotNil(t, detail.Dept)
	assert.Equal(t, "test", detail.Dept.Name)
	require.Len(t, detail.Roles, 1)
	assert.Equal(t, []int64{5, 6}, detail.Roles[0].MenuIDs())
	assert.Equal(t, "sys:dept:edit", *detail.Roles[0].Menus[1].Perms)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_List(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewUserStore(db)
	status := model.StatusEnabled

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `sys_user` (.+)status = 1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectQuery("SELECT (.+) FROM `sys_user` (.+)ORDER BY join_time DESC, id DESC LIMIT 20 OFFSET 20").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(21, "uuid-21", "u21", "u21", "hash", 1, false, false, false, nil, fixedNow, fixedNow))

	page, err := store.List(context.Background(),
		repository.UserFilter{Status: &status},
		repository.PageQuery{Limit: 20, Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, 21, page.Total)
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.Items[0].DeptID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_Updates(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewUserStore(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE `sys_user` (.+)`is_superuser`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `sys_user` (.+)password = ").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `sys_user` (.+)last_login_time = ").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `sys_user_role`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `sys_user_role`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `sys_user`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.UpdateFlags(ctx, &model.User{ID: 2, Status: 1, IsSuperuser: true}))
	require.NoError(t, store.UpdatePassword(ctx, 2, "new-hash"))
	require.NoError(t, store.UpdateLoginTime(ctx, 2, fixedNow))
	require.NoError(t, store.SetRoles(ctx, 2, nil))
	require.NoError(t, store.Delete(ctx, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleStore_SetMenusAndDelete(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewRoleStore(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `sys_role_menu`").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO `sys_role_menu`").WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `sys_user_role`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM `sys_role_menu`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM `sys_role`").WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	require.NoError(t, store.SetMenus(ctx, 1, []int64{5, 6}))
	assert.EqualError(t, store.Delete(ctx, []int64{1}), "locked")
	assert.NoError(t, store.Delete(ctx, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleStore_List(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewRoleStore(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `sys_role` (.+)name LIKE '%te%'").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM `sys_role` (.+)LIMIT 10").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "data_scope", "status", "created_time"}).
			AddRow(1, "test", 2, 1, fixedNow))

	page, err := store.List(context.Background(), repository.RoleFilter{Name: "te"}, repository.PageQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "test", page.Items[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleStore_FindByIDsEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewRoleStore(db)

	roles, err := store.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, roles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMenuStore_ListByRoles(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewMenuStore(db)

	mock.ExpectQuery("SELECT (.+) FROM `sys_menu` (.+)SELECT menu_id FROM sys_role_menu WHERE \\(role_id IN \\(1, 2\\)\\)").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "name", "menu_type", "status", "created_time"}).
			AddRow(1, "Dashboard", "Dashboard", 0, 1, fixedNow))

	menus, err := store.ListByRoles(context.Background(), []int64{1, 2, 1})
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.Equal(t, "Dashboard", menus[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMenuStore_CreateUpdateDelete(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewMenuStore(db)
	store.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO `sys_menu`").WillReturnResult(sqlmock.NewResult(23, 1))
	mock.ExpectExec("UPDATE `sys_menu`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `sys_menu`").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `sys_role_menu`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `sys_menu`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	m, err := store.Create(ctx, &model.Menu{Title: "Logs", Name: "Logs", MenuType: model.MenuTypeMenu, Status: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(23), m.ID)

	m.Title = "Audit"
	require.NoError(t, store.Update(ctx, m))

	n, err := store.CountChildren(ctx, 23)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, store.Delete(ctx, 23))
	assert.NoError(t, mock.ExpectationsWereMet())
}
