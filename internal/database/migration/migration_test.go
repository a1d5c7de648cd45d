package migration

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminapi/internal/logging"
)

func quietLogs(t *testing.T) {
	t.Helper()
	orig := logging.L
	logging.L = logging.New(io.Discard, time.UTC)
	t.Cleanup(func() { logging.L = orig })
}

func TestStatements(t *testing.T) {
	script := `-- header comment
CREATE TABLE a (
  id INT
);

-- between
INSERT INTO a (id) VALUES (1), (2);
SELECT 1`

	got := Statements(script)
	require.Len(t, got, 3)
	assert.Equal(t, "CREATE TABLE a (\n  id INT\n)", got[0])
	assert.Equal(t, "INSERT INTO a (id) VALUES (1), (2)", got[1])
	assert.Equal(t, "SELECT 1", got[2])
}

func TestSteps(t *testing.T) {
	for _, dbType := range []string{"mysql", "postgres"} {
		t.Run(dbType, func(t *testing.T) {
			all, err := steps(dbType)
			require.NoError(t, err)

			var names []string
			for _, s := range all {
				names = append(names, s.Name)
			}
			for _, table := range []string{"sys_dept", "sys_user", "sys_role", "sys_menu", "sys_user_role", "sys_role_menu"} {
				assert.Contains(t, names, "create_table_"+table)
			}
		})
	}
}

func TestMySQLScriptsUseUTF8MB4(t *testing.T) {
	script, err := Script("mysql", createTablesFile)
	require.NoError(t, err)
	for _, stmt := range Statements(script) {
		assert.Contains(t, stmt, "CHARSET=utf8mb4")
	}
}

func TestEnsureMigrated(t *testing.T) {
	quietLogs(t)
	sentinel := regexp.QuoteMeta("SELECT COUNT(*) FROM information_schema.tables")

	t.Run("schema exists", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(sentinel).WithArgs(sentinelTable).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		require.NoError(t, EnsureMigrated(context.Background(), db, "mysql", "localhost"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("creates schema", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(sentinel).WithArgs(sentinelTable).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		all, err := steps("postgres")
		require.NoError(t, err)
		for _, s := range all {
			mock.ExpectExec(regexp.QuoteMeta(s.SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
		}

		require.NoError(t, EnsureMigrated(context.Background(), db, "postgres", "localhost"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("step failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(sentinel).WithArgs(sentinelTable).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS sys_dept").WillReturnError(errors.New("boom"))

		err = EnsureMigrated(context.Background(), db, "mysql", "localhost")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "migration step create_table_sys_dept failed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sentinel failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(sentinel).WillReturnError(errors.New("denied"))

		err = EnsureMigrated(context.Background(), db, "mysql", "localhost")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to check sentinel table")
	})
}

func TestSeed(t *testing.T) {
	quietLogs(t)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		script, err := Script("mysql", seedFile)
		require.NoError(t, err)

		mock.ExpectBegin()
		for _, stmt := range Statements(script) {
			mock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(1, 1))
		}
		mock.ExpectCommit()

		require.NoError(t, Seed(context.Background(), db, "mysql"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO sys_dept").WillReturnError(errors.New("duplicate"))
		mock.ExpectRollback()

		err = Seed(context.Background(), db, "mysql")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "seed statement 1 failed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
