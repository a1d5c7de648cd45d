// Package migration creates the schema and loads seed data from SQL scripts
// embedded per dialect.
package migration

import (
	"bufio"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"adminapi/internal/logging"
)

//go:embed sql
var scripts embed.FS

const (
	createTablesFile = "create_tables.sql"
	seedFile         = "init_test_data.sql"
	sentinelTable    = "sys_user"
)

type migrationStep struct {
	Name string
	SQL  string
}

var objectName = regexp.MustCompile(`(?i)^CREATE\s+(TABLE|INDEX)\s+(?:IF\s+NOT\s+EXISTS\s+)?(\w+)`)

// Script returns the embedded SQL file for dbType.
func Script(dbType, name string) (string, error) {
	b, err := scripts.ReadFile(path.Join("sql", dialectDir(dbType), name))
	if err != nil {
		return "", fmt.Errorf("read %s script %s: %w", dbType, name, err)
	}
	return string(b), nil
}

// Statements splits a SQL script into single statements. Statements end with
// a semicolon at the end of a line; full-line "--" comments are dropped.
func Statements(script string) []string {
	var (
		out []string
		buf strings.Builder
	)
	sc := bufio.NewScanner(strings.NewReader(script))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(sc.Text())
		if strings.HasSuffix(line, ";") {
			stmt := strings.TrimSuffix(strings.TrimSpace(buf.String()), ";")
			out = append(out, stmt)
			buf.Reset()
		}
	}
	if rest := strings.TrimSpace(buf.String()); rest != "" {
		out = append(out, rest)
	}
	return out
}

func steps(dbType string) ([]migrationStep, error) {
	script, err := Script(dbType, createTablesFile)
	if err != nil {
		return nil, err
	}
	stmts := Statements(script)
	out := make([]migrationStep, 0, len(stmts))
	for i, stmt := range stmts {
		name := fmt.Sprintf("statement_%d", i+1)
		if m := objectName.FindStringSubmatch(stmt); m != nil {
			name = "create_" + strings.ToLower(m[1]) + "_" + m[2]
		}
		out = append(out, migrationStep{Name: name, SQL: stmt})
	}
	return out, nil
}

// EnsureMigrated checks if the sentinel table exists and creates the schema if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, dbType, dbHost string) error {
	start := time.Now()
	log := logging.L.With("component", "database", "db_host", dbHost, "db_type", dbType)

	log.Info("checking schema", "event", "db_migration_check", "status", "starting")

	var count int
	if err := db.QueryRowContext(ctx, sentinelQuery(dbType), sentinelTable).Scan(&count); err != nil {
		log.Error("failed to check sentinel table", "event", "db_migration_failed", "status", "error",
			"err", err, "duration_ms", time.Since(start).Milliseconds())
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if count > 0 {
		log.Info("schema already exists, skipping migration", "event", "db_migration_skip", "status", "success",
			"duration_ms", time.Since(start).Milliseconds())
		return nil
	}

	all, err := steps(dbType)
	if err != nil {
		return err
	}

	log.Info("creating schema", "event", "db_migration_start", "status", "in_progress", "steps", len(all))

	for _, step := range all {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("migration step failed", "event", "db_migration_failed", "status", "error",
				"migration_step", step.Name, "err", err,
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds())
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("migration step applied", "event", "db_migration_step", "status", "success",
			"migration_step", step.Name, "step_duration_ms", time.Since(stepStart).Milliseconds())
	}

	log.Info("schema created", "event", "db_migration_success", "status", "success",
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// Seed loads the embedded test data inside a single transaction.
func Seed(ctx context.Context, db *sql.DB, dbType string) error {
	start := time.Now()
	log := logging.L.With("component", "database", "db_type", dbType)

	script, err := Script(dbType, seedFile)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	for i, stmt := range Statements(script) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			log.Error("seed statement failed", "event", "db_seed_failed", "status", "error", "statement", i+1, "err", err)
			return fmt.Errorf("seed statement %d failed: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	log.Info("seed data loaded", "event", "db_seed_success", "status", "success",
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func sentinelQuery(dbType string) string {
	if dbType == "postgres" {
		return "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1"
	}
	return "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?"
}

func dialectDir(dbType string) string {
	if dbType == "postgres" {
		return "postgres"
	}
	return "mysql"
}
