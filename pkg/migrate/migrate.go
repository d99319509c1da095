package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/giftconnect/giftconnect-backend/pkg/config"
)

// DefaultDir is relative to the repository root.
const DefaultDir = "pkg/migrate/migrations"

// DialectFor maps a configured DB driver onto the goose dialect name.
func DialectFor(driver string) string {
	if strings.EqualFold(strings.TrimSpace(driver), config.DBDriverSQLite) {
		return "sqlite3"
	}
	return "postgres"
}

func prepare(db *sql.DB, dialect, dir string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("dir is required")
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// Run executes a goose command (up, down, status, ...) against db.
func Run(ctx context.Context, db *sql.DB, dialect, dir, command string, args ...string) error {
	if err := prepare(db, dialect, dir); err != nil {
		return err
	}
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion moves the schema up or down until it sits at targetVersion.
func MigrateToVersion(ctx context.Context, db *sql.DB, dialect, dir, targetVersion string) error {
	target, err := strconv.ParseInt(strings.TrimSpace(targetVersion), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (want YYYYMMDDHHMMSS): %w", targetVersion, err)
	}
	if err := prepare(db, dialect, dir); err != nil {
		return err
	}

	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	switch {
	case current < target:
		err = goose.UpToContext(ctx, db, dir, target)
	case current > target:
		err = goose.DownToContext(ctx, db, dir, target)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %d -> %d: %w", current, target, err)
	}
	return nil
}
