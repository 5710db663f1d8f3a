package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrationFS embed.FS

// migrate applies all pending schema migrations for the driver.
func migrate(ctx context.Context, db *sql.DB, driver string) error {
	var dialect goose.Dialect
	var dir string
	switch driver {
	case DriverSQLite:
		dialect, dir = goose.DialectSQLite3, "migrations/sqlite"
	case DriverPostgres:
		dialect, dir = goose.DialectPostgres, "migrations/postgres"
	default:
		return fmt.Errorf("unsupported database driver: %s", driver)
	}

	sub, err := fs.Sub(migrationFS, dir)
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}
	provider, err := goose.NewProvider(dialect, db, sub)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
