// Package migrations embeds the schema migrations for the user store and the
// activity log and applies them with goose at startup.
//
// PostgreSQL and SQLite disagree on identity columns and timestamp types, so
// each dialect carries its own migration directory. The logical schema is
// identical.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedMigrations embed.FS

// Migrate brings the database schema up to date. dialect must be "pgx" or
// "sqlite3", matching the driver the connection was opened with.
func Migrate(db *sql.DB, dialect string) error {
	goose.SetBaseFS(embedMigrations)

	var dir string
	switch dialect {
	case "pgx":
		dir = "postgres"
	case "sqlite3":
		dir = "sqlite"
	default:
		return fmt.Errorf("migration error: unknown dialect %q", dialect)
	}

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
