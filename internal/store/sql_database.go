package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	_ "github.com/mattn/go-sqlite3"    // sqlite3 database/sql driver

	"github.com/opsbase/itvault/internal/config"
	"github.com/opsbase/itvault/internal/logger"
	"github.com/opsbase/itvault/migrations"
)

// DB wraps the sql connection together with a squirrel statement builder
// configured for the backend's placeholder format. Repositories build every
// query through the builder so that the same code serves PostgreSQL and
// SQLite.
type DB struct {
	*sql.DB
	builder sq.StatementBuilderType
	dialect string
	logger  *logger.Logger
}

// Open establishes the database connection selected by the DSN, pings it and
// applies pending schema migrations.
//
// DSN forms:
//   - "postgres://..." / "postgresql://..." → PostgreSQL via pgx.
//   - anything else (a file path, "file:...") → SQLite, for single-binary
//     deployments.
func Open(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	driver, placeholder, err := backendFor(cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "store.Open").Msg("unsupported database DSN")
		return nil, err
	}

	conn, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "store.Open").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	if err := conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "store.Open").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Info().Str("func", "store.Open").Str("driver", driver).Msg("connected to database successfully")

	db := &DB{
		DB:      conn,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
		dialect: driver,
		logger:  log,
	}

	if err := db.Migrate(); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate applies the embedded goose migrations for the active dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

func backendFor(dsn string) (driver string, placeholder sq.PlaceholderFormat, err error) {
	switch {
	case dsn == "":
		return "", nil, ErrUnsupportedDSN
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "pgx", sq.Dollar, nil
	default:
		return "sqlite3", sq.Question, nil
	}
}
