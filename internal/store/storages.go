package store

import (
	"context"

	"github.com/opsbase/itvault/internal/config"
	"github.com/opsbase/itvault/internal/logger"
)

// Storages aggregates every storage the application wires together: the two
// SQL-backed repositories plus the in-memory session store.
type Storages struct {
	UserRepository     UserRepository
	ActivityRepository ActivityRepository
	SessionStore       SessionStore

	db *DB
}

// NewStorages opens the database selected by cfg, runs migrations and
// constructs all repositories on top of it.
func NewStorages(ctx context.Context, cfg config.DB, log *logger.Logger) (*Storages, error) {
	db, err := Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &Storages{
		UserRepository:     NewUserRepository(db, log),
		ActivityRepository: NewActivityRepository(db, log),
		SessionStore:       NewSessionStore(log),
		db:                 db,
	}, nil
}

// Close releases the underlying database connection.
func (s *Storages) Close() error {
	return s.db.Close()
}
