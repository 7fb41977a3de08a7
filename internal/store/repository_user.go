package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/opsbase/itvault/internal/logger"
	"github.com/opsbase/itvault/models"
)

// userColumns is the canonical column order for scanning user rows.
var userColumns = []string{
	"user_id", "username", "email", "role",
	"password_hash", "vault_password_hash", "vault_key_encrypted",
	"totp_secret", "totp_enabled",
	"failed_attempts", "locked_until",
	"last_login_ip", "last_login_at", "created_at",
}

// userRepository is the SQL-backed implementation of [UserRepository]. It
// serves both PostgreSQL and SQLite through the DB's statement builder.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// FindByUsername retrieves the account whose username matches exactly.
//
// Error handling:
//   - [sql.ErrNoRows] → [ErrNoUserWasFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	query, args, err := r.db.builder.
		Select(userColumns...).
		From("users").
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("error building sql query: %w", err)
	}

	return r.scanUser(ctx, query, args...)
}

// FindByID retrieves the account with the given id.
func (r *userRepository) FindByID(ctx context.Context, id int64) (models.User, error) {
	query, args, err := r.db.builder.
		Select(userColumns...).
		From("users").
		Where(sq.Eq{"user_id": id}).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("error building sql query: %w", err)
	}

	return r.scanUser(ctx, query, args...)
}

func (r *userRepository) scanUser(ctx context.Context, query string, args ...any) (models.User, error) {
	log := logger.FromContext(ctx)

	var user models.User
	var lockedUntil, lastLoginAt sql.NullTime

	row := r.db.QueryRowContext(ctx, query, args...)
	err := row.Scan(
		&user.UserID, &user.Username, &user.Email, &user.Role,
		&user.PasswordHash, &user.VaultPasswordHash, &user.VaultKeyEncrypted,
		&user.TotpSecret, &user.TotpEnabled,
		&user.FailedAttempts, &lockedUntil,
		&user.LastLoginIP, &lastLoginAt, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}

		log.Err(err).Str("func", "*userRepository.scanUser").Msg("error: scanning error")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	if lockedUntil.Valid {
		user.LockedUntil = &lockedUntil.Time
	}
	if lastLoginAt.Valid {
		user.LastLoginAt = &lastLoginAt.Time
	}

	return user, nil
}

// CreateUser persists a new account and returns it with the server-assigned
// id. The auth core itself never creates accounts; this method serves the
// setup path (initial admin bootstrap, account provisioning).
//
// Error handling:
//   - unique violation on username → [ErrUsernameAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Insert("users").
		Columns("username", "email", "role",
			"password_hash", "vault_password_hash", "vault_key_encrypted",
			"totp_secret", "totp_enabled").
		Values(user.Username, user.Email, user.Role,
			user.PasswordHash, user.VaultPasswordHash, user.VaultKeyEncrypted,
			user.TotpSecret, user.TotpEnabled).
		Suffix("RETURNING user_id, created_at").
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("error building sql query: %w", err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&user.UserID, &user.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrUsernameAlreadyExists
		}

		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: user insert failed")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return user, nil
}

// IncrementFailedAttempts advances the shared failure counter in a single
// UPDATE so that two concurrent failed verifications cannot both observe the
// same count. The new value is returned to the caller for the lockout
// decision.
func (r *userRepository) IncrementFailedAttempts(ctx context.Context, id int64) (int, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Update("users").
		Set("failed_attempts", sq.Expr("failed_attempts + 1")).
		Where(sq.Eq{"user_id": id}).
		Suffix("RETURNING failed_attempts").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building sql query: %w", err)
	}

	var attempts int
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&attempts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNoUserWasFound
		}

		log.Err(err).Str("func", "*userRepository.IncrementFailedAttempts").Msg("error: counter update failed")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	return attempts, nil
}

// RecordSuccess resets the lockout state after a successful verification and
// stamps the last successful login.
func (r *userRepository) RecordSuccess(ctx context.Context, id int64, ip string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Update("users").
		Set("failed_attempts", 0).
		Set("locked_until", nil).
		Set("last_login_ip", ip).
		Set("last_login_at", time.Now().UTC()).
		Where(sq.Eq{"user_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building sql query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*userRepository.RecordSuccess").Msg("error: success update failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// Lock sets locked_until on the account. The failure counter is left as-is;
// it resets on the next successful verification.
func (r *userRepository) Lock(ctx context.Context, id int64, until time.Time) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Update("users").
		Set("locked_until", until.UTC()).
		Where(sq.Eq{"user_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building sql query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*userRepository.Lock").Msg("error: lock update failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// SetTotp stores the encrypted TOTP secret envelope and toggles the enabled
// flag in one statement.
func (r *userRepository) SetTotp(ctx context.Context, id int64, envelope string, enabled bool) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Update("users").
		Set("totp_secret", envelope).
		Set("totp_enabled", enabled).
		Where(sq.Eq{"user_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building sql query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*userRepository.SetTotp").Msg("error: totp update failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a unique-constraint violation on
// either supported backend.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}

	return false
}
