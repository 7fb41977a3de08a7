package store

import (
	"context"
	"time"

	"github.com/opsbase/itvault/models"
)

// UserRepository is the persistence contract the auth core consumes. The
// CRUD layers of the application own account creation; this core reads
// accounts and mutates only lockout and TOTP state.
type UserRepository interface {
	// FindByUsername returns the account with the given username or
	// [ErrNoUserWasFound].
	FindByUsername(ctx context.Context, username string) (models.User, error)

	// FindByID returns the account with the given id or [ErrNoUserWasFound].
	FindByID(ctx context.Context, id int64) (models.User, error)

	// CreateUser persists a new account (setup path only) and returns it
	// with server-assigned fields populated.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// IncrementFailedAttempts atomically advances the shared failure counter
	// and returns the new value. The increment happens in the database so
	// that two concurrent failures cannot both observe the same count.
	IncrementFailedAttempts(ctx context.Context, id int64) (int, error)

	// RecordSuccess resets the failure counter, clears any lock and stamps
	// the last successful login.
	RecordSuccess(ctx context.Context, id int64, ip string) error

	// Lock sets locked_until on the account.
	Lock(ctx context.Context, id int64, until time.Time) error

	// SetTotp stores the encrypted TOTP secret envelope and toggles the
	// enabled flag in one statement.
	SetTotp(ctx context.Context, id int64, envelope string, enabled bool) error
}

// ActivityFilter narrows an activity-log listing. Zero values mean
// "no constraint"; Limit falls back to a server-side default.
type ActivityFilter struct {
	UserID *int64
	Action string
	Since  time.Time
	Until  time.Time
	Limit  uint64
}

// ActivityRepository is the durable activity-log sink and its read side.
type ActivityRepository interface {
	// Record appends one entry. Callers treat failures as non-fatal; the
	// service layer swallows them.
	Record(ctx context.Context, entry models.ActivityEntry) error

	// List returns entries matching filter, newest first.
	List(ctx context.Context, filter ActivityFilter) ([]models.ActivityEntry, error)
}

// SessionStore holds ephemeral session state, including the unlocked vault
// key. Implementations must wipe key material before discarding a session.
type SessionStore interface {
	// Create registers a new session for userID and returns it. totpPending
	// marks sessions whose second factor is still outstanding.
	Create(userID int64, totpPending bool) *models.Session

	// Get returns the session with the given id, or false.
	Get(id string) (*models.Session, bool)

	// Touch refreshes the session's last-activity timestamp.
	Touch(id string)

	// ClearTotpPending marks the session fully authenticated.
	ClearTotpPending(id string)

	// SetVaultKey installs the unlocked vault key, replacing (and wiping)
	// any previous one.
	SetVaultKey(id string, key []byte) error

	// WipeVaultKey zeroes and removes the session's vault key, if any.
	WipeVaultKey(id string)

	// Delete wipes the vault key and removes the session.
	Delete(id string)

	// PurgeExpired deletes sessions idle longer than maxIdle, wiping their
	// vault keys first. Returns the number of sessions removed.
	PurgeExpired(maxIdle time.Duration) int
}
