package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrNoUserWasFound is returned when a query expected to match exactly
	// one user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrUsernameAlreadyExists is returned when account provisioning fails
	// because the username is already taken.
	ErrUsernameAlreadyExists = errors.New("username already exists")

	// ErrNoSessionWasFound is returned by session-store operations that
	// target an unknown session id.
	ErrNoSessionWasFound = errors.New("no session was found")

	// ErrUnsupportedDSN is returned when the storage DSN matches neither a
	// PostgreSQL URI nor a SQLite file path.
	ErrUnsupportedDSN = errors.New("unsupported database DSN")
)
