package models

import "time"

// User represents an operator account of the asset-management application.
// Credential-related fields must never be exposed outside trusted
// boundaries; handler responses use [User.Public].
type User struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"-"`

	// Username is the unique login identifier.
	Username string `json:"username"`

	// Email is the account contact address. Non-sensitive.
	Email string `json:"email"`

	// Role is the coarse authorization role ("admin", "operator", ...).
	// Enforced by the CRUD layers, recorded here for session context.
	Role string `json:"role"`

	// PasswordHash is the Argon2id PHC hash of the login password.
	// Set at account creation; never readable back to plaintext.
	PasswordHash string `json:"-"`

	// VaultPasswordHash is the Argon2id PHC hash of the optional second
	// password that gates vault access. Empty for accounts without a
	// separate vault password; the vault-key envelope still requires the
	// correct password as KDF input regardless.
	VaultPasswordHash string `json:"-"`

	// VaultKeyEncrypted is the opaque vault-key envelope:
	// base64( salt(16) ‖ iv(12) ‖ tag(16) ‖ ciphertext(32) ).
	// Produced once at account setup; this core only ever decrypts it.
	VaultKeyEncrypted string `json:"-"`

	// TotpSecret is the opaque TOTP-secret envelope:
	// base64( iv(12) ‖ tag(16) ‖ ciphertext ), keyed by the application key.
	TotpSecret string `json:"-"`

	// TotpEnabled gates second-factor verification at login.
	TotpEnabled bool `json:"totp_enabled"`

	// FailedAttempts counts consecutive failed password verifications,
	// shared between the login and vault-unlock paths.
	FailedAttempts int `json:"-"`

	// LockedUntil is non-nil while the account is locked out.
	LockedUntil *time.Time `json:"-"`

	// LastLoginIP and LastLoginAt record the most recent successful login.
	LastLoginIP string     `json:"-"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	// CreatedAt is the account creation timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// IsLocked reports whether the account is locked out at the given instant.
func (u User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// LockMinutesRemaining returns the lockout countdown in whole minutes,
// rounded up, or 0 when the account is not locked. Revealing the wait time
// is intentional UX, not a leak.
func (u User) LockMinutesRemaining(now time.Time) int {
	if !u.IsLocked(now) {
		return 0
	}

	seconds := int(u.LockedUntil.Sub(now).Seconds())
	return (seconds + 59) / 60
}

// PublicUser is the subset of account fields safe to return to callers after
// authentication. It never carries hashes, envelopes or lockout state.
type PublicUser struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Public returns the caller-safe view of the user.
func (u User) Public() PublicUser {
	return PublicUser{
		UserID:   u.UserID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
