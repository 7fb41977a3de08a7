package service

import (
	"context"

	"github.com/opsbase/itvault/models"
)

// ActivitySink receives activity-log entries. Both the SQL repository and the
// webhook forwarder satisfy this contract.
type ActivitySink interface {
	Record(ctx context.Context, entry models.ActivityEntry) error
}

// ActivityLogger fans activity entries out to every configured sink.
// Logging is fire-and-forget: sink failures are swallowed and never surface
// to the caller, so an unreachable audit backend cannot interrupt the auth
// flow.
type ActivityLogger interface {
	Log(ctx context.Context, entry models.ActivityEntry)
}

// AttemptResult is the outcome of a successful password verification. When
// TotpRequired is set the login is not complete: the caller must hold the
// session in the pending state until the second factor checks out.
type AttemptResult struct {
	User         models.PublicUser
	TotpRequired bool
}

type AuthService interface {
	// Attempt runs the password leg of the login flow: lookup with dummy-hash
	// timing equalization, lockout check, password verify, shared failure
	// handling.
	Attempt(ctx context.Context, username, loginPassword, ip, userAgent string) (AttemptResult, error)

	// VerifyTotp runs the second factor for a pending login. Invalid codes
	// route through the same lockout policy as wrong passwords.
	VerifyTotp(ctx context.Context, userID int64, code, ip, userAgent string) (models.PublicUser, error)

	// UnlockVault verifies the vault password and decrypts the account's key
	// envelope, returning the raw 32-byte vault key. The caller stores it
	// only in volatile session state.
	UnlockVault(ctx context.Context, userID int64, vaultPassword, ip, userAgent string) ([]byte, error)

	// CreateSessionToken issues a signed token carrying the session ID.
	CreateSessionToken(ctx context.Context, sessionID string) (models.Token, error)

	// ParseSessionToken validates a raw token string and extracts the session
	// ID. Any validation failure is normalised to
	// [ErrTokenIsExpiredOrInvalid].
	ParseSessionToken(ctx context.Context, tokenString string) (models.Token, error)
}

type EncryptionService interface {
	// Encrypt seals plaintext under an explicit 32-byte key.
	Encrypt(plaintext, key []byte) (string, error)

	// Decrypt opens ciphertext sealed by Encrypt. Wrong key and tampered
	// data are indistinguishable.
	Decrypt(ciphertext string, key []byte) ([]byte, error)

	// EncryptField seals a credential field under the session's vault key.
	// Fails with [ErrVaultLocked] when no key is held.
	EncryptField(session *models.Session, plaintext string) (string, error)

	// DecryptField opens a credential field under the session's vault key.
	DecryptField(session *models.Session, ciphertext string) (string, error)

	// DecryptOrMask is the soft-failing variant for display paths: any
	// failure, including a locked vault, yields the caller-supplied mask.
	DecryptOrMask(session *models.Session, ciphertext, mask string) string
}

// TotpSetup is a freshly generated second-factor enrolment: the base32
// secret plus the otpauth URI the frontend renders as a QR code. The secret
// is not persisted until Enable confirms the user's authenticator produces
// matching codes.
type TotpSetup struct {
	Secret string `json:"secret"`
	URI    string `json:"uri"`
}

type TotpService interface {
	// Setup generates a new secret and provisioning URI for the given
	// account. Nothing is persisted.
	Setup(ctx context.Context, userID int64) (TotpSetup, error)

	// Enable verifies code against secret and, only on success, stores the
	// encrypted secret envelope and flips the enabled flag.
	Enable(ctx context.Context, userID int64, secret, code string) error

	// Disable clears the stored secret and the enabled flag.
	Disable(ctx context.Context, userID int64) error
}
