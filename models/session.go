package models

import (
	"time"

	"github.com/opsbase/itvault/internal/crypto"
)

// Session is the ephemeral server-side state of an authenticated browser
// session. It lives only in the session store, never in durable storage.
type Session struct {
	// ID is the opaque session identifier (UUID) carried by the signed
	// session token.
	ID string

	// UserID is the authenticated account.
	UserID int64

	// TotpPending is true between a successful password check and a
	// successful second-factor check. A pending session may only call the
	// TOTP verification endpoint.
	TotpPending bool

	// LastActivity is refreshed on every authenticated request and drives
	// the inactivity timeout.
	LastActivity time.Time

	// VaultKey holds the unlocked 32-byte vault key, nil while the vault is
	// locked. Whenever it is non-nil it was derived from a verified
	// vault-password check in this session; it is wiped in place on lock,
	// logout and timeout.
	VaultKey *crypto.KeyBuffer
}

// VaultUnlocked reports whether the session currently holds a vault key.
func (s *Session) VaultUnlocked() bool {
	return s != nil && s.VaultKey != nil && s.VaultKey.Bytes() != nil
}
