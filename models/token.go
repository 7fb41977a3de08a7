package models

import "time"

// Token is a signed session token handed to the browser after login. The
// JWT carries only the opaque session ID; all session state, including the
// unlocked vault key, stays server-side.
type Token struct {
	// SignedString is the compact JWT form sent to the client.
	SignedString string `json:"token"`

	// SessionID is the session identifier embedded as the "sub" claim.
	SessionID string `json:"-"`

	// ExpiresAt mirrors the "exp" claim.
	ExpiresAt time.Time `json:"expires_at"`
}
