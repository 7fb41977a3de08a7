// Package utils provides general-purpose helper utilities used across
// different parts of the application: type-safe context keys, JWT session
// token generation and validation, and HTTP response helpers.
package utils

import (
	"context"

	"github.com/opsbase/itvault/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey is the key used to store the authenticated user identifier in
// the request context. Populated by the session middleware after the session
// token checks out.
var UserIDCtxKey = contextKey("userID")

// SessionCtxKey is the key used to store the resolved session record in the
// request context. Handlers read the session to check vault state without a
// second store lookup.
var SessionCtxKey = contextKey("session")

// GetUserIDFromContext retrieves the authenticated user identifier from the
// context. ok is false when the value is missing or has an unexpected type.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}

// GetSessionFromContext retrieves the session record placed into the context
// by the session middleware.
func GetSessionFromContext(ctx context.Context) (*models.Session, bool) {
	session, ok := ctx.Value(SessionCtxKey).(*models.Session)
	return session, ok
}
