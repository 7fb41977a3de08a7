// Package http implements the HTTP transport layer of the application.
// It provides middleware, route handlers, and request/response utilities for
// the REST API. Session enforcement, inactivity timeout, logging and tracing
// are all handled at this layer before requests reach the service layer.
package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/opsbase/itvault/internal/logger"
	"github.com/opsbase/itvault/internal/utils"
)

// sessionGuard enforces the session lifecycle on every protected route.
//
// It extracts the bearer token, validates it, resolves the server-side
// session, and applies the inactivity timeout: a session idle longer than
// the configured lifetime is destroyed — wiping any held vault key first —
// and the request is rejected with a timeout reason. Live sessions get their
// activity stamp refreshed and the user ID and session injected into the
// request context.
//
// allowPending admits sessions whose second factor is still outstanding;
// only the TOTP-verification and logout routes use it. Everything else
// requires a fully authenticated session.
func (h *Handler) sessionGuard(allowPending bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromRequest(r)

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Err(ErrEmptyAuthorizationHeader).Send()
				http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
				return
			}

			tokenString, err := getTokenFromAuthHeader(authHeader)
			if err != nil {
				log.Err(err).Send()
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := r.Context()
			token, err := h.services.AuthService.ParseSessionToken(ctx, tokenString)
			if err != nil {
				log.Err(err).Msg("error occurred during parsing session token")
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			session, ok := h.sessions.Get(token.SessionID)
			if !ok {
				log.Debug().Str("session_id", token.SessionID).Msg("unknown session")
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			if time.Since(session.LastActivity) > h.sessionLifetime {
				// Timeout transition: the vault key is zeroed before the
				// session record is dropped.
				h.sessions.Delete(session.ID)
				log.Debug().Str("session_id", session.ID).Msg("session expired by inactivity")
				http.Error(w, "session expired: timeout", http.StatusUnauthorized)
				return
			}

			if session.TotpPending && !allowPending {
				log.Debug().Str("session_id", session.ID).Msg("session pending second factor")
				http.Error(w, "two-factor verification required", http.StatusUnauthorized)
				return
			}

			h.sessions.Touch(session.ID)

			ctx = context.WithValue(ctx, utils.UserIDCtxKey, session.UserID)
			ctx = context.WithValue(ctx, utils.SessionCtxKey, session)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// getTokenFromAuthHeader extracts the bearer token string from a raw
// "Authorization" HTTP header value of the standard form
// "Authorization: <scheme> <token>".
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}
