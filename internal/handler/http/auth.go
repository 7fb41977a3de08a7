package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/opsbase/itvault/internal/logger"
	"github.com/opsbase/itvault/internal/service"
	"github.com/opsbase/itvault/internal/utils"
	"github.com/opsbase/itvault/models"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token        string            `json:"token"`
	ExpiresAt    string            `json:"expires_at"`
	User         models.PublicUser `json:"user"`
	TotpRequired bool              `json:"totp_required"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	result, err := h.services.AuthService.Attempt(ctx, req.Username, req.Password, utils.ClientIP(r), r.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountLocked):
			log.Debug().Str("username", req.Username).Msg("login attempt on locked account")
			http.Error(w, err.Error(), http.StatusLocked)
			return
		case errors.Is(err, service.ErrInvalidCredentials):
			// The message is either generic or carries the attempts-remaining
			// count; both are safe to surface.
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during login")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	session := h.sessions.Create(result.User.UserID, result.TotpRequired)

	token, err := h.services.AuthService.CreateSessionToken(ctx, session.ID)
	if err != nil {
		h.sessions.Delete(session.ID)
		log.Err(err).Msg("creation of session token failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, loginResponse{
		Token:        token.SignedString,
		ExpiresAt:    token.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		User:         result.User,
		TotpRequired: result.TotpRequired,
	}, http.StatusOK)
}

type verifyTotpRequest struct {
	Code string `json:"code"`
}

func (h *Handler) verifyTotp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	session, ok := utils.GetSessionFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	if !session.TotpPending {
		http.Error(w, "no pending two-factor verification", http.StatusBadRequest)
		return
	}

	var req verifyTotpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	user, err := h.services.AuthService.VerifyTotp(ctx, session.UserID, req.Code, utils.ClientIP(r), r.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountLocked):
			http.Error(w, err.Error(), http.StatusLocked)
			return
		case errors.Is(err, service.ErrInvalidCredentials):
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		case errors.Is(err, service.ErrTotpNotEnabled):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during totp verification")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	h.sessions.ClearTotpPending(session.ID)

	utils.WriteJSON(w, map[string]any{"user": user}, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, ok := utils.GetSessionFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	// Delete wipes any held vault key before dropping the record.
	h.sessions.Delete(session.ID)

	h.services.ActivityLogger.Log(ctx, models.ActivityEntry{
		UserID:      &session.UserID,
		Action:      models.ActionLogout,
		Description: "user logged out",
		IP:          utils.ClientIP(r),
		UserAgent:   r.UserAgent(),
	})

	w.WriteHeader(http.StatusNoContent)
}
