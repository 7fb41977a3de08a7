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

type unlockVaultRequest struct {
	VaultPassword string `json:"vault_password"`
}

func (h *Handler) unlockVault(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	session, ok := utils.GetSessionFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req unlockVaultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	vaultKey, err := h.services.AuthService.UnlockVault(ctx, session.UserID, req.VaultPassword, utils.ClientIP(r), r.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountLocked):
			http.Error(w, err.Error(), http.StatusLocked)
			return
		case errors.Is(err, service.ErrInvalidCredentials):
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		case errors.Is(err, service.ErrVaultNotConfigured):
			// Setup problem, not a wrong password. Actionable on purpose.
			http.Error(w, err.Error(), http.StatusConflict)
			return
		case errors.Is(err, service.ErrVaultDecryptionFailed):
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during vault unlock")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	err = h.sessions.SetVaultKey(session.ID, vaultKey)

	// The session store holds its own copy; drop the local one right away.
	for i := range vaultKey {
		vaultKey[i] = 0
	}

	if err != nil {
		log.Err(err).Msg("storing vault key in session failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]string{"vault": "unlocked"}, http.StatusOK)
}

func (h *Handler) lockVault(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, ok := utils.GetSessionFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	h.sessions.WipeVaultKey(session.ID)

	h.services.ActivityLogger.Log(ctx, models.ActivityEntry{
		UserID:      &session.UserID,
		Action:      models.ActionVaultLocked,
		Description: "vault locked",
		IP:          utils.ClientIP(r),
		UserAgent:   r.UserAgent(),
	})

	utils.WriteJSON(w, map[string]string{"vault": "locked"}, http.StatusOK)
}

type revealFieldRequest struct {
	Ciphertext string `json:"ciphertext"`
	Mask       string `json:"mask"`
}

const defaultMask = "••••••••"

// revealField decrypts a single credential field for display. Failures —
// locked vault, tampered ciphertext, wrong session — all degrade to the
// mask; the endpoint never errors on vault state.
func (h *Handler) revealField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	session, ok := utils.GetSessionFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req revealFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	mask := req.Mask
	if mask == "" {
		mask = defaultMask
	}

	value := h.services.EncryptionService.DecryptOrMask(session, req.Ciphertext, mask)

	utils.WriteJSON(w, map[string]string{"value": value}, http.StatusOK)
}

type sealFieldRequest struct {
	Plaintext string `json:"plaintext"`
}

func (h *Handler) sealField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	session, ok := utils.GetSessionFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req sealFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	ciphertext, err := h.services.EncryptionService.EncryptField(session, req.Plaintext)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVaultLocked):
			http.Error(w, err.Error(), http.StatusConflict)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during field encryption")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	utils.WriteJSON(w, map[string]string{"ciphertext": ciphertext}, http.StatusOK)
}
