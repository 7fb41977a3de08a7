package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/opsbase/itvault/internal/logger"
	"github.com/opsbase/itvault/internal/service"
	"github.com/opsbase/itvault/internal/utils"
)

func (h *Handler) totpSetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	setup, err := h.services.TotpService.Setup(ctx, userID)
	if err != nil {
		log.Err(err).Msg("unexpected error occurred during totp setup")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, setup, http.StatusOK)
}

type totpEnableRequest struct {
	Secret string `json:"secret"`
	Code   string `json:"code"`
}

func (h *Handler) totpEnable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req totpEnableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.TotpService.Enable(ctx, userID, req.Secret, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTotpCode):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during totp enable")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	utils.WriteJSON(w, map[string]string{"totp": "enabled"}, http.StatusOK)
}

func (h *Handler) totpDisable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := h.services.TotpService.Disable(ctx, userID); err != nil {
		log.Err(err).Msg("unexpected error occurred during totp disable")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]string{"totp": "disabled"}, http.StatusOK)
}
