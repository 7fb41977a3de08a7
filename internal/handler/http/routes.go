package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without a session
	router.Post("/api/auth/login", h.login)

	// routes reachable while the second factor is still outstanding
	router.Group(func(r chi.Router) {
		r.Use(h.sessionGuard(true))
		r.Post("/api/auth/totp", h.verifyTotp)
		r.Post("/api/auth/logout", h.logout)
	})

	// fully authenticated routes
	router.Group(func(r chi.Router) {
		r.Use(h.sessionGuard(false))
		r.Post("/api/vault/unlock", h.unlockVault)
		r.Post("/api/vault/lock", h.lockVault)
		r.Post("/api/vault/reveal", h.revealField)
		r.Post("/api/vault/seal", h.sealField)

		r.Get("/api/totp/setup", h.totpSetup)
		r.Post("/api/totp/enable", h.totpEnable)
		r.Post("/api/totp/disable", h.totpDisable)

		r.Get("/api/activity", h.listActivity)
	})

	return router
}
