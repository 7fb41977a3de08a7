package http

import (
	"time"

	"github.com/opsbase/itvault/internal/config"
	"github.com/opsbase/itvault/internal/logger"
	"github.com/opsbase/itvault/internal/service"
	"github.com/opsbase/itvault/internal/store"
)

type Handler struct {
	services *service.Services
	sessions store.SessionStore
	activity store.ActivityRepository

	// sessionLifetime is the inactivity timeout enforced by the session
	// guard middleware.
	sessionLifetime time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, storages *store.Storages, cfg config.App, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:        services,
		sessions:        storages.SessionStore,
		activity:        storages.ActivityRepository,
		sessionLifetime: cfg.SessionLifetime,
		logger:          logger,
	}
}
