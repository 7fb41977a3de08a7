package service

import (
	"github.com/opsbase/itvault/internal/config"
	"github.com/opsbase/itvault/internal/logger"
	"github.com/opsbase/itvault/internal/store"
)

// Services aggregates the application's service layer. extraSinks lets main
// attach optional activity sinks (e.g. the audit webhook forwarder) next to
// the always-present SQL sink.
type Services struct {
	ActivityLogger    ActivityLogger
	AuthService       AuthService
	EncryptionService EncryptionService
	TotpService       TotpService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, log *logger.Logger, extraSinks ...ActivitySink) *Services {
	sinks := append([]ActivitySink{storages.ActivityRepository}, extraSinks...)
	activity := NewActivityLogger(log, sinks...)

	return &Services{
		ActivityLogger:    activity,
		AuthService:       NewAuthService(storages.UserRepository, activity, cfg.App, log),
		EncryptionService: NewEncryptionService(log),
		TotpService:       NewTotpService(storages.UserRepository, activity, cfg.App, log),
	}
}
