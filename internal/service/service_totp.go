package service

import (
	"context"
	"fmt"

	"github.com/opsbase/itvault/internal/config"
	"github.com/opsbase/itvault/internal/logger"
	"github.com/opsbase/itvault/internal/store"
	"github.com/opsbase/itvault/internal/totp"
	"github.com/opsbase/itvault/models"
)

// totpService is the concrete implementation of TotpService: second-factor
// enrolment and teardown. Code verification during login lives in
// AuthService; this service owns the secret lifecycle.
type totpService struct {
	userRepository store.UserRepository
	activity       ActivityLogger
	engine         *totp.Engine

	appKey []byte
	issuer string

	logger *logger.Logger
}

// NewTotpService constructs a TotpService wired to the given repository.
func NewTotpService(userRepository store.UserRepository, activity ActivityLogger, cfg config.App, log *logger.Logger) TotpService {
	return &totpService{
		userRepository: userRepository,
		activity:       activity,
		engine:         totp.NewEngine(),
		appKey:         []byte(cfg.Key),
		issuer:         cfg.TotpIssuer,
		logger:         log,
	}
}

// Setup generates a fresh secret and the otpauth provisioning URI for the
// account. Nothing is persisted: the secret only becomes effective once
// Enable confirms the user's authenticator produces matching codes.
func (t *totpService) Setup(ctx context.Context, userID int64) (TotpSetup, error) {
	log := logger.FromContext(ctx)

	user, err := t.userRepository.FindByID(ctx, userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("user search by id failed")
		return TotpSetup{}, fmt.Errorf("user search by id failed: %w", err)
	}

	secret, err := t.engine.GenerateSecret()
	if err != nil {
		return TotpSetup{}, fmt.Errorf("totp secret generation failed: %w", err)
	}

	return TotpSetup{
		Secret: secret,
		URI:    t.engine.BuildURI(secret, user.Username, t.issuer),
	}, nil
}

// Enable verifies the submitted code against the candidate secret and, only
// on success, persists the encrypted secret envelope and flips the enabled
// flag. A wrong code leaves the account untouched.
func (t *totpService) Enable(ctx context.Context, userID int64, secret, code string) error {
	log := logger.FromContext(ctx)

	if !t.engine.Verify(secret, code, totp.Window) {
		return ErrInvalidTotpCode
	}

	envelope, err := totp.EncryptSecret(secret, t.appKey)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("totp secret envelope encryption failed")
		return fmt.Errorf("totp secret envelope encryption failed: %w", err)
	}

	if err := t.userRepository.SetTotp(ctx, userID, envelope, true); err != nil {
		log.Err(err).Int64("user_id", userID).Msg("totp enable update failed")
		return fmt.Errorf("totp enable update failed: %w", err)
	}

	t.activity.Log(ctx, models.ActivityEntry{
		UserID:      &userID,
		Action:      models.ActionTotpEnabled,
		Description: "two-factor authentication enabled",
	})

	return nil
}

// Disable clears the stored secret envelope and the enabled flag.
func (t *totpService) Disable(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	if err := t.userRepository.SetTotp(ctx, userID, "", false); err != nil {
		log.Err(err).Int64("user_id", userID).Msg("totp disable update failed")
		return fmt.Errorf("totp disable update failed: %w", err)
	}

	t.activity.Log(ctx, models.ActivityEntry{
		UserID:      &userID,
		Action:      models.ActionTotpDisabled,
		Description: "two-factor authentication disabled",
	})

	return nil
}
