package service

import (
	"context"
	"fmt"
	"time"

	"github.com/opsbase/itvault/internal/config"
	"github.com/opsbase/itvault/internal/crypto"
	"github.com/opsbase/itvault/internal/logger"
	"github.com/opsbase/itvault/internal/store"
	"github.com/opsbase/itvault/internal/totp"
	"github.com/opsbase/itvault/internal/utils"
	"github.com/opsbase/itvault/models"
)

// authService is the concrete implementation of AuthService. It owns the
// login and vault-unlock flows, the shared lockout policy, and the session
// token lifecycle.
//
// Both password paths (login and vault unlock) converge on
// handleFailedAttempt so that an attacker cannot bypass lockout by switching
// which password they brute-force.
type authService struct {
	userRepository store.UserRepository
	activity       ActivityLogger
	hasher         crypto.PasswordHasher
	totpEngine     *totp.Engine

	// appKey derives the TOTP envelope key. Application-wide, independent of
	// any user's vault key, so second-factor checks work before the vault is
	// ever unlocked.
	appKey []byte

	// dummyHash is the precomputed password hash verified against on unknown
	// usernames to equalize response latency. Injected via config so tests
	// can substitute a cheaper hash.
	dummyHash string

	lockoutThreshold int
	lockoutDuration  time.Duration

	tokenSignKey  string
	tokenIssuer   string
	tokenLifetime time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an AuthService wired to the given repository and
// populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(userRepository store.UserRepository, activity ActivityLogger, cfg config.App, log *logger.Logger) AuthService {
	dummyHash := cfg.DummyPasswordHash
	if dummyHash == "" {
		dummyHash = crypto.DummyHash
	}

	return &authService{
		userRepository:   userRepository,
		activity:         activity,
		hasher:           crypto.NewPasswordHasher(),
		totpEngine:       totp.NewEngine(),
		appKey:           []byte(cfg.Key),
		dummyHash:        dummyHash,
		lockoutThreshold: cfg.LockoutThreshold,
		lockoutDuration:  cfg.LockoutDuration,
		tokenSignKey:     cfg.SessionSignKey,
		tokenIssuer:      cfg.SessionIssuer,
		tokenLifetime:    cfg.SessionLifetime,
		logger:           log,
	}
}

// Attempt runs the password leg of the login flow.
//
// Unknown usernames still pay for a full password verification against the
// dummy hash, so response latency does not reveal whether the account
// exists. Both the unknown-username and wrong-password outcomes surface as
// [ErrInvalidCredentials].
func (a *authService) Attempt(ctx context.Context, username, loginPassword, ip, userAgent string) (AttemptResult, error) {
	log := logger.FromContext(ctx)

	user, err := a.userRepository.FindByUsername(ctx, username)
	if err != nil {
		// Unknown username: burn the same hashing cost as a real
		// verification before answering.
		a.hasher.Verify(loginPassword, a.dummyHash)

		a.activity.Log(ctx, models.ActivityEntry{
			Action:      models.ActionLoginFailed,
			Description: "unknown username",
			IP:          ip,
			UserAgent:   userAgent,
		})

		log.Debug().Str("func", "*authService.Attempt").Msg("login attempt for unknown username")
		return AttemptResult{}, ErrInvalidCredentials
	}

	if lockErr := a.checkLockout(ctx, user, ip, userAgent); lockErr != nil {
		return AttemptResult{}, lockErr
	}

	if !a.hasher.Verify(loginPassword, user.PasswordHash) {
		return AttemptResult{}, a.handleFailedAttempt(ctx, user, "wrong login password", ip, userAgent)
	}

	if user.TotpEnabled {
		// Password accepted but the login is not complete: the counter reset
		// and the login entry wait for the second factor.
		return AttemptResult{User: user.Public(), TotpRequired: true}, nil
	}

	a.completeLogin(ctx, user, ip, userAgent)

	return AttemptResult{User: user.Public()}, nil
}

// VerifyTotp runs the second factor for a pending login. The stored secret
// envelope is decrypted with the application key, so this works while the
// vault is still locked. Invalid codes route through the shared lockout
// handler exactly like wrong passwords.
func (a *authService) VerifyTotp(ctx context.Context, userID int64, code, ip, userAgent string) (models.PublicUser, error) {
	log := logger.FromContext(ctx)

	user, err := a.userRepository.FindByID(ctx, userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("user search by id failed")
		return models.PublicUser{}, fmt.Errorf("user search by id failed: %w", err)
	}

	if lockErr := a.checkLockout(ctx, user, ip, userAgent); lockErr != nil {
		return models.PublicUser{}, lockErr
	}

	if !user.TotpEnabled || user.TotpSecret == "" {
		return models.PublicUser{}, ErrTotpNotEnabled
	}

	secret, err := totp.DecryptSecret(user.TotpSecret, a.appKey)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("totp secret envelope decryption failed")
		return models.PublicUser{}, fmt.Errorf("totp secret envelope decryption failed: %w", err)
	}

	if !a.totpEngine.Verify(secret, code, totp.Window) {
		return models.PublicUser{}, a.handleFailedAttempt(ctx, user, "wrong verification code", ip, userAgent)
	}

	a.completeLogin(ctx, user, ip, userAgent)

	return user.Public(), nil
}

// UnlockVault verifies the vault password and decrypts the account's key
// envelope.
//
// A missing envelope is a setup problem and surfaces as
// [ErrVaultNotConfigured]; a failed decryption surfaces as
// [ErrVaultDecryptionFailed] whether the password was wrong or the envelope
// was tampered with. Accounts without a stored vault password hash skip that
// verification, but decryption still requires the correct password.
func (a *authService) UnlockVault(ctx context.Context, userID int64, vaultPassword, ip, userAgent string) ([]byte, error) {
	log := logger.FromContext(ctx)

	user, err := a.userRepository.FindByID(ctx, userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("user search by id failed")
		return nil, fmt.Errorf("user search by id failed: %w", err)
	}

	if lockErr := a.checkLockout(ctx, user, ip, userAgent); lockErr != nil {
		return nil, lockErr
	}

	if user.VaultPasswordHash != "" && !a.hasher.Verify(vaultPassword, user.VaultPasswordHash) {
		return nil, a.handleFailedAttempt(ctx, user, "wrong vault password", ip, userAgent)
	}

	if user.VaultKeyEncrypted == "" {
		return nil, ErrVaultNotConfigured
	}

	vaultKey, err := crypto.UnwrapVaultKey(user.VaultKeyEncrypted, vaultPassword)
	if err != nil {
		log.Debug().Int64("user_id", userID).Msg("vault key envelope decryption failed")
		return nil, ErrVaultDecryptionFailed
	}

	a.activity.Log(ctx, models.ActivityEntry{
		UserID:      &user.UserID,
		Action:      models.ActionVaultUnlocked,
		Description: "vault unlocked",
		IP:          ip,
		UserAgent:   userAgent,
	})

	return vaultKey, nil
}

// CreateSessionToken issues a signed token carrying the session ID as its
// subject.
func (a *authService) CreateSessionToken(ctx context.Context, sessionID string) (models.Token, error) {
	token, err := utils.GenerateSessionToken(a.tokenIssuer, sessionID, a.tokenLifetime, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseSessionToken validates a raw token string. Any validation failure
// (expired, wrong issuer, malformed, bad signature) is normalised to
// [ErrTokenIsExpiredOrInvalid] so callers never inspect low-level JWT
// errors.
func (a *authService) ParseSessionToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseSessionToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

// checkLockout returns an [AccountLockedError] while locked_until is in the
// future, logging a login_blocked entry.
func (a *authService) checkLockout(ctx context.Context, user models.User, ip, userAgent string) error {
	now := time.Now()
	if !user.IsLocked(now) {
		return nil
	}

	minutes := user.LockMinutesRemaining(now)

	a.activity.Log(ctx, models.ActivityEntry{
		UserID:      &user.UserID,
		Action:      models.ActionLoginBlocked,
		Description: fmt.Sprintf("attempt while locked, %d minute(s) remaining", minutes),
		IP:          ip,
		UserAgent:   userAgent,
	})

	return &AccountLockedError{Minutes: minutes}
}

// handleFailedAttempt is the single point of truth for lockout policy. It
// atomically advances the shared failure counter; reaching the threshold
// locks the account for the configured cool-down.
func (a *authService) handleFailedAttempt(ctx context.Context, user models.User, reason, ip, userAgent string) error {
	log := logger.FromContext(ctx)

	attempts, err := a.userRepository.IncrementFailedAttempts(ctx, user.UserID)
	if err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("failed-attempt counter update failed")
		return fmt.Errorf("failed-attempt counter update failed: %w", err)
	}

	a.activity.Log(ctx, models.ActivityEntry{
		UserID:      &user.UserID,
		Action:      models.ActionLoginFailed,
		Description: reason,
		IP:          ip,
		UserAgent:   userAgent,
	})

	if attempts >= a.lockoutThreshold {
		until := time.Now().Add(a.lockoutDuration)
		if err := a.userRepository.Lock(ctx, user.UserID, until); err != nil {
			log.Err(err).Int64("user_id", user.UserID).Msg("account lock update failed")
			return fmt.Errorf("account lock update failed: %w", err)
		}

		minutes := int((a.lockoutDuration + time.Minute - time.Nanosecond) / time.Minute)

		a.activity.Log(ctx, models.ActivityEntry{
			UserID:      &user.UserID,
			Action:      models.ActionAccountLocked,
			Description: fmt.Sprintf("locked after %d failed attempts", attempts),
			IP:          ip,
			UserAgent:   userAgent,
		})

		return &AccountLockedError{Minutes: minutes}
	}

	return &AttemptsRemainingError{Remaining: a.lockoutThreshold - attempts}
}

// completeLogin resets the lockout state, stamps the login and writes the
// login activity entry.
func (a *authService) completeLogin(ctx context.Context, user models.User, ip, userAgent string) {
	log := logger.FromContext(ctx)

	if err := a.userRepository.RecordSuccess(ctx, user.UserID, ip); err != nil {
		// The login itself succeeded; a failed bookkeeping update is logged
		// and ignored.
		log.Err(err).Int64("user_id", user.UserID).Msg("login bookkeeping update failed")
	}

	a.activity.Log(ctx, models.ActivityEntry{
		UserID:      &user.UserID,
		Action:      models.ActionLogin,
		Description: "user logged in",
		IP:          ip,
		UserAgent:   userAgent,
	})
}
