package service

import (
	"errors"
	"fmt"
)

// Password failures are deliberately generic: neither the login nor the
// vault path reveals whether the username exists or which check failed.
// Specific, actionable errors are reserved for configuration problems and
// lockout countdowns, where revealing detail is intentional.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")

	// ErrVaultNotConfigured signals incomplete account setup (missing key
	// envelope), not a wrong password.
	ErrVaultNotConfigured = errors.New("vault key is not configured for this account")

	// ErrVaultDecryptionFailed covers both a wrong vault password and a
	// tampered envelope. The two are indistinguishable on purpose.
	ErrVaultDecryptionFailed = errors.New("vault decryption failed")

	// ErrVaultLocked is returned by session-bound encryption when no vault
	// key is held. Calling the encrypt path while locked is a programming
	// error and fails loudly.
	ErrVaultLocked = errors.New("vault is locked")

	ErrInvalidTotpCode = errors.New("invalid verification code")
	ErrTotpNotEnabled  = errors.New("two-factor authentication is not enabled")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
)

// AccountLockedError carries the remaining lockout time. Matches
// [ErrAccountLocked] under [errors.Is].
type AccountLockedError struct {
	Minutes int
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked, try again in %d minute(s)", e.Minutes)
}

func (e *AccountLockedError) Is(target error) bool {
	return target == ErrAccountLocked
}

// AttemptsRemainingError is the below-threshold failure response of the
// shared lockout handler. Matches [ErrInvalidCredentials] under [errors.Is].
type AttemptsRemainingError struct {
	Remaining int
}

func (e *AttemptsRemainingError) Error() string {
	return fmt.Sprintf("invalid credentials, %d attempt(s) remaining", e.Remaining)
}

func (e *AttemptsRemainingError) Is(target error) bool {
	return target == ErrInvalidCredentials
}
