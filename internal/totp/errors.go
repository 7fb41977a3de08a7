package totp

import "errors"

var (
	// ErrInvalidBase32 is returned when a secret contains characters outside
	// the RFC 4648 alphabet.
	ErrInvalidBase32 = errors.New("invalid base32 secret")

	// ErrInvalidCode is returned when a submitted code is not exactly six
	// decimal digits. No HMAC is ever computed for such input.
	ErrInvalidCode = errors.New("invalid totp code")
)
