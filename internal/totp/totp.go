// Package totp is a from-scratch RFC 4226/6238 one-time-password engine:
// secret generation, base32 codec, HOTP computation, time-window
// verification, otpauth URI construction and envelope encryption of stored
// secrets.
//
// The stored-secret envelope is keyed by a key derived from the application
// key, not from any user's vault key. This is deliberate: the second factor
// must be verifiable during login, before the vault is ever unlocked. The
// flip side, documented here on purpose, is that compromise of the
// application key alone discloses every enrolled TOTP secret.
package totp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"io"
	"net/url"
	"time"
)

// RFC 6238 parameters shared with common authenticator apps. Changing any of
// them breaks every enrolled device.
const (
	Digits     = 6
	Period     = 30 // seconds
	SecretSize = 20 // bytes, 160 bits
	Window     = 1  // accepted clock skew in steps, each direction
)

// envelopeInfo is the HMAC message used to derive the secret-envelope key
// from the application key.
const envelopeInfo = "totp-secret-v1"

// Engine generates and verifies time-based one-time passwords. The zero
// value is not usable; construct with [NewEngine].
type Engine struct {
	// now is the clock used for time-step computation. Overridable in tests.
	now func() time.Time
}

// NewEngine returns an Engine using the system clock.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// GenerateSecret returns a fresh 20-byte random secret, base32-encoded
// without padding (32 characters), the form authenticator apps accept.
func (e *Engine) GenerateSecret() (string, error) {
	secret := make([]byte, SecretSize)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return "", err
	}

	// 20 bytes is a multiple of 5, so the encoding is padding-free.
	return EncodeBase32(secret), nil
}

// HOTP computes the RFC 4226 code for key and counter: HMAC-SHA1 over the
// 8-byte big-endian counter, dynamic truncation, six decimal digits.
func HOTP(key []byte, counter uint64) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, key)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	// Dynamic truncation: the low nibble of the last byte selects a 4-byte
	// window; the top bit of that window is masked off.
	offset := sum[len(sum)-1] & 0x0F
	code := uint32(sum[offset]&0x7F)<<24 |
		uint32(sum[offset+1])<<16 |
		uint32(sum[offset+2])<<8 |
		uint32(sum[offset+3])

	return fmt.Sprintf("%06d", code%1_000_000)
}

// Verify reports whether code is valid for secret at the current time,
// accepting up to window steps of clock skew in each direction.
//
// Malformed codes (wrong length, non-digits) and undecodable secrets are
// rejected before any HMAC is computed. Each candidate comparison is
// constant-time.
func (e *Engine) Verify(secret, code string, window int) bool {
	if !isSixDigits(code) {
		return false
	}

	key, err := DecodeBase32(secret)
	if err != nil {
		return false
	}

	step := e.now().Unix() / Period

	for offset := -window; offset <= window; offset++ {
		counter := step + int64(offset)
		if counter < 0 {
			continue
		}

		candidate := HOTP(key, uint64(counter))
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(code)) == 1 {
			return true
		}
	}

	return false
}

// BuildURI constructs the otpauth provisioning URI encoded into enrollment
// QR codes:
//
//	otpauth://totp/{issuer}:{account}?secret={s}&issuer={issuer}&algorithm=SHA1&digits=6&period=30
//
// Issuer and account are URL-escaped; the remaining parameters are fixed to
// the values common authenticator apps expect.
func (e *Engine) BuildURI(secret, account, issuer string) string {
	return fmt.Sprintf("otpauth://totp/%s:%s?secret=%s&issuer=%s&algorithm=SHA1&digits=%d&period=%d",
		url.PathEscape(issuer),
		url.PathEscape(account),
		secret,
		url.QueryEscape(issuer),
		Digits,
		Period,
	)
}

// DeriveEnvelopeKey derives the 32-byte secret-envelope key from the
// application key: HMAC-SHA256 keyed by appKey over a fixed info string.
// Application-wide by design — see the package comment for the trade-off.
func DeriveEnvelopeKey(appKey []byte) []byte {
	mac := hmac.New(sha256.New, appKey)
	mac.Write([]byte(envelopeInfo))
	return mac.Sum(nil)
}

func isSixDigits(code string) bool {
	if len(code) != Digits {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
