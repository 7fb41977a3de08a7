package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"
)

// Vault-key envelope layout: base64( salt(16) ‖ iv(12) ‖ tag(16) ‖ ct(32) ).
// The ciphertext is exactly the 32-byte raw vault key, so a well-formed
// envelope decodes to at least 76 bytes. Note the framing deliberately
// differs from the field format (salt first, and present at all): the
// envelope key is derived from a password, fields are keyed directly.
const (
	envelopeSaltSize = 16
	envelopeMinSize  = envelopeSaltSize + ivSize + tagSize + KeySize
)

// WrapVaultKey encrypts the raw 32-byte vault key under a key derived from
// password and returns the stored envelope form. It is used once at account
// setup; the steady-state core only ever unwraps.
func WrapVaultKey(vaultKey []byte, password string) (string, error) {
	if len(vaultKey) != KeySize {
		return "", ErrInvalidKeyLength
	}

	salt := make([]byte, envelopeSaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	kek := DeriveKey(password, salt)

	gcm, err := newGCM(kek)
	if err != nil {
		return "", err
	}

	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nil, iv, vaultKey, nil)
	ct, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	blob := make([]byte, 0, envelopeMinSize)
	blob = append(blob, salt...)
	blob = append(blob, iv...)
	blob = append(blob, tag...)
	blob = append(blob, ct...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// UnwrapVaultKey decrypts a vault-key envelope with the supplied password and
// returns the raw 32-byte vault key.
//
// Every failure mode — bad base64, short blob, authentication-tag mismatch —
// collapses to [ErrDecryptionFailed] so that no external observer can learn
// which check rejected the input.
func UnwrapVaultKey(encoded, password string) ([]byte, error) {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	if len(blob) < envelopeMinSize {
		return nil, ErrDecryptionFailed
	}

	salt := blob[:envelopeSaltSize]
	iv := blob[envelopeSaltSize : envelopeSaltSize+ivSize]
	tag := blob[envelopeSaltSize+ivSize : envelopeSaltSize+ivSize+tagSize]
	ct := blob[envelopeSaltSize+ivSize+tagSize:]

	kek := DeriveKey(password, salt)

	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	sealed := make([]byte, 0, len(ct)+tagSize)
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)

	vaultKey, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return vaultKey, nil
}
