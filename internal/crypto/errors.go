package crypto

import "errors"

// Sentinel errors returned by the cryptographic primitives. Callers should
// match against these values with [errors.Is].
//
// All decryption failures collapse to a single value on purpose: a wrong key,
// a wrong password and tampered ciphertext must be indistinguishable to an
// external observer.
var (
	// ErrInvalidKeyLength is returned when a key passed to an AES-256-GCM
	// operation is not exactly 32 bytes long.
	ErrInvalidKeyLength = errors.New("key must be 32 bytes")

	// ErrMalformedCiphertext is returned when an encoded blob cannot be
	// base64-decoded or is too short to contain the declared framing.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")

	// ErrDecryptionFailed is returned on any authentication-tag mismatch.
	// It never distinguishes a wrong key from corrupted data.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidHash is returned when an encoded password hash cannot be
	// parsed as a PHC argon2id string.
	ErrInvalidHash = errors.New("invalid password hash format")
)
