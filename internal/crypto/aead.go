package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"
)

// Sizes of the AES-256-GCM framing components. Every encrypted artifact in
// the system (credential fields, TOTP secrets, the vault-key envelope) uses
// the same primitive with explicit iv‖tag‖ciphertext framing, Base64
// (standard encoding) on the wire.
const (
	KeySize = 32
	ivSize  = 12
	tagSize = 16

	// minSealedSize is the smallest decodable field blob: iv, tag and at
	// least one ciphertext byte.
	minSealedSize = ivSize + tagSize + 1
)

// Seal encrypts plaintext with key using AES-256-GCM and returns the blob
// base64(iv ‖ tag ‖ ciphertext). A fresh random 12-byte IV is generated per
// call and never reused.
//
// Returns [ErrInvalidKeyLength] if key is not exactly 32 bytes.
func Seal(plaintext, key []byte) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	// gcm.Seal appends the tag after the ciphertext; the stored framing
	// puts the tag first, so split and reorder.
	sealed := gcm.Seal(nil, iv, plaintext, nil)
	ct, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	blob := make([]byte, 0, ivSize+tagSize+len(ct))
	blob = append(blob, iv...)
	blob = append(blob, tag...)
	blob = append(blob, ct...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Open decrypts a blob produced by [Seal]. It rejects keys that are not 32
// bytes and blobs shorter than 29 decoded bytes before touching the cipher.
//
// Any authentication failure returns [ErrDecryptionFailed]; a wrong key and
// tampered data are indistinguishable to the caller.
func Open(encoded string, key []byte) ([]byte, error) {
	return open(encoded, key, minSealedSize)
}

// OpenAllowEmpty behaves like [Open] but accepts a blob whose ciphertext part
// is empty (28 decoded bytes). The TOTP secret envelope permits this form.
func OpenAllowEmpty(encoded string, key []byte) ([]byte, error) {
	return open(encoded, key, ivSize+tagSize)
}

func open(encoded string, key []byte, minSize int) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrMalformedCiphertext
	}
	if len(blob) < minSize {
		return nil, ErrMalformedCiphertext
	}

	iv := blob[:ivSize]
	tag := blob[ivSize : ivSize+tagSize]
	ct := blob[ivSize+tagSize:]

	// Reassemble ciphertext‖tag, the layout gcm.Open expects.
	sealed := make([]byte, 0, len(ct)+tagSize)
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeyLength
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}
