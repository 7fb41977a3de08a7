package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// kdfIterations is the PBKDF2 iteration count used when unwrapping the vault
// key. The value is part of the stored envelope format and must not change
// without re-encrypting every envelope.
const kdfIterations = 100_000

// DeriveKey turns a human password and a 16-byte salt into a 32-byte
// symmetric key using PBKDF2-HMAC-SHA256. Its single consumer is the
// vault-key envelope; credential fields are encrypted with the random vault
// key itself, never with a password-derived key.
func DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, kdfIterations, KeySize, sha256.New)
}
