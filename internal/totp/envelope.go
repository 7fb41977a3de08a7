package totp

import (
	"github.com/opsbase/itvault/internal/crypto"
)

// EncryptSecret wraps a plaintext base32 secret for storage:
// base64( iv(12) ‖ tag(16) ‖ ciphertext ), AES-256-GCM under the key derived
// from appKey by [DeriveEnvelopeKey].
func EncryptSecret(secret string, appKey []byte) (string, error) {
	return crypto.Seal([]byte(secret), DeriveEnvelopeKey(appKey))
}

// DecryptSecret unwraps a stored secret envelope back to its plaintext
// base32 form. Tag failures surface as [crypto.ErrDecryptionFailed]; the
// caller cannot tell a wrong application key from a corrupted envelope.
func DecryptSecret(envelope string, appKey []byte) (string, error) {
	secret, err := crypto.OpenAllowEmpty(envelope, DeriveEnvelopeKey(appKey))
	if err != nil {
		return "", err
	}

	return string(secret), nil
}
