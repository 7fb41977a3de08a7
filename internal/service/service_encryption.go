package service

import (
	"github.com/opsbase/itvault/internal/crypto"
	"github.com/opsbase/itvault/internal/logger"
	"github.com/opsbase/itvault/models"
)

// encryptionService is the concrete implementation of EncryptionService. The
// raw Encrypt/Decrypt pair works with an explicit key; the field variants
// bind to whatever vault key the session currently holds.
type encryptionService struct {
	logger *logger.Logger
}

// NewEncryptionService constructs an EncryptionService. Stateless and safe
// for concurrent use.
func NewEncryptionService(log *logger.Logger) EncryptionService {
	return &encryptionService{logger: log}
}

// Encrypt seals plaintext under an explicit 32-byte key using the standard
// iv‖tag‖ciphertext framing.
func (e *encryptionService) Encrypt(plaintext, key []byte) (string, error) {
	return crypto.Seal(plaintext, key)
}

// Decrypt opens ciphertext sealed by Encrypt.
func (e *encryptionService) Decrypt(ciphertext string, key []byte) ([]byte, error) {
	return crypto.Open(ciphertext, key)
}

// EncryptField seals a credential field under the session's vault key.
// Calling it while the vault is locked is a programming error and returns
// [ErrVaultLocked].
func (e *encryptionService) EncryptField(session *models.Session, plaintext string) (string, error) {
	if session == nil || !session.VaultUnlocked() {
		return "", ErrVaultLocked
	}

	return crypto.Seal([]byte(plaintext), session.VaultKey.Bytes())
}

// DecryptField opens a credential field under the session's vault key.
func (e *encryptionService) DecryptField(session *models.Session, ciphertext string) (string, error) {
	if session == nil || !session.VaultUnlocked() {
		return "", ErrVaultLocked
	}

	plaintext, err := crypto.Open(ciphertext, session.VaultKey.Bytes())
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// DecryptOrMask is the soft-failing variant for display paths: a locked
// vault, a malformed ciphertext or a failed tag check all yield the
// caller-supplied mask, so UI code never branches on vault state twice.
func (e *encryptionService) DecryptOrMask(session *models.Session, ciphertext, mask string) string {
	plaintext, err := e.DecryptField(session, ciphertext)
	if err != nil {
		return mask
	}

	return plaintext
}
