package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsbase/itvault/internal/crypto"
	"github.com/opsbase/itvault/internal/logger"
	"github.com/opsbase/itvault/models"
)

func unlockedSession(t *testing.T) *models.Session {
	t.Helper()

	key := make([]byte, crypto.KeySize)
	for i := range key {
		key[i] = byte(i + 1)
	}
	buffer, err := crypto.NewKeyBuffer(key)
	require.NoError(t, err)

	return &models.Session{ID: "session-123", UserID: 1, VaultKey: buffer}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	svc := NewEncryptionService(logger.Nop())

	key := make([]byte, crypto.KeySize)
	for i := range key {
		key[i] = byte(i)
	}

	ciphertext, err := svc.Encrypt([]byte("s3cret-password"), key)
	require.NoError(t, err)

	plaintext, err := svc.Decrypt(ciphertext, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret-password"), plaintext)
}

func TestEncrypt_BadKeyLength(t *testing.T) {
	svc := NewEncryptionService(logger.Nop())

	_, err := svc.Encrypt([]byte("data"), []byte("short"))
	require.ErrorIs(t, err, crypto.ErrInvalidKeyLength)
}

func TestEncryptField_Unlocked(t *testing.T) {
	svc := NewEncryptionService(logger.Nop())
	session := unlockedSession(t)

	ciphertext, err := svc.EncryptField(session, "db-password")
	require.NoError(t, err)

	plaintext, err := svc.DecryptField(session, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "db-password", plaintext)
}

func TestEncryptField_LockedFailsLoud(t *testing.T) {
	svc := NewEncryptionService(logger.Nop())

	_, err := svc.EncryptField(&models.Session{ID: "s"}, "db-password")
	require.ErrorIs(t, err, ErrVaultLocked)

	_, err = svc.EncryptField(nil, "db-password")
	require.ErrorIs(t, err, ErrVaultLocked)
}

func TestDecryptField_Locked(t *testing.T) {
	svc := NewEncryptionService(logger.Nop())

	_, err := svc.DecryptField(&models.Session{ID: "s"}, "whatever")
	require.ErrorIs(t, err, ErrVaultLocked)
}

func TestDecryptOrMask_SoftFailures(t *testing.T) {
	svc := NewEncryptionService(logger.Nop())
	session := unlockedSession(t)

	ciphertext, err := svc.EncryptField(session, "db-password")
	require.NoError(t, err)

	// Unlocked + valid ciphertext → plaintext.
	assert.Equal(t, "db-password", svc.DecryptOrMask(session, ciphertext, "••••••"))

	// Locked vault → mask.
	assert.Equal(t, "••••••", svc.DecryptOrMask(&models.Session{ID: "s"}, ciphertext, "••••••"))

	// Garbage ciphertext → mask.
	assert.Equal(t, "••••••", svc.DecryptOrMask(session, "not-base64!!", "••••••"))

	// Wiped key → mask.
	session.VaultKey.Zero()
	assert.Equal(t, "••••••", svc.DecryptOrMask(session, ciphertext, "••••••"))
}
