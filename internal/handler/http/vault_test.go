package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/opsbase/itvault/internal/crypto"
	"github.com/opsbase/itvault/internal/store"
	"github.com/opsbase/itvault/models"
)

// authedSession creates a fully authenticated session and returns its bearer
// token.
func authedSession(t *testing.T, th *testHandler, userID int64) (string, *models.Session) {
	t.Helper()

	session := th.sessions.Create(userID, false)
	token, err := th.handler.services.AuthService.CreateSessionToken(context.Background(), session.ID)
	require.NoError(t, err)

	return token.SignedString, session
}

func TestUnlockVault_SealRevealLockCycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	th := newTestHandler(t, ctrl)

	vaultKey := make([]byte, crypto.KeySize)
	for i := range vaultKey {
		vaultKey[i] = byte(i)
	}
	envelope, err := crypto.WrapVaultKey(vaultKey, "vault-pass")
	require.NoError(t, err)

	user := models.User{UserID: 1, Username: "admin", VaultKeyEncrypted: envelope}
	token, session := authedSession(t, th, 1)

	th.users.EXPECT().FindByID(gomock.Any(), int64(1)).Return(user, nil)

	rr := th.do(t, http.MethodPost, "/api/vault/unlock", token, unlockVaultRequest{VaultPassword: "vault-pass"})
	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, session.VaultUnlocked())

	// Seal a field under the session key.
	rrSeal := th.do(t, http.MethodPost, "/api/vault/seal", token, sealFieldRequest{Plaintext: "db-password"})
	require.Equal(t, http.StatusOK, rrSeal.Code)

	var sealed map[string]string
	decodeBody(t, rrSeal, &sealed)
	require.NotEmpty(t, sealed["ciphertext"])

	// Reveal round-trips it.
	rrReveal := th.do(t, http.MethodPost, "/api/vault/reveal", token, revealFieldRequest{Ciphertext: sealed["ciphertext"]})
	require.Equal(t, http.StatusOK, rrReveal.Code)

	var revealed map[string]string
	decodeBody(t, rrReveal, &revealed)
	assert.Equal(t, "db-password", revealed["value"])

	// Lock wipes the key; reveal degrades to the mask.
	rrLock := th.do(t, http.MethodPost, "/api/vault/lock", token, nil)
	require.Equal(t, http.StatusOK, rrLock.Code)
	require.False(t, session.VaultUnlocked())

	rrMasked := th.do(t, http.MethodPost, "/api/vault/reveal", token, revealFieldRequest{Ciphertext: sealed["ciphertext"]})
	require.Equal(t, http.StatusOK, rrMasked.Code)

	var masked map[string]string
	decodeBody(t, rrMasked, &masked)
	assert.Equal(t, defaultMask, masked["value"])
}

func TestUnlockVault_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	th := newTestHandler(t, ctrl)

	envelope, err := crypto.WrapVaultKey(make([]byte, crypto.KeySize), "vault-pass")
	require.NoError(t, err)

	user := models.User{UserID: 1, VaultKeyEncrypted: envelope}
	token, session := authedSession(t, th, 1)

	th.users.EXPECT().FindByID(gomock.Any(), int64(1)).Return(user, nil)

	rr := th.do(t, http.MethodPost, "/api/vault/unlock", token, unlockVaultRequest{VaultPassword: "wrong"})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "vault decryption failed")
	assert.False(t, session.VaultUnlocked())
}

func TestUnlockVault_NotConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	th := newTestHandler(t, ctrl)

	token, _ := authedSession(t, th, 1)

	th.users.EXPECT().FindByID(gomock.Any(), int64(1)).Return(models.User{UserID: 1}, nil)

	rr := th.do(t, http.MethodPost, "/api/vault/unlock", token, unlockVaultRequest{VaultPassword: "whatever"})
	require.Equal(t, http.StatusConflict, rr.Code)
}

func TestSealField_LockedVault(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	th := newTestHandler(t, ctrl)

	token, _ := authedSession(t, th, 1)

	rr := th.do(t, http.MethodPost, "/api/vault/seal", token, sealFieldRequest{Plaintext: "db-password"})
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "vault is locked")
}

func TestListActivity_Filters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	th := newTestHandler(t, ctrl)

	token, _ := authedSession(t, th, 1)

	userID := int64(7)
	entries := []models.ActivityEntry{{ID: 1, UserID: &userID, Action: models.ActionLogin, CreatedAt: time.Now()}}

	th.activity.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, filter store.ActivityFilter) ([]models.ActivityEntry, error) {
			require.NotNil(t, filter.UserID)
			assert.Equal(t, int64(7), *filter.UserID)
			assert.Equal(t, models.ActionLogin, filter.Action)
			assert.Equal(t, uint64(10), filter.Limit)
			return entries, nil
		},
	)

	rr := th.do(t, http.MethodGet, "/api/activity?user_id=7&action=login&limit=10", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"action":"login"`)
}

func TestListActivity_BadQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	th := newTestHandler(t, ctrl)

	token, _ := authedSession(t, th, 1)

	rr := th.do(t, http.MethodGet, "/api/activity?user_id=not-a-number", token, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTotpSetupEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	th := newTestHandler(t, ctrl)

	token, _ := authedSession(t, th, 1)

	th.users.EXPECT().FindByID(gomock.Any(), int64(1)).Return(models.User{UserID: 1, Username: "admin"}, nil)

	rr := th.do(t, http.MethodGet, "/api/totp/setup", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var setup map[string]string
	decodeBody(t, rr, &setup)
	assert.Len(t, setup["secret"], 32)
	assert.Contains(t, setup["uri"], "otpauth://totp/")
}
