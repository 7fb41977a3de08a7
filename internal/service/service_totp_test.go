package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/opsbase/itvault/internal/logger"
	"github.com/opsbase/itvault/internal/mock"
	"github.com/opsbase/itvault/internal/totp"
	"github.com/opsbase/itvault/models"
)

func newTestTotpSvc(t *testing.T, ctrl *gomock.Controller) (*totpService, *mock.MockUserRepository, *recordingSink) {
	t.Helper()

	mockRepo := mock.NewMockUserRepository(ctrl)
	sink := &recordingSink{}
	log := logger.Nop()
	activity := NewActivityLogger(log, sink)

	svc := NewTotpService(mockRepo, activity, testAppConfig(), log).(*totpService)

	return svc, mockRepo, sink
}

func TestTotpSetup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _ := newTestTotpSvc(t, ctrl)
	ctx := context.Background()

	mockRepo.EXPECT().FindByID(ctx, int64(1)).Return(models.User{UserID: 1, Username: "admin"}, nil)

	setup, err := svc.Setup(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, setup.Secret, 32)
	assert.True(t, strings.HasPrefix(setup.URI, "otpauth://totp/"))
	assert.Contains(t, setup.URI, "secret="+setup.Secret)
	assert.Contains(t, setup.URI, "issuer=IT+Vault")
}

func TestTotpEnable_VerifiesBeforePersisting(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, sink := newTestTotpSvc(t, ctrl)
	ctx := context.Background()

	secret, err := totp.NewEngine().GenerateSecret()
	require.NoError(t, err)

	mockRepo.EXPECT().SetTotp(ctx, int64(1), gomock.Any(), true).DoAndReturn(
		func(_ context.Context, _ int64, envelope string, _ bool) error {
			// The persisted envelope must decrypt back to the secret.
			decrypted, err := totp.DecryptSecret(envelope, []byte(testAppConfig().Key))
			require.NoError(t, err)
			assert.Equal(t, secret, decrypted)
			return nil
		},
	)

	err = svc.Enable(ctx, 1, secret, currentTotpCode(t, secret))
	require.NoError(t, err)
	assert.Equal(t, []string{models.ActionTotpEnabled}, sink.actions())
}

func TestTotpEnable_WrongCodeLeavesAccountUntouched(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, sink := newTestTotpSvc(t, ctrl)
	ctx := context.Background()

	secret, err := totp.NewEngine().GenerateSecret()
	require.NoError(t, err)

	// No SetTotp expectation: a wrong code must not persist anything.
	err = svc.Enable(ctx, 1, secret, "000000")
	require.ErrorIs(t, err, ErrInvalidTotpCode)
	assert.Empty(t, sink.actions())
}

func TestTotpEnable_MalformedCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _ := newTestTotpSvc(t, ctrl)
	ctx := context.Background()

	secret, err := totp.NewEngine().GenerateSecret()
	require.NoError(t, err)

	for _, code := range []string{"", "12345", "1234567", "12345a"} {
		err := svc.Enable(ctx, 1, secret, code)
		assert.ErrorIs(t, err, ErrInvalidTotpCode, "code %q", code)
	}
}

func TestTotpDisable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, sink := newTestTotpSvc(t, ctrl)
	ctx := context.Background()

	mockRepo.EXPECT().SetTotp(ctx, int64(1), "", false).Return(nil)

	require.NoError(t, svc.Disable(ctx, 1))
	assert.Equal(t, []string{models.ActionTotpDisabled}, sink.actions())
}
