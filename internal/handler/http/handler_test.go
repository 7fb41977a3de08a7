package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/opsbase/itvault/internal/config"
	"github.com/opsbase/itvault/internal/crypto"
	"github.com/opsbase/itvault/internal/logger"
	"github.com/opsbase/itvault/internal/mock"
	"github.com/opsbase/itvault/internal/service"
	"github.com/opsbase/itvault/internal/store"
)

func testAppCfg() config.App {
	return config.App{
		Key:              "test-app-key",
		SessionSignKey:   "test-sign-key",
		SessionIssuer:    "itvault",
		SessionLifetime:  time.Hour,
		LockoutThreshold: 5,
		LockoutDuration:  15 * time.Minute,
		TotpIssuer:       "IT Vault",
	}
}

// testHandler bundles everything the endpoint tests need: the wired handler,
// the repository mocks and the live session store.
type testHandler struct {
	handler  *Handler
	router   http.Handler
	users    *mock.MockUserRepository
	activity *mock.MockActivityRepository
	sessions store.SessionStore
}

func newTestHandler(t *testing.T, ctrl *gomock.Controller) *testHandler {
	t.Helper()

	mockUsers := mock.NewMockUserRepository(ctrl)
	mockActivity := mock.NewMockActivityRepository(ctrl)

	// Activity logging is fire-and-forget; endpoint tests assert behavior,
	// not audit traffic.
	mockActivity.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	log := logger.Nop()
	sessions := store.NewSessionStore(log)
	storages := &store.Storages{
		UserRepository:     mockUsers,
		ActivityRepository: mockActivity,
		SessionStore:       sessions,
	}

	services := service.NewServices(storages, config.StructuredConfig{App: testAppCfg()}, log)
	h := NewHandler(services, storages, testAppCfg(), log)

	return &testHandler{
		handler:  h,
		router:   h.Init(),
		users:    mockUsers,
		activity: mockActivity,
		sessions: sessions,
	}
}

func (th *testHandler) do(t *testing.T, method, target, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.RemoteAddr = "10.0.0.1:54321"
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rr := httptest.NewRecorder()
	th.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out))
}

func passwordHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := crypto.NewPasswordHasher().Hash(password)
	require.NoError(t, err)
	return hash
}
