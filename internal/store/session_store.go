package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opsbase/itvault/internal/crypto"
	"github.com/opsbase/itvault/internal/logger"
	"github.com/opsbase/itvault/models"
)

// sessionStore is the in-memory implementation of [SessionStore]. Sessions
// are process-local by design: the vault key must never leave this process,
// so sessions cannot be offloaded to a shared cache without re-deriving the
// key on every node.
//
// The mutex covers both the map and the mutation of individual session
// records; sessions returned by Get alias store state, so callers treat them
// as read-only snapshots and mutate through store methods.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	logger   *logger.Logger

	// now is the clock used for activity stamps. Overridable in tests.
	now func() time.Time
}

// NewSessionStore constructs an empty in-memory [SessionStore].
func NewSessionStore(logger *logger.Logger) SessionStore {
	logger.Debug().Msg("creating session store")
	return &sessionStore{
		sessions: make(map[string]*models.Session),
		logger:   logger,
		now:      time.Now,
	}
}

// Create implements [SessionStore].
func (s *sessionStore) Create(userID int64, totpPending bool) *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := &models.Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		TotpPending:  totpPending,
		LastActivity: s.now(),
	}
	s.sessions[session.ID] = session

	return session
}

// Get implements [SessionStore].
func (s *sessionStore) Get(id string) (*models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	return session, ok
}

// Touch implements [SessionStore].
func (s *sessionStore) Touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[id]; ok {
		session.LastActivity = s.now()
	}
}

// ClearTotpPending implements [SessionStore].
func (s *sessionStore) ClearTotpPending(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[id]; ok {
		session.TotpPending = false
	}
}

// SetVaultKey implements [SessionStore]. Any previously held key is wiped
// before the replacement is installed.
func (s *sessionStore) SetVaultKey(id string, key []byte) error {
	buffer, err := crypto.NewKeyBuffer(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		buffer.Zero()
		return ErrNoSessionWasFound
	}

	session.VaultKey.Zero()
	session.VaultKey = buffer

	return nil
}

// WipeVaultKey implements [SessionStore].
func (s *sessionStore) WipeVaultKey(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[id]; ok {
		session.VaultKey.Zero()
		session.VaultKey = nil
	}
}

// Delete implements [SessionStore]. The vault key, if present, is
// overwritten with zero bytes before the record is dropped.
func (s *sessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[id]; ok {
		session.VaultKey.Zero()
		session.VaultKey = nil
		delete(s.sessions, id)
	}
}

// PurgeExpired implements [SessionStore]. It backs the periodic sweeper that
// reclaims sessions whose owners never triggered the inline timeout check.
func (s *sessionStore) PurgeExpired(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)

	purged := 0
	for id, session := range s.sessions {
		if session.LastActivity.Before(cutoff) {
			session.VaultKey.Zero()
			session.VaultKey = nil
			delete(s.sessions, id)
			purged++
		}
	}

	if purged > 0 {
		s.logger.Debug().Int("purged", purged).Msg("expired sessions removed")
	}

	return purged
}
