package workers

import (
	"time"

	"github.com/opsbase/itvault/internal/logger"
	"github.com/opsbase/itvault/internal/store"
)

// defaultPurgeInterval is how often the purger sweeps the session store.
// The inline guard already enforces the timeout on active traffic; the
// sweeper only reclaims sessions whose owners walked away, so a coarse
// interval is enough.
const defaultPurgeInterval = time.Minute

// SessionPurger periodically removes sessions idle longer than maxIdle,
// wiping their vault keys first. Without it an abandoned session would hold
// its key in memory until the next request happened to hit the guard.
type SessionPurger struct {
	sessions store.SessionStore
	maxIdle  time.Duration
	interval time.Duration
	stop     chan struct{}
	logger   *logger.Logger
}

// NewSessionPurger constructs a purger for the given store.
func NewSessionPurger(sessions store.SessionStore, maxIdle time.Duration, log *logger.Logger) *SessionPurger {
	return &SessionPurger{
		sessions: sessions,
		maxIdle:  maxIdle,
		interval: defaultPurgeInterval,
		stop:     make(chan struct{}),
		logger:   log,
	}
}

// Run implements [Worker]. It spawns the sweep loop and returns.
func (p *SessionPurger) Run() {
	p.logger.Info().Dur("max_idle", p.maxIdle).Msg("session purger started")

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if purged := p.sessions.PurgeExpired(p.maxIdle); purged > 0 {
					p.logger.Info().Int("purged", purged).Msg("idle sessions purged")
				}
			case <-p.stop:
				return
			}
		}
	}()
}

// Stop terminates the sweep loop.
func (p *SessionPurger) Stop() {
	close(p.stop)
}
