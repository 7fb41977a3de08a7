package service

import (
	"context"

	"github.com/opsbase/itvault/internal/logger"
	"github.com/opsbase/itvault/models"
)

// activityLogger is the concrete implementation of [ActivityLogger]. It
// fans every entry out to all configured sinks and swallows their errors:
// a failing audit backend must never interrupt an auth flow.
type activityLogger struct {
	sinks  []ActivitySink
	logger *logger.Logger
}

// NewActivityLogger constructs an [ActivityLogger] over the given sinks.
// Nil sinks are skipped so callers can pass optional sinks unconditionally.
func NewActivityLogger(log *logger.Logger, sinks ...ActivitySink) ActivityLogger {
	kept := make([]ActivitySink, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			kept = append(kept, sink)
		}
	}

	return &activityLogger{
		sinks:  kept,
		logger: log,
	}
}

// Log implements [ActivityLogger]. Sink failures are logged at debug level
// and dropped.
func (a *activityLogger) Log(ctx context.Context, entry models.ActivityEntry) {
	for _, sink := range a.sinks {
		if err := sink.Record(ctx, entry); err != nil {
			a.logger.Debug().Err(err).
				Str("action", entry.Action).
				Msg("activity sink write failed, entry dropped")
		}
	}
}
