package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opsbase/itvault/internal/logger"
	"github.com/opsbase/itvault/models"
)

type failingSink struct{}

func (failingSink) Record(context.Context, models.ActivityEntry) error {
	return errors.New("sink unavailable")
}

func TestActivityLogger_FansOutToAllSinks(t *testing.T) {
	first := &recordingSink{}
	second := &recordingSink{}

	al := NewActivityLogger(logger.Nop(), first, second)
	al.Log(context.Background(), models.ActivityEntry{Action: models.ActionLogin})

	assert.Equal(t, []string{models.ActionLogin}, first.actions())
	assert.Equal(t, []string{models.ActionLogin}, second.actions())
}

func TestActivityLogger_SwallowsSinkErrors(t *testing.T) {
	healthy := &recordingSink{}

	al := NewActivityLogger(logger.Nop(), failingSink{}, healthy)

	// Must not panic or propagate; the healthy sink still receives the entry.
	al.Log(context.Background(), models.ActivityEntry{Action: models.ActionLogout})
	assert.Equal(t, []string{models.ActionLogout}, healthy.actions())
}

func TestActivityLogger_SkipsNilSinks(t *testing.T) {
	healthy := &recordingSink{}

	al := NewActivityLogger(logger.Nop(), nil, healthy)
	al.Log(context.Background(), models.ActivityEntry{Action: models.ActionLogin})

	assert.Equal(t, []string{models.ActionLogin}, healthy.actions())
}
