package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_IsLocked(t *testing.T) {
	now := time.Now()

	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.False(t, User{}.IsLocked(now), "no lock set")
	assert.False(t, User{LockedUntil: &past}.IsLocked(now), "expired lock")
	assert.True(t, User{LockedUntil: &future}.IsLocked(now), "active lock")
}

func TestUser_LockMinutesRemaining_RoundsUp(t *testing.T) {
	now := time.Now()

	cases := []struct {
		remaining time.Duration
		want      int
	}{
		{0, 0},
		{30 * time.Second, 1},
		{60 * time.Second, 1},
		{61 * time.Second, 2},
		{15 * time.Minute, 15},
		{14*time.Minute + 1*time.Second, 15},
	}

	for _, tc := range cases {
		until := now.Add(tc.remaining)
		u := User{LockedUntil: &until}
		assert.Equal(t, tc.want, u.LockMinutesRemaining(now), "remaining %v", tc.remaining)
	}
}

func TestUser_Public_OmitsSecrets(t *testing.T) {
	u := User{
		UserID:            7,
		Username:          "alice",
		Email:             "alice@example.com",
		Role:              "admin",
		PasswordHash:      "$argon2id$...",
		VaultKeyEncrypted: "ZW52ZWxvcGU=",
	}

	pub := u.Public()
	assert.Equal(t, int64(7), pub.UserID)
	assert.Equal(t, "alice", pub.Username)
	assert.Equal(t, "alice@example.com", pub.Email)
	assert.Equal(t, "admin", pub.Role)
}
