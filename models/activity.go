package models

import "time"

// Activity actions recorded by the authentication core. The CRUD layers log
// their own actions through the same sink with their own action names.
const (
	ActionLogin         = "login"
	ActionLoginFailed   = "login_failed"
	ActionLoginBlocked  = "login_blocked"
	ActionAccountLocked = "account_locked"
	ActionVaultUnlocked = "vault_unlocked"
	ActionVaultLocked   = "vault_locked"
	ActionLogout        = "logout"
	ActionTotpEnabled   = "totp_enabled"
	ActionTotpDisabled  = "totp_disabled"
)

// ActivityEntry is one row of the append-only activity log. Description is
// free text and must never contain key material or passwords.
type ActivityEntry struct {
	ID int64 `json:"id"`

	// UserID is nil for events that could not be attributed to an account
	// (e.g. a login attempt against an unknown username).
	UserID *int64 `json:"user_id,omitempty"`

	Action      string `json:"action"`
	EntityType  string `json:"entity_type,omitempty"`
	EntityID    int64  `json:"entity_id,omitempty"`
	Description string `json:"description,omitempty"`
	IP          string `json:"ip,omitempty"`
	UserAgent   string `json:"user_agent,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the ActivityEntry model.
func (a ActivityEntry) TableName() string {
	return "activity_log"
}
