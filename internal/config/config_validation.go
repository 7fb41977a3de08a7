package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup, and fills policy
// defaults for unset values.
//
// Returns nil if the configuration is valid, or a descriptive error
// otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.SessionLifetime == 0 {
		cfg.App.SessionLifetime = DefaultSessionLifetime
	}
	if cfg.App.LockoutThreshold == 0 {
		cfg.App.LockoutThreshold = DefaultLockoutThreshold
	}
	if cfg.App.LockoutDuration == 0 {
		cfg.App.LockoutDuration = DefaultLockoutDuration
	}
	if cfg.App.SessionIssuer == "" {
		cfg.App.SessionIssuer = DefaultSessionIssuer
	}
	if cfg.App.TotpIssuer == "" {
		cfg.App.TotpIssuer = DefaultTotpIssuer
	}

	if cfg.App.Key == "" {
		return ErrInvalidAppConfigs
	}
	if cfg.App.SessionSignKey == "" {
		return ErrInvalidAppConfigs
	}
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}
	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	return nil
}
