package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Duration wraps time.Duration with JSON support for "30m"-style strings.
type Duration time.Duration

// UnmarshalJSON accepts either a duration string ("15m", "1h30m") or a
// number of nanoseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	default:
		return errors.New("invalid duration")
	}
}

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations for the optional config file.
type StructuredJSONConfig struct {
	App struct {
		Key               string   `json:"key"`
		SessionSignKey    string   `json:"session_sign_key"`
		SessionIssuer     string   `json:"session_issuer"`
		SessionLifetime   Duration `json:"session_lifetime"`
		LockoutThreshold  int      `json:"lockout_threshold"`
		LockoutDuration   Duration `json:"lockout_duration"`
		TotpIssuer        string   `json:"totp_issuer"`
		DummyPasswordHash string   `json:"dummy_password_hash"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		AuditWebhookURL     string   `json:"audit_webhook_url"`
		AuditWebhookTimeout Duration `json:"audit_webhook_timeout"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Key:               jsonCfg.App.Key,
			SessionSignKey:    jsonCfg.App.SessionSignKey,
			SessionIssuer:     jsonCfg.App.SessionIssuer,
			SessionLifetime:   time.Duration(jsonCfg.App.SessionLifetime),
			LockoutThreshold:  jsonCfg.App.LockoutThreshold,
			LockoutDuration:   time.Duration(jsonCfg.App.LockoutDuration),
			TotpIssuer:        jsonCfg.App.TotpIssuer,
			DummyPasswordHash: jsonCfg.App.DummyPasswordHash,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			AuditWebhookURL:     jsonCfg.Storage.AuditWebhookURL,
			AuditWebhookTimeout: time.Duration(jsonCfg.Storage.AuditWebhookTimeout),
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
	}

	return cfg, nil
}
