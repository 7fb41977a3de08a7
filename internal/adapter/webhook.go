// Package adapter holds clients for external collaborators. Currently the
// only one is the audit webhook forwarder.
package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/opsbase/itvault/internal/config"
	"github.com/opsbase/itvault/internal/logger"
	"github.com/opsbase/itvault/models"
)

const defaultWebhookTimeout = 5 * time.Second

// WebhookSink forwards activity-log entries to an external audit collector
// over HTTP. It satisfies the service layer's activity-sink contract; the
// fan-out logger swallows its errors, so an unreachable collector only costs
// a bounded request timeout.
type WebhookSink struct {
	client *resty.Client
	logger *logger.Logger
}

// NewWebhookSink constructs a WebhookSink for cfg.AuditWebhookURL. Returns
// (nil, nil) when no URL is configured so callers can pass the result
// straight to the activity logger.
func NewWebhookSink(cfg config.Storage, log *logger.Logger) (*WebhookSink, error) {
	url := strings.TrimSpace(cfg.AuditWebhookURL)
	if url == "" {
		return nil, nil
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("invalid audit webhook url: %s", url)
	}

	timeout := cfg.AuditWebhookTimeout
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(url, "/")).
		SetTimeout(timeout)

	log.Info().Str("url", url).Msg("audit webhook forwarding enabled")

	return &WebhookSink{client: client, logger: log}, nil
}

// Record POSTs the entry as JSON to the configured collector. A non-2xx
// response counts as a failure so the fan-out logger can note the drop.
func (w *WebhookSink) Record(ctx context.Context, entry models.ActivityEntry) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(entry).
		Post("")
	if err != nil {
		return fmt.Errorf("audit webhook request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("audit webhook responded %d", resp.StatusCode())
	}

	return nil
}
