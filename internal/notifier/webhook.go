package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shelfmetrics/stockwatch/internal/config"
	"github.com/shelfmetrics/stockwatch/internal/domain/alert"
	"github.com/shelfmetrics/stockwatch/internal/domain/notification"
	"github.com/shelfmetrics/stockwatch/internal/pkg/logger"
)

// Webhook delivers alert notifications as JSON POSTs to a configured URL.
// The HTTP client carries its own timeout so a hung endpoint cannot stall
// a scheduler run.
type Webhook struct {
	url    string
	client *http.Client
	logger *logger.Logger
}

// NewWebhook creates a webhook dispatcher. When no URL is configured it
// returns a no-op dispatcher.
func NewWebhook(cfg config.NotifyConfig, log *logger.Logger) notification.Dispatcher {
	if cfg.WebhookURL == "" {
		return Noop{}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Webhook{
		url:    cfg.WebhookURL,
		client: &http.Client{Timeout: timeout},
		logger: log,
	}
}

type webhookPayload struct {
	Event  notification.Event `json:"event"`
	Count  int                `json:"count"`
	Alerts []*alert.Alert     `json:"alerts"`
	SentAt time.Time          `json:"sent_at"`
}

// Notify posts the event to the configured webhook URL
func (w *Webhook) Notify(ctx context.Context, event notification.Event, alerts []*alert.Alert) error {
	body, err := json.Marshal(webhookPayload{
		Event:  event,
		Count:  len(alerts),
		Alerts: alerts,
		SentAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("notification delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("notification endpoint returned status %d", resp.StatusCode)
	}

	w.logger.WithFields(map[string]interface{}{
		"event":  string(event),
		"alerts": len(alerts),
	}).Debug("Notification delivered")

	return nil
}

// Noop is a dispatcher that drops every notification. Used when no
// webhook URL is configured.
type Noop struct{}

func (Noop) Notify(context.Context, notification.Event, []*alert.Alert) error {
	return nil
}
