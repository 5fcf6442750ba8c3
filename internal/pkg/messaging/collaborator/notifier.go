package collaborator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Notifier is the outbound off-band delivery collaborator (email/push).
// It owns rendering and channel selection; this service only hands it the
// facts of a notification and never treats its failures as fatal.
type Notifier interface {
	Deliver(ctx context.Context, userID, kind string, data map[string]string) error
}

// WebhookNotifier posts notification payloads to an external endpoint.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

var _ Notifier = (*WebhookNotifier)(nil)

func (n *WebhookNotifier) Deliver(ctx context.Context, userID, kind string, data map[string]string) error {
	body, err := json.Marshal(map[string]any{
		"user_id": userID,
		"kind":    kind,
		"data":    data,
	})
	if err != nil {
		return fmt.Errorf("notifier: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notifier: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notifier: deliver: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notifier: deliver: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// LogNotifier is the declared degraded mode used when no notifier endpoint
// is configured: deliveries are recorded in the log instead of silently
// pretending to succeed elsewhere.
type LogNotifier struct {
	Log *slog.Logger
}

var _ Notifier = (*LogNotifier)(nil)

func (n *LogNotifier) Deliver(_ context.Context, userID, kind string, data map[string]string) error {
	n.Log.Info("notification delivery (log-only mode)",
		"user_id", userID,
		"kind", kind,
		"title", data["title"],
		"link", data["link"],
	)
	return nil
}
