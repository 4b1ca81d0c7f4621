package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"numrent-admin-core/internal/core/ports"

	"github.com/rs/zerolog"
)

// Delivery retries are short: the caller already treats delivery as
// best-effort and does not block the ledger on it.
var webhookRetryIntervals = []time.Duration{
	500 * time.Millisecond,
	2 * time.Second,
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// webhookPayload is the JSON body posted to the configured webhook URL.
type webhookPayload struct {
	AccountID   string `json:"account_id"`
	Kind        string `json:"kind"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Timestamp   int64  `json:"timestamp"`
}

// WebhookNotifier implements ports.Notifier by POSTing fund-change
// events to the admin application's webhook endpoint.
type WebhookNotifier struct {
	url        string
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewWebhookNotifier creates a webhook notifier targeting url.
func NewWebhookNotifier(url string, httpClient HTTPClient, log zerolog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:        url,
		httpClient: httpClient,
		log:        log,
	}
}

// Notify delivers the notification with bounded retries.
func (n *WebhookNotifier) Notify(ctx context.Context, event ports.Notification) error {
	payload := webhookPayload{
		AccountID:   event.AccountID,
		Kind:        string(event.Kind),
		Amount:      event.Amount.String(),
		Description: event.Description,
		Timestamp:   time.Now().Unix(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= len(webhookRetryIntervals); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(webhookRetryIntervals[attempt-1]):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("build webhook request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.httpClient.Do(req)
		if err != nil {
			lastErr = err
			n.log.Warn().Err(err).
				Str("account_id", event.AccountID).
				Int("attempt", attempt+1).
				Msg("webhook: delivery failed")
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			n.log.Info().
				Str("account_id", event.AccountID).
				Int("attempt", attempt+1).
				Int("status", resp.StatusCode).
				Msg("webhook: delivered")
			return nil
		}

		lastErr = fmt.Errorf("webhook returned status %d", resp.StatusCode)
		n.log.Warn().
			Str("account_id", event.AccountID).
			Int("attempt", attempt+1).
			Int("status", resp.StatusCode).
			Msg("webhook: non-2xx response, retrying")
	}

	return fmt.Errorf("webhook delivery exhausted retries: %w", lastErr)
}
