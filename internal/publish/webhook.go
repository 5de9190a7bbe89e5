package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/efreitasn/ccasswatch/internal/domain"
)

// WebhookPublisher delivers events to an HTTP endpoint as JSON POSTs.
type WebhookPublisher struct {
	url    string
	client *http.Client
}

// NewWebhookPublisher creates a publisher posting to url.
func NewWebhookPublisher(url string, timeout time.Duration) *WebhookPublisher {
	return &WebhookPublisher{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// PublishTransactions posts the event. Any non-2xx answer is an error.
func (p *WebhookPublisher) PublishTransactions(ctx context.Context, event domain.TransactionsEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-Id", uuid.New().String())
	req.Header.Set("X-Event-Type", event.EventType)
	req.Header.Set("X-Request-Id", event.RequestID)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("deliver webhook: status %d", resp.StatusCode)
	}
	return nil
}

// Close is a no-op.
func (p *WebhookPublisher) Close() error { return nil }
