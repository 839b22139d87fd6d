package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"DealHunter/internal/domain"
	"DealHunter/internal/ports"
)

// WebhookSink posts each alert as JSON to an HTTP endpoint.
type WebhookSink struct {
	endpoint string
	client   *resty.Client
}

var _ ports.AlertSink = (*WebhookSink)(nil)

type webhookPayload struct {
	RunID        string   `json:"run_id"`
	ItemID       string   `json:"item_id"`
	ItemName     string   `json:"item_name"`
	URL          string   `json:"url"`
	Condition    string   `json:"condition"`
	CurrentPrice float64  `json:"current_price"`
	PriorPrice   *float64 `json:"prior_price,omitempty"`
	TargetPrice  *float64 `json:"target_price,omitempty"`
	RaisedAt     string   `json:"raised_at"`
	// Content lets chat webhooks (Discord) render the alert without templates.
	Content string `json:"content"`
}

// NewWebhookSink builds a reusable HTTP client with optional extra headers.
func NewWebhookSink(endpoint string, headers map[string]string) *WebhookSink {
	client := resty.New()
	client.SetTimeout(15 * time.Second)
	client.SetHeader("Content-Type", "application/json")
	client.SetHeaders(headers)

	return &WebhookSink{endpoint: endpoint, client: client}
}

// Publish sends one POST per record.
func (w *WebhookSink) Publish(ctx context.Context, record domain.AlertRecord) error {
	if w.endpoint == "" {
		return fmt.Errorf("webhook sink misconfigured")
	}

	payload := webhookPayload{
		RunID:        record.RunID,
		ItemID:       record.Item.ID,
		ItemName:     record.Item.DisplayName(),
		URL:          record.Item.URL,
		Condition:    string(record.Condition),
		CurrentPrice: record.CurrentPrice,
		PriorPrice:   record.PriorPrice,
		TargetPrice:  record.TargetPrice,
		RaisedAt:     record.RaisedAt.UTC().Format(time.RFC3339),
		Content:      Detail(record),
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(w.endpoint)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("webhook returned %s", resp.Status())
	}
	return nil
}
