package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"DealHunter/internal/domain"
	"DealHunter/internal/infrastructure/alert"
	"DealHunter/internal/ports"
)

// DefaultAPIURL is the public Bot API host.
const DefaultAPIURL = "https://api.telegram.org"

// Notifier sends alerts to a Telegram chat via bot API.
type Notifier struct {
	botToken string
	chatID   string
	apiURL   string
	client   *resty.Client
}

var _ ports.AlertSink = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier. An empty apiURL uses
// DefaultAPIURL.
func NewNotifier(botToken, chatID, apiURL string) *Notifier {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		apiURL:   strings.TrimRight(apiURL, "/"),
		client:   resty.New().SetTimeout(5 * time.Second),
	}
}

// Publish posts the alert as a plain-text message.
func (n *Notifier) Publish(ctx context.Context, record domain.AlertRecord) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiURL, n.botToken)

	var reply struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"chat_id":                  n.chatID,
			"text":                     alert.Detail(record),
			"disable_web_page_preview": "true",
		}).
		SetResult(&reply).
		SetError(&reply).
		Post(endpoint)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	if resp.IsError() {
		if reply.Description != "" {
			return fmt.Errorf("telegram error: %s: %s", resp.Status(), reply.Description)
		}
		return fmt.Errorf("telegram error: %s", resp.Status())
	}

	return nil
}
