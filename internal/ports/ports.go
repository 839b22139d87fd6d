package ports

import (
	"context"
	"time"

	"DealHunter/internal/domain"
)

// Retriever obtains raw markup for a product page (plain HTTP, headless browser, etc.).
// Failures are reported as *domain.FetchError.
type Retriever interface {
	Name() string
	Fetch(ctx context.Context, url string) (string, error)
}

// StateStore persists the last known price per item between runs.
type StateStore interface {
	// Load returns an empty state when nothing has been persisted yet.
	Load(ctx context.Context) (domain.PriceState, error)
	// Replace overwrites the persisted state with the given mapping.
	Replace(ctx context.Context, state domain.PriceState) error
}

// AlertSink delivers a single fired condition (console, log file, Telegram, ...).
type AlertSink interface {
	Publish(ctx context.Context, record domain.AlertRecord) error
}

// Scheduler controls when runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
