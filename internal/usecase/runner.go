package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"DealHunter/internal/decision"
	"DealHunter/internal/domain"
	"DealHunter/internal/extract"
	"DealHunter/internal/logging"
	"DealHunter/internal/ports"
)

// Fetcher retrieves page markup for an item, picking the retrieval strategy
// itself. retrieval.Router is the production implementation.
type Fetcher interface {
	Fetch(ctx context.Context, item domain.TrackedItem) (string, error)
}

// RunnerDeps wires all driven adapters into a run.
type RunnerDeps struct {
	Items   []domain.TrackedItem
	Fetcher Fetcher
	Store   ports.StateStore
	Sink    ports.AlertSink
	Logger  *slog.Logger
	// Now and NewRunID default to time.Now and uuid.NewString.
	Now      func() time.Time
	NewRunID func() string
}

// Runner implements one check pass: fetch, extract, decide, alert, persist.
type Runner struct {
	items    []domain.TrackedItem
	fetcher  Fetcher
	store    ports.StateStore
	sink     ports.AlertSink
	logger   *slog.Logger
	now      func() time.Time
	newRunID func() string
}

// NewRunner constructs the orchestration component.
func NewRunner(deps RunnerDeps) *Runner {
	r := &Runner{
		items:    deps.Items,
		fetcher:  deps.Fetcher,
		store:    deps.Store,
		sink:     deps.Sink,
		logger:   deps.Logger,
		now:      deps.Now,
		newRunID: deps.NewRunID,
	}
	if r.logger == nil {
		r.logger = logging.Discard()
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.newRunID == nil {
		r.newRunID = uuid.NewString
	}
	return r
}

// Run processes every item in configuration order. Per-item failures are
// recorded in the report; only state load/persist failures abort the run.
// State is written once, after the last item.
func (r *Runner) Run(ctx context.Context) (RunReport, error) {
	report := RunReport{
		RunID:     r.newRunID(),
		StartedAt: r.now(),
		Results:   make([]ItemResult, 0, len(r.items)),
	}
	log := r.logger.With("run_id", report.RunID)

	if r.fetcher == nil || r.store == nil {
		return report, fmt.Errorf("runner misconfigured: fetcher and store are required")
	}

	prior, err := r.store.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("load state: %w", err)
	}
	next := prior.Clone()

	log.Info("run started", "items", len(r.items), "known_prices", len(prior))

	for _, item := range r.items {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("run interrupted: %w", err)
		}

		result := r.processItem(ctx, log, report.RunID, item, prior)
		report.Results = append(report.Results, result)
		report.Alerts += len(result.Conditions)

		if price, ok := decision.NextPrice(result.Reading); ok {
			next[item.ID] = price
		}
	}

	if err := r.store.Replace(ctx, next); err != nil {
		return report, fmt.Errorf("persist state: %w", err)
	}

	report.FinishedAt = r.now()
	log.Info("run finished",
		"items", len(report.Results),
		"alerts", report.Alerts,
		"duration", report.Duration())

	return report, nil
}

func (r *Runner) processItem(ctx context.Context, log *slog.Logger, runID string, item domain.TrackedItem, state domain.PriceState) ItemResult {
	result := ItemResult{Item: item, Prior: state.Prior(item.ID)}

	markup, err := r.fetcher.Fetch(ctx, item)
	if err != nil {
		result.Reading = domain.Failed(domain.StatusFetchError, "%v", err)
	} else {
		result.Reading = extract.Extract(markup, item.StockKeyword, item.PriceSelector)
	}

	result.Conditions = decision.Decide(result.Reading, result.Prior, item.TargetPrice)
	r.logResult(log, result)

	for _, record := range decision.Records(runID, item, result.Reading, result.Prior, result.Conditions) {
		record.RaisedAt = r.now()
		if r.sink == nil {
			continue
		}
		if err := r.sink.Publish(ctx, record); err != nil {
			log.Warn("alert delivery failed",
				"item", item.ID,
				"condition", record.Condition,
				"error", err)
		}
	}

	return result
}

func (r *Runner) logResult(log *slog.Logger, result ItemResult) {
	args := []any{
		"item", result.Item.ID,
		"status", result.Reading.Status,
	}
	if result.Reading.Price != nil {
		args = append(args, "price", *result.Reading.Price)
	}
	if result.Prior != nil {
		args = append(args, "prior", *result.Prior)
	}
	if len(result.Conditions) > 0 {
		args = append(args, "conditions", result.Conditions)
	}

	switch result.Reading.Status {
	case domain.StatusInStock, domain.StatusOutOfStock:
		log.Info("item checked", args...)
	default:
		log.Warn("item check failed", append(args, "detail", result.Reading.Detail)...)
	}
}
