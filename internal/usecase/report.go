package usecase

import (
	"time"

	"DealHunter/internal/domain"
)

// ItemResult is the outcome of one item within a run.
type ItemResult struct {
	Item       domain.TrackedItem
	Reading    domain.Reading
	Prior      *float64
	Conditions []domain.Condition
}

// RunReport summarizes a single pass over all tracked items.
type RunReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []ItemResult
	Alerts     int
}

// Count returns how many results ended with the given status.
func (r RunReport) Count(status domain.Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Reading.Status == status {
			n++
		}
	}
	return n
}

// Duration is the wall time of the run.
func (r RunReport) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
