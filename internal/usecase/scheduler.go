package usecase

import (
	"context"
	"log/slog"
	"time"

	"DealHunter/internal/logging"
	"DealHunter/internal/ports"
)

// Scheduler wires the cron driver with the runner use case.
type Scheduler struct {
	driver ports.Scheduler
	runner *Runner
	logger *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring runs.
func NewScheduler(driver ports.Scheduler, runner *Runner, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Scheduler{driver: driver, runner: runner, logger: logger}
}

// Start registers the runner with the provided scheduler. A failed run is
// logged and the next trigger proceeds as usual.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.runner == nil {
		return nil
	}

	job := func(trigger time.Time) {
		report, err := s.runner.Run(ctx)
		if err != nil {
			s.logger.Error("scheduled run failed", "trigger", trigger, "run_id", report.RunID, "error", err)
			return
		}
		s.logger.Info("scheduled run complete", "trigger", trigger, "run_id", report.RunID, "alerts", report.Alerts)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
