package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"DealHunter/internal/ports"
	"DealHunter/pkg/logger"
)

// CronScheduler triggers jobs on a standard five-field cron expression.
// Overlapping triggers are skipped while a job is still running.
type CronScheduler struct {
	expr     string
	location *time.Location
	logger   *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	stopped chan struct{}
	watch   sync.WaitGroup
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler for expr evaluated in loc (UTC if nil).
func NewCronScheduler(expr string, loc *time.Location, log *slog.Logger) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &CronScheduler{expr: expr, location: loc, logger: log}
}

// Validate parses the expression without scheduling anything.
func (c *CronScheduler) Validate() error {
	if _, err := cron.ParseStandard(c.expr); err != nil {
		return fmt.Errorf("parse cron expression %q: %w", c.expr, err)
	}
	return nil
}

// Start registers job and begins dispatching. Cancelling ctx stops the
// scheduler; calling Start twice is a no-op.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cron != nil {
		return nil
	}

	cronLog := logger.Cron(c.logger, "scheduler")
	cr := cron.New(
		cron.WithLocation(c.location),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	location := c.location
	if _, err := cr.AddFunc(c.expr, func() { job(time.Now().In(location)) }); err != nil {
		return fmt.Errorf("schedule %q: %w", c.expr, err)
	}

	cr.Start()
	c.cron = cr

	stopped := make(chan struct{})
	c.stopped = stopped

	c.watch.Add(1)
	go func() {
		defer c.watch.Done()
		select {
		case <-ctx.Done():
			_ = c.Stop(context.Background())
		case <-stopped:
		}
	}()

	return nil
}

// Next reports the upcoming trigger time, or zero when not started.
func (c *CronScheduler) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cron == nil {
		return time.Time{}
	}
	entries := c.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop halts dispatching and waits for a running job to finish or ctx to end.
func (c *CronScheduler) Stop(ctx context.Context) error {
	c.mu.Lock()
	cr := c.cron
	c.cron = nil
	if c.stopped != nil {
		close(c.stopped)
		c.stopped = nil
	}
	c.mu.Unlock()

	if cr == nil {
		return nil
	}

	done := cr.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
