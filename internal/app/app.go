package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"DealHunter/internal/config"
	"DealHunter/internal/domain"
	"DealHunter/internal/infrastructure/alert"
	"DealHunter/internal/infrastructure/fetch"
	"DealHunter/internal/infrastructure/scheduler"
	"DealHunter/internal/infrastructure/storage"
	"DealHunter/internal/infrastructure/telegram"
	"DealHunter/internal/logging"
	"DealHunter/internal/ports"
	"DealHunter/internal/retrieval"
	"DealHunter/internal/usecase"
)

const shutdownTimeout = 30 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg     config.Config
	logger  *slog.Logger
	store   ports.StateStore
	runner  *usecase.Runner
	closers []io.Closer
}

// New builds a runnable application. stdout receives console alerts; nil
// means os.Stdout. Close must be called to release the browser and database.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger, stdout io.Writer) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	if stdout == nil {
		stdout = os.Stdout
	}

	a := &Application{cfg: cfg, logger: baseLogger}

	registry, browser := NewRegistry(cfg.Retrieval)
	a.closers = append(a.closers, browser)

	store, closer, err := NewStateStore(ctx, cfg.State)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	a.store = store

	sink, err := NewSink(cfg.Alerts, stdout)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	router := retrieval.NewRouter(registry, cfg.Retrieval.Default, baseLogger.With("component", "retrieval"))

	a.runner = usecase.NewRunner(usecase.RunnerDeps{
		Items:   cfg.TrackedItems(),
		Fetcher: router,
		Store:   store,
		Sink:    sink,
		Logger:  baseLogger.With("component", "runner"),
	})

	return a, nil
}

// NewRegistry registers the http and browser retrievers. The browser is only
// launched when an item actually uses it.
func NewRegistry(cfg config.RetrievalConfig) (*retrieval.Registry, *fetch.BrowserRetriever) {
	registry := retrieval.NewRegistry()
	registry.Register(fetch.NewHTTPRetriever(fetch.HTTPOptions{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
		Headers:   cfg.Headers,
	}))

	browser := fetch.NewBrowserRetriever(fetch.BrowserOptions{
		ExecPath:     cfg.Browser.ExecPath,
		UserAgent:    cfg.UserAgent,
		WaitSelector: cfg.Browser.WaitSelector,
		Timeout:      cfg.Browser.Timeout,
		Headful:      cfg.Browser.Headful,
	})
	registry.Register(browser)

	return registry, browser
}

// NewStateStore opens the configured backend. The closer is nil for file
// backends.
func NewStateStore(ctx context.Context, cfg config.StateConfig) (ports.StateStore, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendJSON, "":
		return storage.NewJSONStore(cfg.Path), nil, nil
	case config.BackendSQLite:
		store, err := storage.OpenSQL(ctx, storage.SQLite, cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case config.BackendPostgres:
		store, err := storage.OpenSQL(ctx, storage.Postgres, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown state backend %q", cfg.Backend)
	}
}

// NewSink builds the enabled sinks in configuration order. No sinks yields a
// nil sink, which the runner treats as "log only".
func NewSink(cfg config.AlertsConfig, stdout io.Writer) (ports.AlertSink, error) {
	var sinks alert.MultiSink
	for _, name := range cfg.Sinks {
		switch name {
		case config.SinkConsole:
			sinks = append(sinks, alert.NewConsoleSink(stdout))
		case config.SinkLogFile:
			sinks = append(sinks, alert.NewLogFileSink(cfg.LogFile.Path))
		case config.SinkCommitMessage:
			sinks = append(sinks, alert.NewCommitMessageSink(cfg.CommitMessage.Path))
		case config.SinkTelegram:
			sinks = append(sinks, telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.APIURL))
		case config.SinkWebhook:
			sinks = append(sinks, alert.NewWebhookSink(cfg.Webhook.URL, cfg.Webhook.Headers))
		case config.SinkEmail:
			sinks = append(sinks, alert.NewEmailSink(alert.EmailOptions{
				Server:   cfg.Email.Server,
				Port:     cfg.Email.Port,
				From:     cfg.Email.From,
				Password: cfg.Email.Password,
				To:       cfg.Email.To,
			}))
		default:
			return nil, fmt.Errorf("unknown alert sink %q", name)
		}
	}

	switch len(sinks) {
	case 0:
		return nil, nil
	case 1:
		return sinks[0], nil
	default:
		return sinks, nil
	}
}

// Run performs a single pass over all configured items.
func (a *Application) Run(ctx context.Context) (usecase.RunReport, error) {
	return a.runner.Run(ctx)
}

// Schedule runs passes on the configured cron expression until ctx ends.
// With runNow a pass executes before the first trigger.
func (a *Application) Schedule(ctx context.Context, runNow bool) error {
	cron := scheduler.NewCronScheduler(
		a.cfg.Scheduler.CronExpression,
		a.cfg.Scheduler.Location(),
		a.logger.With("component", "scheduler"),
	)
	if err := cron.Validate(); err != nil {
		return err
	}

	if runNow {
		if _, err := a.runner.Run(ctx); err != nil {
			a.logger.Error("initial run failed", "error", err)
		}
	}

	sched := usecase.NewScheduler(cron, a.runner, a.logger.With("component", "scheduler"))
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started",
		"cron", a.cfg.Scheduler.CronExpression,
		"timezone", a.cfg.Scheduler.Location().String(),
		"next", cron.Next())

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := sched.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	a.logger.Info("scheduler stopped")
	return nil
}

// State returns the persisted price mapping.
func (a *Application) State(ctx context.Context) (domain.PriceState, error) {
	return a.store.Load(ctx)
}

// Close releases the browser and database handles.
func (a *Application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
