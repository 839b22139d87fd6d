// Package commands implements the dealhunter command line.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"DealHunter/internal/app"
	"DealHunter/internal/config"
	"DealHunter/internal/logging"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCmd assembles the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "dealhunter",
		Short:         "dealhunter watches product pages and alerts on price drops and target prices.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config.yaml (default $DEAL_HUNTER_CONFIG or ./config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	root.AddCommand(
		newRunCmd(opts),
		newScheduleCmd(opts),
		newInitCmd(),
		newItemsCmd(opts),
		newStateCmd(opts),
	)
	return root
}

// ExecuteContext runs the CLI and returns the process exit code.
func ExecuteContext(ctx context.Context) int {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func (o *rootOptions) load() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, logging.New(cfg.Logging.Level, cfg.Logging.Format), nil
}

func (o *rootOptions) application(ctx context.Context, out io.Writer) (*app.Application, config.Config, error) {
	cfg, log, err := o.load()
	if err != nil {
		return nil, config.Config{}, err
	}
	application, err := app.New(ctx, cfg, log, out)
	if err != nil {
		return nil, config.Config{}, err
	}
	return application, cfg, nil
}
