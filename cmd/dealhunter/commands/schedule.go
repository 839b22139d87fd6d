package commands

import (
	"github.com/spf13/cobra"
)

func newScheduleCmd(opts *rootOptions) *cobra.Command {
	var runNow bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run checks on scheduler.cronExpression until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, _, err := opts.application(cmd.Context(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer application.Close()

			return application.Schedule(cmd.Context(), runNow)
		},
	}
	cmd.Flags().BoolVar(&runNow, "now", false, "run once immediately before waiting for the first trigger")
	return cmd
}
