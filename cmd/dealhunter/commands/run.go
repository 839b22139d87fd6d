package commands

import (
	"github.com/spf13/cobra"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Check every configured item once, send alerts and persist prices.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, _, err := opts.application(cmd.Context(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer application.Close()

			report, err := application.Run(cmd.Context())
			if err != nil {
				return err
			}
			if !quiet {
				renderReport(cmd.OutOrStdout(), report)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the run summary table")
	return cmd
}
