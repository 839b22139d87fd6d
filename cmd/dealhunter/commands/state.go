package commands

import (
	"github.com/spf13/cobra"
)

func newStateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the last recorded price per item.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, cfg, err := opts.application(cmd.Context(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer application.Close()

			state, err := application.State(cmd.Context())
			if err != nil {
				return err
			}
			renderState(cmd.OutOrStdout(), state, cfg.TrackedItems())
			return nil
		},
	}
}
