package commands

import (
	"github.com/spf13/cobra"
)

func newItemsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "items",
		Short: "List configured items.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			renderItems(cmd.OutOrStdout(), cfg.TrackedItems(), cfg.Retrieval.Default)
			return nil
		},
	}
}
