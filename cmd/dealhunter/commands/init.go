package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"DealHunter/internal/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a sample config.yaml to edit.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "config.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sample config written to %s; edit the items and run `dealhunter run`\n", path)
			return nil
		},
	}
}
