package commands

import "github.com/spf13/cobra"

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm TOKEN",
		Short: "Revoke a single link token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client().remove(args[0])
		},
	}
}
