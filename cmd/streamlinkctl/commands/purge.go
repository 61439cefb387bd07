package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Revoke every live link token",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := client().purge()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d link(s)\n", n)
			return nil
		},
	}
}
