package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLsCmd() *cobra.Command {
	var skip, limit int

	c := &cobra.Command{
		Use:   "ls",
		Short: "List live link tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			links, err := client().list(skip, limit)
			if err != nil {
				return err
			}
			for _, l := range links {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", l.Token, l.Size, l.FileName)
			}
			return nil
		},
	}

	c.Flags().IntVar(&skip, "skip", 0, "Number of entries to skip")
	c.Flags().IntVar(&limit, "limit", 0, "Maximum entries to return (0 means no limit)")
	return c
}
