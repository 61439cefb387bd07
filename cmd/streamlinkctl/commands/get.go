package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get TOKEN",
		Short: "Show the metadata registered for a link token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := client().get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "token:      %s\ncontainer:  %d\nmessage:    %d\nfile:       %s\nmime:       %s\nsize:       %d\nexpires_at: %s\n",
				l.Token, l.ContainerID, l.MessageID, l.FileName, l.MimeType, l.Size, l.ExpiresAt)
			return nil
		},
	}
}
