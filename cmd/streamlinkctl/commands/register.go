package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRegisterCmd() *cobra.Command {
	var containerID, messageID, size int64
	var fileName, mimeType string

	c := &cobra.Command{
		Use:   "register",
		Short: "Register an upstream object and mint a link token for it",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := client().register(containerID, messageID, fileName, mimeType, size)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), l.Token)
			return nil
		},
	}

	c.Flags().Int64Var(&containerID, "container-id", 0, "Upstream container/channel ID")
	c.Flags().Int64Var(&messageID, "message-id", 0, "Upstream message ID")
	c.Flags().Int64Var(&size, "size", 0, "Object size in bytes")
	c.Flags().StringVar(&fileName, "file-name", "", "Original file name")
	c.Flags().StringVar(&mimeType, "mime-type", "", "MIME type, if known")
	c.MarkFlagRequired("size")
	return c
}
