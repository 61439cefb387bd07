package commands

import "github.com/spf13/cobra"

var serverAddr string

// NewRootCmd builds the streamlinkctl root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "streamlinkctl",
		Short: "Operate a streamlink edge server's link registry",
	}
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "http://localhost:8080", "Edge server base URL")
	rootCmd.AddCommand(
		newRegisterCmd(),
		newGetCmd(),
		newRmCmd(),
		newPurgeCmd(),
		newLsCmd(),
		newCountCmd(),
	)
	return rootCmd
}

func client() *adminClient {
	return newAdminClient(serverAddr)
}
