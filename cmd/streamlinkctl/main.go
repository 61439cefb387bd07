// Command streamlinkctl is the operator CLI for a streamlink edge server's
// link registry.
package main

import (
	"fmt"
	"os"

	"github.com/streamlink/streamlink/cmd/streamlinkctl/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
