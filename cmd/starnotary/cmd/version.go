package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starnotary/starnotary/version"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of the node.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s %s\n", version.Version, version.GitHash, version.Timestamp)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
