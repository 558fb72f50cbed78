package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xll-gen/assetgen/version"
)

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the assetgen version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "assetgen", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
