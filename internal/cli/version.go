package cli

import (
	"fmt"

	"color-verifier/internal/version"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "colorcheck %s\n", version.String())
	},
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.AddCommand(versionCmd)
}
