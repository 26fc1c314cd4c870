package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// overridden with -ldflags "-X tmdb-scraper/cmd/tmdb-scraper/commands.version=..."
var version = "dev"

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tmdb-scraper %s (%s)\n", version, runtime.Version())
	},
}
