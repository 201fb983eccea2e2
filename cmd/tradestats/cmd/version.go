package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the tradestats CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tradestats version %s\n", version)
		fmt.Fprintln(cmd.OutOrStdout(), "Performance metrics for closed option trade logs")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
