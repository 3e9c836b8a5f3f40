package cmd

import (
	"fmt"

	"github.com/msto63/pratt/pkg/core/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, version.Get())
		for _, name := range []string{"engine", "grammar", "server", "repl", "history"} {
			fmt.Fprintf(out, "  %-8s %s\n", name, version.ComponentVersion(name))
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
