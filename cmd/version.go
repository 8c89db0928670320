package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd shows the build details of the binary.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build details of incentive.",
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, "incentive CLI")
		for _, kv := range [][2]string{
			{"Version", version},
			{"Commit", commit},
			{"Built", date},
			{"Runtime", runtime.Version()},
		} {
			_, _ = fmt.Fprintf(out, "  %-8s %s\n", kv[0]+":", kv[1])
		}
	},
}
