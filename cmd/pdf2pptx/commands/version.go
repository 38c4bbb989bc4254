package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		if jsonMode {
			fmt.Fprintf(cmd.OutOrStdout(), "{\"version\":%q,\"go\":%q}\n", version, runtime.Version())
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pdf2pptx version %s (%s)\n", version, runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
