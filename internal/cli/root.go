// Package cli provides the command-line interface for reeltalk.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "reeltalk",
	Short: "Conversational movie question answering over the MovieLens dataset",
	Long: `Reeltalk is a conversational agent that answers movie questions.

A query is routed through intent classification and entity extraction, then
answered by a tool-calling agent that queries the MovieLens ratings dataset
with read-only SQL.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
