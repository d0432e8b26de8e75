package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags.
	verbose  bool
	output   string
	noColor  bool
	logLevel string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "hfnodes",
	Short: "Utility nodes for visual node-graph hosts",
	Long: `hfnodes ships small plugin nodes for node-graph hosts: debug print,
sleep, text splitting and text/markdown display.

Use it to inspect node schemas, run a single node from the command line,
or publish the registry over HTTP or MCP.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&output, "output", textFormat, "Output format (text, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
