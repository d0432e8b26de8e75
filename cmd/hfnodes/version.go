package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display version information about the hfnodes CLI.`,
	Example: `  # Show version
  hfnodes version

  # Show version in JSON format
  hfnodes version --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		versionInfo := map[string]string{
			"version":   version,
			"commit":    commit,
			"buildDate": buildDate,
			"goVersion": goVersion,
		}

		w := cmd.OutOrStdout()
		switch output {
		case jsonFormat, yamlFormat:
			return writeFormatted(w, output, versionInfo)
		default: // text
			fmt.Fprintf(w, "hfnodes version %s\n", version)
			if version != "dev" {
				fmt.Fprintf(w, "  commit:     %s\n", commit)
				fmt.Fprintf(w, "  built:      %s\n", buildDate)
				fmt.Fprintf(w, "  go version: %s\n", goVersion)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
