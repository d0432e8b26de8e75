package main

import (
	"github.com/spf13/cobra"

	"github.com/hvppyflow/hfnodes/builtin"
	"github.com/hvppyflow/hfnodes/invoke"
	"github.com/hvppyflow/hfnodes/mcptools"
	"github.com/hvppyflow/hfnodes/middleware"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve nodes as MCP tools over stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout.

Every registered node becomes a tool named after its id. Tool results carry
the JSON invocation response, UI payload included. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		inv := invoke.New(builtin.NewRegistry(logger),
			invoke.WithLogger(logger),
			invoke.WithMiddleware(middleware.Recover(), middleware.Logging(logger)),
		)

		logger.Debug(cmd.Context(), "serving mcp over stdio", "version", version)
		return mcptools.NewServer(inv, version).ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
