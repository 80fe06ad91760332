package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/pixel-tools-mcp/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the MCP protocol over stdin/stdout",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	logVerbose("serving MCP on stdio")
	return server.New(cfg).Serve(cmd.InOrStdin(), cmd.OutOrStdout())
}
