package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/adapters/mcp"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server provides tools for querying the timer, stats, sessions and task colors.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol.
		fmt.Fprintln(cmd.ErrOrStderr(), "🚀 Starting MCP server on stdio (Ctrl+C to stop)")

		ctx, cancel := setupSignalHandler()
		defer cancel()

		var server ports.MCPHandler = mcp.NewServer(app.state)
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}
