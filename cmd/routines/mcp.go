// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/routines/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP lets AI assistants read and update your routines through a standardized
protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "routines": {
        "command": "routines",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_routines     List routines, optionally by time of day
  complete_routine  Mark a routine done for a day
  get_streaks       Per-product streaks with a summary
  get_insights      Up to five routine insights
  list_versions     Version history of a routine
  revert_routine    Restore an earlier version
  add_note          Add a journal note
  get_timeline      Versions, notes and activity of a routine

AVAILABLE RESOURCES:

  routines://summary   Routine counts, streak summary and insights`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(appState)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
