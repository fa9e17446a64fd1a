// ABOUTME: MCP server setup for the routines tracker.
// ABOUTME: Wraps the MCP server around one session's services.
package mcp

import (
	"context"
	"errors"

	"github.com/harperreed/routines/internal/app"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with session access.
type Server struct {
	mcpServer *mcp.Server
	app       *app.App
}

// NewServer creates a new MCP server over the given session services.
func NewServer(a *app.App) (*Server, error) {
	if a == nil {
		return nil, errors.New("mcp: app is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "routines",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		app:       a,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
