// ABOUTME: MCP resource implementations for routines.
// ABOUTME: Provides the routines://summary dashboard resource.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/routines/internal/streak"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const summaryURI = "routines://summary"

func (s *Server) registerResources() {
	// routines://summary - routines, streak summary and insights in one document
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Routine Summary Dashboard",
		Description: "Saved routines, streak summary and current insights",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

// Resource handlers

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	list, err := s.app.Routines.ReadLocal()
	if err != nil {
		s.app.Logger.Warn("summary routines", "err", err)
	}
	streaks, _ := s.app.ProductStreaks()
	insights, _ := s.app.GenerateInsights(ctx)

	type routineLine struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		TimeOfDay string `json:"time_of_day"`
		StepCount int    `json:"step_count"`
	}
	lines := make([]routineLine, 0, len(list))
	for _, r := range list {
		lines = append(lines, routineLine{ID: r.ID, Name: r.Name, TimeOfDay: string(r.TimeOfDay), StepCount: r.StepCount})
	}

	result := map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"guest":        s.app.Session.IsGuest(),
		"routines":     lines,
		"streaks":      streak.Summarize(streaks),
		"insights":     insights,
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      summaryURI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
