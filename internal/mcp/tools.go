// ABOUTME: MCP tool implementations for routines.
// ABOUTME: Lists routines, records completions, and reads streaks, insights, history and timeline.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/streak"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// list_routines
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_routines",
		Description: "List saved skincare routines with their steps",
	}, s.handleListRoutines)

	// complete_routine
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "complete_routine",
		Description: "Mark a routine as done for a day (defaults to today)",
	}, s.handleCompleteRoutine)

	// get_streaks
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_streaks",
		Description: "Get consecutive-day usage streaks per product",
	}, s.handleGetStreaks)

	// get_insights
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_insights",
		Description: "Get up to five insights about consistency, conflicts and progress",
	}, s.handleGetInsights)

	// list_versions
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_versions",
		Description: "List the saved versions of a routine, newest first",
	}, s.handleListVersions)

	// revert_routine
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "revert_routine",
		Description: "Restore a routine to an earlier version",
	}, s.handleRevertRoutine)

	// add_note
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_note",
		Description: "Add a journal note, optionally about a routine",
	}, s.handleAddNote)

	// get_timeline
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_timeline",
		Description: "Get the combined history of versions, notes and activity for a routine",
	}, s.handleGetTimeline)
}

// Tool input/output types

type listRoutinesInput struct {
	TimeOfDay string `json:"time_of_day,omitempty" jsonschema:"Filter by time of day (morning, evening, both)"`
}

type routineRefInput struct {
	Routine string `json:"routine" jsonschema:"Routine ID, ID prefix, or name"`
}

type completeRoutineInput struct {
	Routine string `json:"routine" jsonschema:"Routine ID, ID prefix, or name"`
	Date    string `json:"date,omitempty" jsonschema:"Day the routine was done (YYYY-MM-DD), defaults to today"`
}

type revertRoutineInput struct {
	Routine string `json:"routine" jsonschema:"Routine ID, ID prefix, or name"`
	Version int    `json:"version" jsonschema:"Version number to restore"`
}

type addNoteInput struct {
	Content string `json:"content" jsonschema:"Note text"`
	Routine string `json:"routine,omitempty" jsonschema:"Optional routine ID, ID prefix, or name"`
}

type emptyInput struct{}

type simpleOutput struct {
	Message string `json:"message"`
}

type routinesOutput struct {
	Routines []*models.Routine `json:"routines"`
	Count    int               `json:"count"`
}

type streaksOutput struct {
	Streaks        []models.ProductStreak `json:"streaks"`
	ActiveCount    int                    `json:"active_count"`
	LongestCurrent *models.ProductStreak  `json:"longest_current,omitempty"`
	NeedsAttention []models.ProductStreak `json:"needs_attention"`
}

type insightsOutput struct {
	Insights []models.Insight `json:"insights"`
}

type versionsOutput struct {
	RoutineID string                   `json:"routine_id"`
	Versions  []*models.RoutineVersion `json:"versions"`
}

type timelineOutput struct {
	RoutineID string                 `json:"routine_id"`
	Events    []models.TimelineEvent `json:"events"`
}

// Tool handlers

func (s *Server) handleListRoutines(ctx context.Context, req *mcp.CallToolRequest, input listRoutinesInput) (*mcp.CallToolResult, any, error) {
	if input.TimeOfDay != "" && !models.IsValidTimeOfDay(input.TimeOfDay) {
		return nil, nil, fmt.Errorf("unknown time of day: %s", input.TimeOfDay)
	}

	list, err := s.app.Routines.ReadLocal()
	if err != nil {
		s.app.Logger.Warn("list routines", "err", err)
	}

	out := []*models.Routine{}
	for _, r := range list {
		if input.TimeOfDay == "" || r.TimeOfDay == models.TimeOfDay(input.TimeOfDay) {
			out = append(out, r)
		}
	}
	return nil, routinesOutput{Routines: out, Count: len(out)}, nil
}

func (s *Server) handleCompleteRoutine(ctx context.Context, req *mcp.CallToolRequest, input completeRoutineInput) (*mcp.CallToolResult, simpleOutput, error) {
	r, err := s.app.Routines.Lookup(input.Routine)
	if err != nil {
		return nil, simpleOutput{}, err
	}

	var at time.Time
	if input.Date != "" {
		at, err = time.ParseInLocation(models.DateLayout, input.Date, time.Local)
		if err != nil {
			return nil, simpleOutput{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", input.Date)
		}
	}

	added, err := s.app.Routines.MarkComplete(r.ID, at)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to record completion: %w", err)
	}
	if !added {
		return nil, simpleOutput{Message: fmt.Sprintf("%s was already marked done for that day", r.Name)}, nil
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Marked %s done", r.Name)}, nil
}

func (s *Server) handleGetStreaks(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, streaksOutput, error) {
	streaks, err := s.app.ProductStreaks()
	if err != nil {
		s.app.Logger.Warn("streaks from partial data", "err", err)
	}
	sum := streak.Summarize(streaks)
	return nil, streaksOutput{
		Streaks:        streaks,
		ActiveCount:    sum.ActiveCount,
		LongestCurrent: sum.LongestCurrent,
		NeedsAttention: sum.NeedsAttention,
	}, nil
}

func (s *Server) handleGetInsights(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, insightsOutput, error) {
	insights, err := s.app.GenerateInsights(ctx)
	if err != nil {
		s.app.Logger.Warn("insights from partial data", "err", err)
	}
	return nil, insightsOutput{Insights: insights}, nil
}

func (s *Server) handleListVersions(ctx context.Context, req *mcp.CallToolRequest, input routineRefInput) (*mcp.CallToolResult, any, error) {
	r, err := s.app.Routines.Lookup(input.Routine)
	if err != nil {
		return nil, nil, err
	}
	list, err := s.app.Versions.ListVersions(ctx, r.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list versions: %w", err)
	}
	return nil, versionsOutput{RoutineID: r.ID, Versions: list}, nil
}

func (s *Server) handleRevertRoutine(ctx context.Context, req *mcp.CallToolRequest, input revertRoutineInput) (*mcp.CallToolResult, simpleOutput, error) {
	r, err := s.app.Routines.Lookup(input.Routine)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	if _, err := s.app.Versions.Revert(ctx, s.app.Routines, r.ID, input.Version); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to revert: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Reverted %s to v%d", r.Name, input.Version)}, nil
}

func (s *Server) handleAddNote(ctx context.Context, req *mcp.CallToolRequest, input addNoteInput) (*mcp.CallToolResult, simpleOutput, error) {
	var routineID *string
	if input.Routine != "" {
		r, err := s.app.Routines.Lookup(input.Routine)
		if err != nil {
			return nil, simpleOutput{}, err
		}
		routineID = &r.ID
	}
	n, err := s.app.Journal.Add(ctx, input.Content, routineID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to add note: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Added note %s", n.ID)}, nil
}

func (s *Server) handleGetTimeline(ctx context.Context, req *mcp.CallToolRequest, input routineRefInput) (*mcp.CallToolResult, any, error) {
	r, err := s.app.Routines.Lookup(input.Routine)
	if err != nil {
		return nil, nil, err
	}
	userID, _ := s.app.Session.UserID()
	events, err := s.app.Timeline.Build(ctx, userID, r.ID)
	if err != nil {
		s.app.Logger.Warn("timeline from partial data", "err", err)
	}
	return nil, timelineOutput{RoutineID: r.ID, Events: events}, nil
}
