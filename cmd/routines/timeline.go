// ABOUTME: CLI command for a routine's activity timeline.
// ABOUTME: Shows versions, journal notes and usage events newest first.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/routines/internal/models"
	"github.com/spf13/cobra"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline <routine>",
	Short: "Show a routine's timeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := appState.Routines.Lookup(args[0])
		if err != nil {
			return err
		}

		userID, _ := appState.Session.UserID()
		feed, err := appState.Timeline.Build(cmd.Context(), userID, r.ID)
		if err != nil {
			color.Yellow("⚠ %v", err)
		}

		out := cmd.OutOrStdout()
		if len(feed) == 0 {
			fmt.Fprintln(out, "Nothing on the timeline yet.")
			return nil
		}
		for _, e := range feed {
			fmt.Fprintf(out, "%s %s %s\n",
				faint.Sprint(e.Timestamp.Local().Format("2006-01-02 15:04")),
				timelineColor(e.Type).Sprint(padRight(e.Category, 8)),
				e.Title)
			if e.Description != "" {
				fmt.Fprintf(out, "  %s\n", e.Description)
			}
		}
		return nil
	},
}

func timelineColor(t models.TimelineType) *color.Color {
	switch t {
	case models.TimelineFromVersion:
		return color.New(color.FgMagenta)
	case models.TimelineFromNote:
		return color.New(color.FgCyan)
	default:
		return faint
	}
}

func init() {
	rootCmd.AddCommand(timelineCmd)
}
