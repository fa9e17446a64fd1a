// ABOUTME: CLI command for recent usage events.
// ABOUTME: Lists the newest actions recorded for the user or one routine.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var eventsRoutine string

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent activity",
	Long:  `Show the newest usage events (at most 50), optionally for one routine.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var routineID *string
		if eventsRoutine != "" {
			r, err := appState.Routines.Lookup(eventsRoutine)
			if err != nil {
				return err
			}
			routineID = &r.ID
		}

		userID, _ := appState.Session.UserID()
		list, err := appState.Usage.LoadEvents(cmd.Context(), userID, routineID)
		if err != nil {
			return fmt.Errorf("failed to load events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No activity recorded.")
			return nil
		}
		for _, e := range list {
			target := ""
			if e.RoutineID != nil {
				target = shortID(*e.RoutineID)
			}
			fmt.Fprintf(out, "%s %s %s\n",
				faint.Sprint(e.Timestamp.Local().Format("2006-01-02 15:04")),
				padRight(string(e.Action), 16),
				faint.Sprint(target))
		}
		return nil
	},
}

func init() {
	eventsCmd.Flags().StringVarP(&eventsRoutine, "routine", "r", "", "only events for this routine")
	rootCmd.AddCommand(eventsCmd)
}
