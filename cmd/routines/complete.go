// ABOUTME: CLI command for marking a routine done.
// ABOUTME: Records a completion for today or a given date.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var completeDate string

var completeCmd = &cobra.Command{
	Use:     "complete <routine>",
	Aliases: []string{"done"},
	Short:   "Mark a routine as done",
	Long: `Mark a routine as done for a day. Marking the same day twice is a no-op.

Examples:
  routines complete "morning glow"
  routines complete night --date yesterday
  routines complete 3f2a --date 2025-03-14`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := appState.Routines.Lookup(args[0])
		if err != nil {
			return err
		}

		at, err := parseDate(completeDate, time.Now())
		if err != nil {
			return err
		}

		added, err := appState.Routines.MarkComplete(r.ID, at)
		if err != nil {
			return fmt.Errorf("failed to record completion: %w", err)
		}
		if !added {
			fmt.Fprintf(cmd.OutOrStdout(), "%s was already done on %s\n", r.Name, at.Format("2006-01-02"))
			return nil
		}

		color.Green("✓ %s done on %s", r.Name, at.Format("2006-01-02"))
		return nil
	},
}

func init() {
	completeCmd.Flags().StringVarP(&completeDate, "date", "d", "", "day to mark (today, yesterday, or YYYY-MM-DD)")
	rootCmd.AddCommand(completeCmd)
}
