// ABOUTME: CLI commands for journal notes.
// ABOUTME: Notes are stored remotely and need a signed-in user.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/session"
	"github.com/spf13/cobra"
)

var (
	noteRoutine string
	noteLimit   int
)

var noteCmd = &cobra.Command{
	Use:     "note",
	Aliases: []string{"n"},
	Short:   "Journal notes",
}

var noteAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a journal note",
	Long: `Add a journal note, optionally tied to a routine.

Examples:
  routines note add "Skin felt tight after the new cleanser"
  routines note add "Less redness" --routine night`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		routineID, err := noteRoutineID()
		if err != nil {
			return err
		}
		if routineID != nil {
			userID, _ := appState.Session.UserID()
			appState.Usage.LogEvent(userID, routineID, models.ActionNotesOpened)
		}

		n, err := appState.Journal.Add(cmd.Context(), strings.Join(args, " "), routineID)
		if errors.Is(err, session.ErrGuest) {
			return errors.New("notes need a signed-in user; set user_id in the config or link Charm")
		}
		if err != nil {
			return fmt.Errorf("failed to add note: %w", err)
		}
		color.Green("✓ Added note %s", shortID(n.ID))
		return nil
	},
}

var noteListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List journal notes",
	RunE: func(cmd *cobra.Command, args []string) error {
		routineID, err := noteRoutineID()
		if err != nil {
			return err
		}

		notes, err := appState.Journal.List(cmd.Context(), routineID, noteLimit)
		if err != nil {
			return fmt.Errorf("failed to list notes: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(notes) == 0 {
			fmt.Fprintln(out, "No notes found.")
			return nil
		}
		for _, n := range notes {
			fmt.Fprintf(out, "%s %s %s\n",
				faint.Sprint(shortID(n.ID)),
				faint.Sprint(n.CreatedAt.Local().Format("2006-01-02 15:04")),
				truncate(n.Content, 60))
		}
		return nil
	},
}

func noteRoutineID() (*string, error) {
	if noteRoutine == "" {
		return nil, nil
	}
	r, err := appState.Routines.Lookup(noteRoutine)
	if err != nil {
		return nil, err
	}
	return &r.ID, nil
}

func init() {
	noteCmd.PersistentFlags().StringVarP(&noteRoutine, "routine", "r", "", "routine the note belongs to")
	noteListCmd.Flags().IntVarP(&noteLimit, "limit", "n", 20, "maximum notes to show")

	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
	rootCmd.AddCommand(noteCmd)
}
