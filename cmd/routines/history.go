// ABOUTME: CLI commands for routine version history.
// ABOUTME: Lists versions, shows the diff between two versions, and reverts.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/harperreed/routines/internal/versions"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history <routine>",
	Short: "List a routine's versions",
	Long: `List the numbered versions of a routine, newest first.

Versions are created for signed-in users on every save.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := appState.Routines.Lookup(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if appState.Session.IsGuest() {
			fmt.Fprintln(out, "Version history needs a signed-in user.")
			return nil
		}

		list, err := appState.Versions.ListVersions(cmd.Context(), r.ID)
		if err != nil {
			return fmt.Errorf("failed to list versions: %w", err)
		}
		if len(list) == 0 {
			fmt.Fprintln(out, "No versions yet.")
			return nil
		}

		for _, v := range list {
			label := ""
			if v.Label != nil {
				label = " " + bold.Sprint(*v.Label)
			}
			fmt.Fprintf(out, "v%-3d %s%s\n", v.VersionNumber, faint.Sprint(v.CreatedAt.Format("2006-01-02 15:04")), label)
			fmt.Fprintf(out, "     %s\n", v.ChangeSummary)
		}
		return nil
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff <routine> <from> <to>",
	Short: "Compare two versions of a routine",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := appState.Routines.Lookup(args[0])
		if err != nil {
			return err
		}
		from, err := parseVersion(args[1])
		if err != nil {
			return err
		}
		to, err := parseVersion(args[2])
		if err != nil {
			return err
		}

		older, err := appState.Versions.Get(cmd.Context(), r.ID, from)
		if err != nil {
			return err
		}
		newer, err := appState.Versions.Get(cmd.Context(), r.ID, to)
		if err != nil {
			return err
		}

		added, removed := versions.Changes(older.Snapshot.Steps, newer.Snapshot.Steps)
		out := cmd.OutOrStdout()
		for _, name := range added {
			fmt.Fprintln(out, color.GreenString("+ %s", name))
		}
		for _, name := range removed {
			fmt.Fprintln(out, color.RedString("- %s", name))
		}
		if len(added) == 0 && len(removed) == 0 {
			fmt.Fprintln(out, versions.Diff(older.Snapshot.Steps, newer.Snapshot.Steps))
		}
		return nil
	},
}

var revertCmd = &cobra.Command{
	Use:   "revert <routine> <version>",
	Short: "Restore an earlier version",
	Long: `Restore an earlier version of a routine.

The restored content is saved as a new version labelled "Reverted to vN";
later versions stay in the history.

Example:
  routines revert night 1`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := appState.Routines.Lookup(args[0])
		if err != nil {
			return err
		}
		n, err := parseVersion(args[1])
		if err != nil {
			return err
		}

		reverted, err := appState.Versions.Revert(cmd.Context(), appState.Routines, r.ID, n)
		if err != nil {
			return fmt.Errorf("failed to revert: %w", err)
		}
		color.Green("✓ %s reverted to v%d", reverted.Name, n)
		return nil
	},
}

func parseVersion(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid version %q (use a number like 1)", s)
	}
	return n, nil
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(revertCmd)
}
