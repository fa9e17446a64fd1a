// ABOUTME: CLI command for routine insights.
// ABOUTME: Prints up to five rule-derived observations with severity colors.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show routine insights",
	Long: `Show observations about your routines: streaks, ingredient conflicts,
product suggestions for your skin profile, and progress tracking.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := appState.GenerateInsights(cmd.Context())
		if err != nil {
			appState.Logger.Warn("some insight sources failed", "err", err)
		}

		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "Nothing to report yet.")
			return nil
		}
		for _, in := range list {
			severityColor(in.Severity).Fprintf(out, "%s", in.Title)
			fmt.Fprintf(out, " %s\n", faint.Sprintf("[%s]", in.Type))
			fmt.Fprintf(out, "  %s\n", in.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(insightsCmd)
}

