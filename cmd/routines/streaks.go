// ABOUTME: CLI command for per-product streaks.
// ABOUTME: Shows current and longest consecutive-day usage with a summary.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/routines/internal/streak"
	"github.com/spf13/cobra"
)

var streaksCmd = &cobra.Command{
	Use:   "streaks",
	Short: "Show product streaks",
	Long: `Show consecutive-day usage for every product in your routines.

A streak is current when the product was used today or yesterday.
Products whose streak broke after three or more days need attention.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := appState.ProductStreaks()
		if err != nil {
			color.Yellow("⚠ %v", err)
		}

		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No products tracked yet. Add steps with a product to a routine.")
			return nil
		}

		for _, s := range list {
			marker := faint.Sprint("·")
			if s.IsActive {
				marker = color.GreenString("●")
			}
			last := s.LastUsedDate
			if last == "" {
				last = "never"
			}
			fmt.Fprintf(out, "%s %s %3d current %3d longest  %s\n",
				marker, padRight(truncate(s.ProductName, 28), 28),
				s.CurrentStreak, s.LongestStreak, faint.Sprint(last))
		}

		sum := streak.Summarize(list)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Active: %d\n", sum.ActiveCount)
		if sum.LongestCurrent != nil {
			fmt.Fprintf(out, "Best: %s (%d days)\n", sum.LongestCurrent.ProductName, sum.LongestCurrent.CurrentStreak)
		}
		for _, s := range sum.NeedsAttention {
			color.Yellow("Needs attention: %s (was %d days)", s.ProductName, s.LongestStreak)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(streaksCmd)
}
