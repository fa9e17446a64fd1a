// ABOUTME: CLI commands for managing routine definitions.
// ABOUTME: Supports add, list, show, step add, and delete.
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/routines"
	"github.com/spf13/cobra"
)

var (
	routineTime        string
	routineDescription string
	routineThumbnail   string
	routineSteps       []string
	routineListTime    string
	stepProduct        string
	stepBrand          string
)

var routineCmd = &cobra.Command{
	Use:     "routine",
	Aliases: []string{"r"},
	Short:   "Manage routines",
	Long: `Create, inspect and delete skincare routines.

A routine is an ordered list of steps tagged morning, evening or both.
Steps may name a product; streaks and insights are computed per product.

Routines are referenced by ID, ID prefix, or name (case-insensitive).`,
}

var routineAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a routine",
	Long: `Create a routine.

Steps are given as "Title", "Title:Product" or "Title:Product:Brand".

Examples:
  routines routine add "Morning Glow" --time morning --step "Cleanse:Gentle Cleanser:Acme"
  routines routine add "Night Repair" --time evening --step "Treat:Retinol Serum" --step "Moisturize"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !models.IsValidTimeOfDay(routineTime) {
			return fmt.Errorf("unknown time of day: %s (use morning, evening, or both)", routineTime)
		}

		r := models.NewRoutine(args[0], models.TimeOfDay(routineTime))
		if routineDescription != "" {
			r.WithDescription(routineDescription)
		}
		if routineThumbnail != "" {
			r.WithThumbnail(routineThumbnail)
		}
		for _, raw := range routineSteps {
			title, product, err := parseStep(raw)
			if err != nil {
				return err
			}
			r.AddStep(title, product)
		}

		if err := saveRoutine(cmd.Context(), r); err != nil {
			return err
		}

		color.Green("✓ Added routine %s", r.Name)
		fmt.Fprintf(cmd.OutOrStdout(), "  %s %s, %d steps\n", faint.Sprint(shortID(r.ID)), r.TimeOfDay, r.StepCount)
		return nil
	},
}

var routineListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List routines",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := appState.Routines.ReadLocal()
		if err != nil {
			color.Yellow("⚠ %v", err)
		}

		out := cmd.OutOrStdout()
		shown := 0
		for _, r := range list {
			if routineListTime != "" && string(r.TimeOfDay) != routineListTime {
				continue
			}
			fmt.Fprintf(out, "%s %s %s %d steps\n",
				faint.Sprint(shortID(r.ID)),
				padRight(r.Name, 24),
				padRight(string(r.TimeOfDay), 8),
				r.StepCount)
			shown++
		}
		if shown == 0 {
			fmt.Fprintln(out, "No routines found.")
		}
		return nil
	},
}

var routineShowCmd = &cobra.Command{
	Use:   "show <routine>",
	Short: "Show a routine with its steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := appState.Routines.Lookup(args[0])
		if err != nil {
			return err
		}

		userID, _ := appState.Session.UserID()
		appState.Usage.LogEvent(userID, &r.ID, models.ActionViewed)

		out := cmd.OutOrStdout()
		bold.Fprintf(out, "%s", r.Name)
		fmt.Fprintf(out, " %s\n", faint.Sprintf("(%s, %s)", r.TimeOfDay, shortID(r.ID)))
		if r.Description != nil && *r.Description != "" {
			fmt.Fprintln(out, *r.Description)
		}
		for _, s := range r.Steps {
			product := ""
			if s.Product != nil {
				product = s.Product.Name
				if s.Product.Brand != "" {
					product += faint.Sprintf(" by %s", s.Product.Brand)
				}
			}
			fmt.Fprintf(out, "  %d. %s %s\n", s.StepNumber, padRight(s.Title, 16), product)
		}
		return nil
	},
}

var routineStepCmd = &cobra.Command{
	Use:   "step <routine> <title>",
	Short: "Append a step to a routine",
	Long: `Append a step to a routine. Signed-in users get a new version.

Example:
  routines routine step night "Protect" --product "Barrier Cream" --brand Acme`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := appState.Routines.Lookup(args[0])
		if err != nil {
			return err
		}

		var product *models.Product
		if stepProduct != "" {
			product = models.NewProduct(stepProduct, stepBrand)
		}
		updated := r.Clone().AddStep(args[1], product)

		if err := saveRoutine(cmd.Context(), updated); err != nil {
			return err
		}
		color.Green("✓ Added step %d to %s", updated.StepCount, updated.Name)
		return nil
	},
}

var routineDeleteCmd = &cobra.Command{
	Use:     "delete <routine>",
	Aliases: []string{"rm"},
	Short:   "Delete a routine",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := appState.Routines.Lookup(args[0])
		if err != nil {
			return err
		}
		ok, err := appState.Routines.Delete(cmd.Context(), r.ID)
		if !ok {
			return fmt.Errorf("failed to delete routine: %w", err)
		}
		color.Green("✓ Deleted %s", r.Name)
		return nil
	},
}

// saveRoutine saves r and warns when only the local mirror was written.
func saveRoutine(ctx context.Context, r *models.Routine) error {
	ok, err := appState.Routines.Save(ctx, r)
	if ok {
		return nil
	}
	if errors.Is(err, routines.ErrRemoteSave) {
		color.Yellow("⚠ Saved locally only: %v", err)
		return nil
	}
	return fmt.Errorf("failed to save routine: %w", err)
}

func init() {
	routineAddCmd.Flags().StringVarP(&routineTime, "time", "t", string(models.Morning), "time of day (morning, evening, both)")
	routineAddCmd.Flags().StringVarP(&routineDescription, "description", "d", "", "routine description")
	routineAddCmd.Flags().StringVar(&routineThumbnail, "thumbnail", "", "image path or URL for the routine")
	routineAddCmd.Flags().StringArrayVarP(&routineSteps, "step", "s", nil, `step as "Title[:Product[:Brand]]" (repeatable)`)
	routineListCmd.Flags().StringVarP(&routineListTime, "time", "t", "", "filter by time of day")
	routineStepCmd.Flags().StringVarP(&stepProduct, "product", "p", "", "product used in the step")
	routineStepCmd.Flags().StringVarP(&stepBrand, "brand", "b", "", "product brand")

	routineCmd.AddCommand(routineAddCmd)
	routineCmd.AddCommand(routineListCmd)
	routineCmd.AddCommand(routineShowCmd)
	routineCmd.AddCommand(routineStepCmd)
	routineCmd.AddCommand(routineDeleteCmd)
	rootCmd.AddCommand(routineCmd)
}
