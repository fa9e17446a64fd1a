// ABOUTME: CLI commands for the skin profile.
// ABOUTME: Shows and updates skin type and concerns in profile.yaml.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/routines/internal/config"
	"github.com/harperreed/routines/internal/profile"
	"github.com/spf13/cobra"
)

var (
	profileSkinType string
	profileConcerns string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update your skin profile",
	Long: `Your skin profile tunes product suggestions in 'routines insights'.

Skin types: normal, dry, oily, combination, sensitive.
Concerns are free-form tags such as acne, aging, dullness, hyperpigmentation.`,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the skin profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		fp := profile.NewFileProvider(config.ProfilePath())
		p, err := fp.Profile()
		if err != nil {
			return fmt.Errorf("failed to read profile: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Skin type: %s\n", p.SkinType)
		concerns := strings.Join(p.Concerns, ", ")
		if concerns == "" {
			concerns = faint.Sprint("none")
		}
		fmt.Fprintf(out, "Concerns:  %s\n", concerns)
		fmt.Fprintf(out, "%s\n", faint.Sprint(fp.Path()))
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the skin profile",
	Long: `Update the skin profile. Flags that are not given keep their value.

Examples:
  routines profile set --skin-type oily
  routines profile set --concerns "acne, aging"
  routines profile set --concerns ""        # clear concerns`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fp := profile.NewFileProvider(config.ProfilePath())
		p, err := fp.Profile()
		if err != nil {
			color.Yellow("⚠ Existing profile unreadable, starting fresh: %v", err)
			p = profile.Default()
		}

		if cmd.Flags().Changed("skin-type") {
			p.SkinType = profile.SkinType(strings.ToLower(strings.TrimSpace(profileSkinType)))
		}
		if cmd.Flags().Changed("concerns") {
			p.Concerns = strings.Split(profileConcerns, ",")
		}

		if err := fp.Save(p); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		color.Green("✓ Profile updated")
		return nil
	},
}

func init() {
	profileSetCmd.Flags().StringVar(&profileSkinType, "skin-type", "", "skin type (normal, dry, oily, combination, sensitive)")
	profileSetCmd.Flags().StringVar(&profileConcerns, "concerns", "", "comma-separated concerns")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
	rootCmd.AddCommand(profileCmd)
}
