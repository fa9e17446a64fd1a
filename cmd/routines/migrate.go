// ABOUTME: CLI command for copying routine data between storage backends.
// ABOUTME: Moves routines, versions, events and notes from SQLite to Charm or back.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/routines/internal/charm"
	"github.com/harperreed/routines/internal/config"
	"github.com/harperreed/routines/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo     string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data to another backend",
	Long: `Copy routine data from the configured backend to another one.

Routines, versions, usage events and notes of the signed-in user are copied.
Versions already present in the destination are skipped, so a rerun is safe.
The configuration is not changed; set "backend" afterwards to switch.

USAGE:

  routines migrate --to charm --dry-run   # Preview what would be copied
  routines migrate --to charm             # Copy SQLite data to Charm
  routines migrate --to sqlite            # Copy Charm data to SQLite`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateTo != config.BackendSQLite && migrateTo != config.BackendCharm {
			return fmt.Errorf("unknown backend: %s (use sqlite or charm)", migrateTo)
		}
		if migrateTo == cfg.GetBackend() {
			return fmt.Errorf("already using the %s backend", migrateTo)
		}

		userID, ok := appState.Session.UserID()
		if !ok {
			return fmt.Errorf("migration needs a signed-in user")
		}

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Println()
			data, err := storage.GetAllData(cmd.Context(), appState.Remote, userID)
			if err != nil {
				return fmt.Errorf("failed to read source: %w", err)
			}
			fmt.Printf("Would copy to %s:\n", migrateTo)
			fmt.Printf("  Routines: %d\n", len(data.Routines))
			fmt.Printf("  Versions: %d\n", len(data.Versions))
			fmt.Printf("  Notes:    %d\n", len(data.Notes))
			return nil
		}

		target := *cfg
		target.Backend = migrateTo
		dst, err := target.OpenRemote()
		if err != nil {
			return fmt.Errorf("failed to open %s backend: %w", migrateTo, err)
		}
		defer func() { _ = dst.Close() }()

		// One cloud sync at the end instead of one per write.
		if client, ok := dst.(*charm.Client); ok {
			client.SetAutoSync(false)
			defer func() {
				if err := client.Sync(); err != nil {
					color.Yellow("⚠ Cloud sync failed: %v", err)
				}
			}()
		}

		summary, err := storage.MigrateData(cmd.Context(), appState.Remote, dst, userID)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated to %s", migrateTo)
		fmt.Printf("  Routines: %d\n", summary.Routines)
		fmt.Printf("  Versions: %d\n", summary.Versions)
		fmt.Printf("  Events:   %d\n", summary.Events)
		fmt.Printf("  Notes:    %d\n", summary.Notes)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", config.BackendCharm, "destination backend (sqlite or charm)")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
