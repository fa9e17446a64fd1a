// ABOUTME: CLI commands for keeping the local cache and the remote store in step.
// ABOUTME: Supports now, status, link, unlink, repair, reset, and wipe operations.
package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/harperreed/routines/internal/cache"
	"github.com/harperreed/routines/internal/charm"
	"github.com/harperreed/routines/internal/config"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync routines between this device and the remote store",
	Long: `Sync routines between the local cache and the remote store.

The local cache is always written first. Signed-in users also write to the
remote store (SQLite or Charm Cloud). When the remote is unreachable, edits
stay local until the next 'routines sync now'.

With the charm backend, data is E2E encrypted with your SSH key before upload.

COMMANDS:

  now         Merge remote and local routines (remote wins)
  status      Show backend, account and counts
  link        Link this device to your Charm account
  unlink      Disconnect this device from Charm
  repair      Repair Charm database corruption
  reset       Reset local Charm data and restore from cloud (destructive)
  wipe        Delete Charm cloud and local data (destructive)`,
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Merge remote and local routines",
	Long: `Read the remote routines, merge them with the local cache and store the
result locally. Remote entries win on id.

If you used routines as a guest and the remote store is still empty, the
local routines are pushed to it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if appState.Session.IsGuest() {
			color.Yellow("Guest mode: nothing to sync")
			fmt.Println("Set \"user_id\" in the config or run 'routines sync link'.")
			return nil
		}

		merged, err := appState.Routines.Hydrate(cmd.Context())
		if err != nil {
			color.Yellow("⚠ Remote unavailable, kept local data: %v", err)
			return nil
		}
		color.Green("✓ Synced %d routines", len(merged))
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	Long: `Show current sync status including:
- Storage backend
- Signed-in user
- Local and remote routine counts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Backend:", cfg.GetBackend())
		fmt.Println("Data dir:", cfg.GetDataDir())

		userID, ok := appState.Session.UserID()
		if !ok {
			color.Yellow("Guest mode (local cache only)")
		} else {
			fmt.Println("User:", userID)
		}
		fmt.Println()

		local, _ := appState.Routines.ReadLocal()
		fmt.Printf("  Local routines: %d\n", len(local))
		if cache.IsDetached(appState.Cache) {
			color.Yellow("  Local cache locked by another process; this session keeps it in memory")
		}
		if ok {
			remote, err := appState.Routines.Count(cmd.Context())
			if err != nil {
				color.Yellow("  Remote unavailable: %v", err)
				return nil
			}
			color.Green("✓ Connected")
			fmt.Printf("  Remote routines: %d\n", remote)
		}
		return nil
	},
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	Long: `Link this device to your Charm account.

If you don't have a Charm account, one will be created using your SSH key.
Set "backend": "charm" in the config to store routines in Charm Cloud.

Example:
  routines sync link`,
	RunE: func(cmd *cobra.Command, args []string) error {
		charmCmd := exec.Command("charm", "link")
		charmCmd.Stdin = os.Stdin
		charmCmd.Stdout = os.Stdout
		charmCmd.Stderr = os.Stderr

		if err := charmCmd.Run(); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}

		color.Green("\n✓ Device linked to Charm")

		client, err := charm.Open(charm.DBName)
		if err != nil {
			color.Yellow("⚠ Initial sync skipped: %v", err)
			return nil
		}
		defer func() { _ = client.Close() }()
		if err := client.Sync(); err != nil {
			color.Yellow("⚠ Initial sync failed: %v", err)
		} else {
			color.Green("✓ Initial sync complete")
		}
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect from Charm",
	Long: `Disconnect this device from Charm.

This does not delete your local routines.
You can link again later with 'routines sync link'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		charmCmd := exec.Command("charm", "unlink")
		charmCmd.Stdin = os.Stdin
		charmCmd.Stdout = os.Stdout
		charmCmd.Stderr = os.Stderr

		if err := charmCmd.Run(); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}

		color.Green("✓ Device unlinked from Charm")
		fmt.Println("Your local routines are preserved.")
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all Charm cloud and local data",
	Long: `Delete all Charm cloud backups and local Charm data for routines.

This is a DESTRUCTIVE operation. ALL data will be permanently deleted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("This will PERMANENTLY DELETE all cloud backups and local routine data.")
		fmt.Print("Type 'wipe' to confirm: ")
		var confirm string
		_, _ = fmt.Scanln(&confirm)
		if confirm != "wipe" {
			fmt.Println("Canceled.")
			return nil
		}

		result, err := kv.Wipe(charm.DBName)
		if err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}

		// The badger cache mirrors remote data, so it goes too.
		if err := os.RemoveAll(cacheDir()); err != nil {
			color.Yellow("⚠ Could not remove local cache: %v", err)
		}

		color.Green("✓ Data wiped successfully")
		fmt.Printf("  Cloud backups deleted: %d\n", result.CloudBackupsDeleted)
		fmt.Printf("  Local files deleted: %d\n", result.LocalFilesDeleted)
		return nil
	},
}

var syncRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair database corruption",
	Long: `Repair Charm database corruption by checkpointing WAL, removing SHM files,
checking integrity, and vacuuming.

Use this when you encounter database lock errors or corruption.
Run with --force to attempt recovery even if integrity checks fail.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		fmt.Println("Repairing routines database...")
		result, err := kv.Repair(charm.DBName, force)

		if result.WalCheckpointed {
			color.Green("  ✓ WAL checkpointed")
		}
		if result.ShmRemoved {
			color.Green("  ✓ SHM file removed")
		}
		if result.IntegrityOK {
			color.Green("  ✓ Integrity check passed")
		} else {
			color.Red("  ✗ Integrity check failed")
		}
		if result.Vacuumed {
			color.Green("  ✓ Database vacuumed")
		}

		if err != nil {
			if !force {
				color.Yellow("\nRun with --force to attempt recovery.")
			}
			return fmt.Errorf("repair failed: %w", err)
		}

		color.Green("\n✓ Repair complete")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local data and restore from cloud",
	Long: `Delete local Charm data and restore it from Charm Cloud.

The local cache is cleared too; run 'routines sync now' afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("This will DELETE all local routine data and restore from cloud.")
		fmt.Print("Continue? [y/N]: ")
		var confirm string
		_, _ = fmt.Scanln(&confirm)
		if confirm != "y" && confirm != "Y" {
			fmt.Println("Canceled.")
			return nil
		}

		if err := kv.Reset(charm.DBName); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		if err := os.RemoveAll(cacheDir()); err != nil {
			color.Yellow("⚠ Could not remove local cache: %v", err)
		}

		color.Green("✓ Local data reset and restored from cloud")
		return nil
	},
}

// cacheDir resolves the cache location for commands that run without a session.
func cacheDir() string {
	c, err := config.Load()
	if err != nil {
		c = &config.Config{}
	}
	return c.CacheDir()
}

func init() {
	syncCmd.AddCommand(syncNowCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncRepairCmd)
	syncCmd.AddCommand(syncResetCmd)
	syncCmd.AddCommand(syncWipeCmd)

	syncRepairCmd.Flags().Bool("force", false, "Attempt recovery even if integrity checks fail")

	rootCmd.AddCommand(syncCmd)
}
