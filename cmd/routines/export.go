// ABOUTME: CLI commands for exporting and importing routine data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/routines/internal/cache"
	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/routines"
	"github.com/harperreed/routines/internal/storage"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export routine data",
	Long: `Export routine data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Markdown tables (for documentation/sharing)

Signed-in users export routines, versions, notes and completions from the
remote store. Guests export the routines and completions in the local cache.

EXAMPLES:

  routines export json                  # Export all data as JSON
  routines export json -o backup.json   # Save to file
  routines export markdown              # Routines as Markdown tables`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		export, err := collectExport(cmd.Context())
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		var data []byte
		switch args[0] {
		case "json":
			data, err = storage.ExportJSON(export)
		case "yaml":
			data, err = storage.ExportYAML(export)
		case "markdown":
			data = []byte(storage.ExportMarkdown(export))
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", args[0])
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import routine data from JSON",
	Long: `Import routine data from a JSON backup file.

Imported routines replace local ones with the same id. Signed-in users also
get routines, versions and notes written to the remote store; versions whose
numbers already exist are skipped.

EXAMPLES:

  routines import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if appState.Session.IsGuest() && cache.IsDetached(appState.Cache) {
			return fmt.Errorf("import failed: %w", cache.ErrReadOnly)
		}
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		data, err := storage.ImportJSON(raw)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		if userID, ok := appState.Session.UserID(); ok {
			if err := storage.ImportData(cmd.Context(), appState.Remote, userID, data); err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
		}

		local, _ := appState.Routines.ReadLocal()
		if err := appState.Routines.WriteLocal(routines.Merge(local, data.Routines)); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		for _, c := range data.Completions {
			if _, err := appState.Routines.MarkComplete(c.RoutineID, completionTime(c)); err != nil {
				return fmt.Errorf("import completions: %w", err)
			}
		}

		color.Green("✓ Imported %d routines from %s", len(data.Routines), args[0])
		return nil
	},
}

// collectExport gathers the export bundle for the current session.
func collectExport(ctx context.Context) (*storage.ExportData, error) {
	var data *storage.ExportData
	if userID, ok := appState.Session.UserID(); ok {
		var err error
		data, err = storage.GetAllData(ctx, appState.Remote, userID)
		if err != nil {
			return nil, err
		}
	} else {
		local, err := appState.Routines.ReadLocal()
		if err != nil {
			return nil, err
		}
		data = &storage.ExportData{
			Version:    "1.0",
			ExportedAt: time.Now(),
			Tool:       "routines",
			Routines:   local,
			Versions:   []*models.RoutineVersion{},
			Notes:      []*models.Note{},
		}
	}

	done, err := appState.Routines.Completions()
	if err != nil {
		return nil, err
	}
	data.Completions = done
	return data, nil
}

func completionTime(c models.Completion) time.Time {
	if !c.CompletedAt.IsZero() {
		return c.CompletedAt
	}
	t, err := time.ParseInLocation(models.DateLayout, c.Date, time.Local)
	if err != nil {
		return time.Now()
	}
	return t
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
