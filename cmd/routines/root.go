// ABOUTME: Root Cobra command for routines CLI.
// ABOUTME: Opens the session services in PersistentPreRunE and closes them in PersistentPostRunE.
package main

import (
	"fmt"
	"os"

	"github.com/harperreed/routines/internal/app"
	"github.com/harperreed/routines/internal/config"
	"github.com/harperreed/routines/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfg      *config.Config
	appState *app.App

	logLevel string
)

// noSession lists commands that never touch stored data.
var noSession = map[string]bool{
	"help":          true,
	"version":       true,
	"install-skill": true,
	"completion":    true,
	"link":          true,
	"unlink":        true,
	"wipe":          true,
	"reset":         true,
	"repair":        true,
}

var rootCmd = &cobra.Command{
	Use:   "routines",
	Short: "Skincare routine tracker",
	Long: `Routines keeps your skincare routines, tracks how consistently you follow
them and points out streaks, ingredient conflicts and progress.

QUICK START:

  $ routines routine add "Morning Glow" --time morning \
      --step "Cleanse:Gentle Cleanser" --step "Protect:SPF 50"
  $ routines complete "morning glow"      # Mark it done today
  $ routines streaks                      # Consecutive days per product
  $ routines insights                     # Up to five observations

HISTORY:

  Every save of a signed-in user creates a numbered version.

  $ routines history morning              # List versions
  $ routines revert morning 1             # Restore version 1 (adds v3, keeps v2)
  $ routines timeline morning             # Versions, notes and activity together

GUEST MODE:

  Without a user id (sqlite backend) or a linked Charm account, everything
  stays in the local cache. Set "user_id" in the config, or link Charm,
  then run 'routines sync now' to push local routines to the remote store.

CONFIGURATION:

  ~/.config/routines/config.json
    backend    sqlite (default) or charm
    data_dir   defaults to ~/.local/share/routines
    user_id    identity for the sqlite backend
    log_level  debug, info, warn (default), error

  ~/.config/routines/profile.yaml holds your skin type and concerns.

MCP INTEGRATION:

  Run 'routines mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "routines": { "command": "routines", "args": ["mcp"] }
    }
  }`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noSession[cmd.Name()] {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.GetLogLevel()
		if logLevel != "" {
			level = logLevel
		}
		logger := logging.New(os.Stderr, level)

		appState, err = app.Open(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to open routines data: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if appState == nil {
			return nil
		}
		err := appState.Close()
		appState = nil
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
}
