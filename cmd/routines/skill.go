// ABOUTME: Install the routines skill for AI coding assistants.
// ABOUTME: Embeds and installs the skill definition to ~/.claude/skills/

package main

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

var skillSkipConfirm bool

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install the routines skill",
	Long: `Install the routines skill for Claude Code.

This copies the skill definition to ~/.claude/skills/routines/
so the assistant can use routines commands contextually.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		return installSkill(cmd.OutOrStdout(), os.Stdin, filepath.Join(home, ".claude", "skills", "routines"))
	},
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(installSkillCmd)
}

func installSkill(out io.Writer, in io.Reader, skillDir string) error {
	skillPath := filepath.Join(skillDir, "SKILL.md")

	fmt.Fprintln(out, "This will install the routines skill, enabling the assistant to:")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  • Create and update skincare routines")
	fmt.Fprintln(out, "  • Mark routines done and read streaks")
	fmt.Fprintln(out, "  • Explain insights and ingredient conflicts")
	fmt.Fprintln(out, "  • Browse and revert routine history")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Destination:")
	fmt.Fprintf(out, "  %s\n", skillPath)
	fmt.Fprintln(out)

	if _, err := os.Stat(skillPath); err == nil {
		fmt.Fprintln(out, "Note: A skill file already exists and will be overwritten.")
		fmt.Fprintln(out)
	}

	if !skillSkipConfirm {
		fmt.Fprint(out, "Install the routines skill? [y/N] ")
		response, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read response: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(out, "Installation canceled.")
			return nil
		}
		fmt.Fprintln(out)
	}

	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		return fmt.Errorf("failed to read embedded skill: %w", err)
	}

	if err := os.MkdirAll(skillDir, 0750); err != nil {
		return fmt.Errorf("failed to create skill directory: %w", err)
	}
	if err := os.WriteFile(skillPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write skill file: %w", err)
	}

	fmt.Fprintln(out, "✓ Installed routines skill successfully!")
	return nil
}
