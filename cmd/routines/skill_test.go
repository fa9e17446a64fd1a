// ABOUTME: Tests for the install-skill command.
// ABOUTME: Validates skill installation, confirmation, and file content.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInstallSkillWritesFile(t *testing.T) {
	skillSkipConfirm = true
	t.Cleanup(func() { skillSkipConfirm = false })

	dir := filepath.Join(t.TempDir(), "skills", "routines")
	var out bytes.Buffer
	if err := installSkill(&out, strings.NewReader(""), dir); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}

	written, err := os.ReadFile(filepath.Join(dir, "SKILL.md"))
	if err != nil {
		t.Fatalf("skill file not written: %v", err)
	}
	embedded, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("read embedded skill: %v", err)
	}
	if !bytes.Equal(written, embedded) {
		t.Error("installed skill differs from embedded skill")
	}
	if !strings.Contains(out.String(), "Installed routines skill") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestInstallSkillCanceled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "routines")
	var out bytes.Buffer
	if err := installSkill(&out, strings.NewReader("n\n"), dir); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "SKILL.md")); !os.IsNotExist(err) {
		t.Error("skill should not be installed after declining")
	}
	if !strings.Contains(out.String(), "canceled") {
		t.Errorf("expected cancel message, got: %s", out.String())
	}
}

func TestEmbeddedSkillFrontmatter(t *testing.T) {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("read embedded skill: %v", err)
	}
	if !strings.HasPrefix(string(content), "---\nname: routines\n") {
		t.Error("skill must start with frontmatter naming routines")
	}
}
