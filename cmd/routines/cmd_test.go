// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Tests parseDate, parseStep, truncate, padRight, flags, and an end-to-end run.
package main

import (
	"context"
	"testing"
	"time"

	"github.com/harperreed/routines/internal/app"
	"github.com/harperreed/routines/internal/config"
	"github.com/harperreed/routines/internal/logging"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "empty is today", input: "", want: "2025-03-15"},
		{name: "today", input: "today", want: "2025-03-15"},
		{name: "yesterday", input: "Yesterday", want: "2025-03-14"},
		{name: "date", input: "2025-01-31", want: "2025-01-31"},
		{name: "invalid format", input: "31-01-2025", wantErr: true},
		{name: "random string", input: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.input, now)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseDate(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDate(%q) unexpected error: %v", tt.input, err)
			}
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("parseDate(%q) = %s, want %s", tt.input, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestParseStep(t *testing.T) {
	title, product, err := parseStep("Treat: Retinol Serum : Acme")
	if err != nil {
		t.Fatalf("parseStep failed: %v", err)
	}
	if title != "Treat" {
		t.Errorf("title = %q, want Treat", title)
	}
	if product == nil || product.Name != "Retinol Serum" || product.Brand != "Acme" {
		t.Errorf("unexpected product: %+v", product)
	}

	title, product, err = parseStep("Moisturize")
	if err != nil || title != "Moisturize" || product != nil {
		t.Errorf("parseStep(title only) = %q, %v, %v", title, product, err)
	}

	_, product, err = parseStep("Cleanse:")
	if err != nil || product != nil {
		t.Errorf("empty product should be nil, got %v, %v", product, err)
	}

	if _, _, err := parseStep(":Serum"); err == nil {
		t.Error("expected error for missing title")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "short string no truncation", input: "hello", maxLen: 10, want: "hello"},
		{name: "exact length", input: "hello", maxLen: 5, want: "hello"},
		{name: "needs truncation", input: "hello world this is a long string", maxLen: 10, want: "hello w..."},
		{name: "multibyte", input: "crème hydratante", maxLen: 8, want: "crème..."},
		{name: "empty string", input: "", maxLen: 10, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"hi", 5, "hi   "},
		{"hello", 5, "hello"},
		{"hello world", 5, "hello world"},
		{"", 3, "   "},
	}

	for _, tt := range tests {
		got := padRight(tt.input, tt.length)
		if got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
		}
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID = %q", got)
	}
}

func TestParseVersion(t *testing.T) {
	if n, err := parseVersion("3"); err != nil || n != 3 {
		t.Errorf("parseVersion(3) = %d, %v", n, err)
	}
	for _, bad := range []string{"0", "-1", "v2", ""} {
		if _, err := parseVersion(bad); err == nil {
			t.Errorf("parseVersion(%q) expected error", bad)
		}
	}
}

func TestRootCmd(t *testing.T) {
	if rootCmd.Use != "routines" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "routines")
	}

	want := []string{"routine", "complete", "streaks", "insights", "history", "diff", "revert",
		"timeline", "note", "events", "sync", "profile", "export", "import", "migrate", "mcp", "install-skill"}
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, n := range want {
		if !names[n] {
			t.Errorf("expected command %q to be registered", n)
		}
	}
}

func TestRoutineCmdSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range routineCmd.Commands() {
		names[c.Name()] = true
	}
	for _, n := range []string{"add", "list", "show", "step", "delete"} {
		if !names[n] {
			t.Errorf("expected routine subcommand %q", n)
		}
	}

	if routineAddCmd.Flags().Lookup("step") == nil {
		t.Error("expected --step flag on routine add")
	}
	if f := routineAddCmd.Flags().Lookup("time"); f == nil || f.DefValue != "morning" {
		t.Error("expected --time flag defaulting to morning")
	}
}

func TestNoteListCmdFlags(t *testing.T) {
	f := noteListCmd.Flags().Lookup("limit")
	if f == nil {
		t.Fatal("expected --limit flag on note list")
	}
	if f.DefValue != "20" {
		t.Errorf("expected default limit 20, got %s", f.DefValue)
	}
	if noteCmd.PersistentFlags().Lookup("routine") == nil {
		t.Error("expected --routine flag on note")
	}
}

func TestSessionlessCommands(t *testing.T) {
	for _, name := range []string{"link", "unlink", "wipe", "reset", "repair", "install-skill"} {
		if !noSession[name] {
			t.Errorf("expected %q to run without a session", name)
		}
	}
	if noSession["routine"] || noSession["export"] {
		t.Error("data commands must open a session")
	}
}

func TestEndToEnd(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	c := &config.Config{UserID: "tester"}
	if err := c.Save(); err != nil {
		t.Fatalf("save config: %v", err)
	}

	run := func(args ...string) {
		t.Helper()
		rootCmd.SetArgs(args)
		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("routines %v: %v", args, err)
		}
	}

	run("routine", "add", "Night Repair", "--time", "evening", "--step", "Treat:Retinol Serum:Acme")
	run("complete", "night repair", "--date", "today")
	run("profile", "set", "--skin-type", "oily", "--concerns", "Acne, aging")

	if appState != nil {
		t.Fatal("session should be closed after each command")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	a, err := app.Open(cfg, logging.Discard())
	if err != nil {
		t.Fatalf("open app: %v", err)
	}
	defer func() { _ = a.Close() }()

	list, _ := a.Routines.ReadLocal()
	if len(list) != 1 || list[0].Name != "Night Repair" || list[0].StepCount != 1 {
		t.Fatalf("unexpected routines: %+v", list)
	}

	done, _ := a.Routines.Completions()
	if len(done) != 1 || done[0].RoutineID != list[0].ID {
		t.Errorf("unexpected completions: %+v", done)
	}

	versions, err := a.Versions.ListVersions(context.Background(), list[0].ID)
	if err != nil || len(versions) != 1 || versions[0].ChangeSummary != "Initial version" {
		t.Errorf("unexpected versions: %+v, %v", versions, err)
	}

	remote, _ := a.Routines.Count(context.Background())
	if remote != 1 {
		t.Errorf("remote count = %d, want 1", remote)
	}

	p, err := a.Profile.Profile()
	if err != nil {
		t.Fatalf("read profile: %v", err)
	}
	if p.SkinType != "oily" || !p.HasConcern("acne") || !p.HasConcern("aging") {
		t.Errorf("unexpected profile: %+v", p)
	}
}
