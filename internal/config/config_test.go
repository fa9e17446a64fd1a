// ABOUTME: Tests for routines configuration management.
// ABOUTME: Covers load, save, defaults, backend selection, identity and path expansion.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func setConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func TestGetBackendDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetBackend(); got != BackendSQLite {
		t.Errorf("GetBackend() = %q, want %q", got, BackendSQLite)
	}
}

func TestGetBackendExplicit(t *testing.T) {
	cfg := &Config{Backend: BackendCharm}
	if got := cfg.GetBackend(); got != BackendCharm {
		t.Errorf("GetBackend() = %q, want %q", got, BackendCharm)
	}
}

func TestGetDataDirDefault(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	cfg := &Config{}
	if got := cfg.GetDataDir(); got != "/tmp/xdg-data/routines" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/xdg-data/routines")
	}
	if got := cfg.CacheDir(); got != "/tmp/xdg-data/routines/cache" {
		t.Errorf("CacheDir() = %q", got)
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/routines-data"}
	got := cfg.GetDataDir()
	want := filepath.Join(home, "routines-data")
	if got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestGetLogLevel(t *testing.T) {
	if got := (&Config{}).GetLogLevel(); got != "warn" {
		t.Errorf("GetLogLevel() = %q, want warn", got)
	}
	if got := (&Config{LogLevel: "debug"}).GetLogLevel(); got != "debug" {
		t.Errorf("GetLogLevel() = %q, want debug", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/routines", filepath.Join(home, "data/routines")},
		{"data/routines", "data/routines"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	setConfigHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.Backend != "" || cfg.DataDir != "" || cfg.UserID != "" {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	setConfigHome(t)

	cfg := &Config{
		Backend:  BackendSQLite,
		DataDir:  "/tmp/routines-data",
		UserID:   "user-1",
		LogLevel: "info",
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded %+v, want %+v", loaded, cfg)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	cfg := &Config{Backend: BackendSQLite}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	configDir := filepath.Join(tmpDir, "nonexistent", "routines")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := setConfigHome(t)

	configDir := filepath.Join(tmpDir, "routines")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestPaths(t *testing.T) {
	tmpDir := setConfigHome(t)

	if got, want := GetConfigPath(), filepath.Join(tmpDir, "routines", "config.json"); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
	if got, want := ProfilePath(), filepath.Join(tmpDir, "routines", "profile.yaml"); got != want {
		t.Errorf("ProfilePath() = %q, want %q", got, want)
	}
}

func TestOpenRemoteSQLite(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{Backend: BackendSQLite, DataDir: tmpDir}

	remote, err := cfg.OpenRemote()
	if err != nil {
		t.Fatalf("OpenRemote() for sqlite failed: %v", err)
	}
	defer remote.Close()

	if _, err := os.Stat(filepath.Join(tmpDir, "routines.db")); os.IsNotExist(err) {
		t.Error("Expected routines.db to be created")
	}
}

func TestOpenRemoteInvalidBackend(t *testing.T) {
	cfg := &Config{Backend: "invalid", DataDir: t.TempDir()}
	if _, err := cfg.OpenRemote(); err == nil {
		t.Error("Expected error for invalid backend")
	}
}

func TestResolveUserIDSQLite(t *testing.T) {
	cfg := &Config{DataDir: t.TempDir(), UserID: "  user-1 "}
	remote, err := cfg.OpenRemote()
	if err != nil {
		t.Fatal(err)
	}
	defer remote.Close()

	id, err := cfg.ResolveUserID(remote)
	if err != nil {
		t.Fatal(err)
	}
	if id != "user-1" {
		t.Errorf("ResolveUserID() = %q, want user-1", id)
	}

	cfg.UserID = ""
	if id, _ := cfg.ResolveUserID(remote); id != "" {
		t.Errorf("empty user id should mean guest, got %q", id)
	}
}

func TestConfigJSONSerialization(t *testing.T) {
	cfg := &Config{Backend: BackendCharm, DataDir: "~/routines-data"}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if loaded != *cfg {
		t.Errorf("round trip = %+v, want %+v", loaded, *cfg)
	}
}
