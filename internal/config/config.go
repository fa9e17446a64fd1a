// ABOUTME: Routines configuration management with backend selection.
// ABOUTME: Handles settings, identity resolution and the remote store factory.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/routines/internal/charm"
	"github.com/harperreed/routines/internal/storage"
)

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
)

// Config stores routines tool configuration.
type Config struct {
	// Backend selects the remote store: "sqlite" (default) or "charm".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for local data.
	// SQLite puts routines.db here and the local cache lives in cache/.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/routines.
	DataDir string `json:"data_dir,omitempty"`

	// UserID is the signed-in user for the sqlite backend. Empty means guest.
	// The charm backend uses the Charm account id instead.
	UserID string `json:"user_id,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `json:"log_level,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// CacheDir returns the directory of the local Badger cache.
func (c *Config) CacheDir() string {
	return filepath.Join(c.GetDataDir(), "cache")
}

// GetLogLevel returns the configured log level, defaulting to "warn".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "warn"
	}
	return c.LogLevel
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenRemote creates the Remote implementation for the configured backend.
func (c *Config) OpenRemote() (storage.Remote, error) {
	switch c.GetBackend() {
	case BackendSQLite:
		return storage.Open(filepath.Join(c.GetDataDir(), storage.DBFile))
	case BackendCharm:
		return charm.Open(charm.DBName)
	default:
		return nil, fmt.Errorf("unknown backend: %q", c.Backend)
	}
}

// identifier is implemented by remotes that know their own account id.
type identifier interface {
	ID() (string, error)
}

// ResolveUserID returns the signed-in user for remote, or "" for a guest.
// The sqlite backend uses the configured id; charm asks the account.
func (c *Config) ResolveUserID(remote storage.Remote) (string, error) {
	if id, ok := remote.(identifier); ok && c.GetBackend() == BackendCharm {
		userID, err := id.ID()
		if err != nil {
			return "", fmt.Errorf("resolve charm account: %w", err)
		}
		return userID, nil
	}
	return strings.TrimSpace(c.UserID), nil
}

// Dir returns the configuration directory.
func Dir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "routines")
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	return filepath.Join(Dir(), "config.json")
}

// ProfilePath returns the skin profile file path.
func ProfilePath() string {
	return filepath.Join(Dir(), "profile.yaml")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
