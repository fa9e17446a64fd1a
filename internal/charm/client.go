// ABOUTME: Charm KV client wrapper for cloud routine storage.
// ABOUTME: Implements storage.Remote with prefixed JSON keys and automatic cloud sync.
package charm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/harperreed/routines/internal/storage"
)

const (
	// DBName is the Charm KV database holding routine data.
	DBName    = "routines"
	charmHost = "charm.2389.dev"

	RoutinePrefix = "routine:"
	VersionPrefix = "version:"
	EventPrefix   = "event:"
	NotePrefix    = "note:"
)

// errReadOnly is returned by writes while another process holds the database lock.
var errReadOnly = fmt.Errorf("cannot write: database is locked by another process (MCP server?)")

// Client is a storage.Remote backed by Charm KV.
type Client struct {
	kv       *kv.KV
	autoSync bool
	mu       sync.RWMutex
}

// Compile-time check that Client implements storage.Remote.
var _ storage.Remote = (*Client)(nil)

// Open opens the named Charm KV database and pulls remote data.
func Open(name string) (*Client, error) {
	// Set server before opening KV
	if os.Getenv("CHARM_HOST") == "" {
		if err := os.Setenv("CHARM_HOST", charmHost); err != nil {
			return nil, err
		}
	}

	db, err := kv.OpenWithDefaultsFallback(name)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}

	c := &Client{kv: db, autoSync: true}

	// Pull remote data on startup (skip in read-only mode)
	if !db.IsReadOnly() {
		_ = db.Sync()
	}
	return c, nil
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like an MCP server) holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *Client) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// ID returns the Charm user ID for the current account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// syncIfEnabled calls Sync if autoSync is enabled. Caller holds the lock.
func (c *Client) syncIfEnabled() {
	if c.autoSync && !c.kv.IsReadOnly() {
		_ = c.kv.Sync()
	}
}

// set stores a value with the given key.
func (c *Client) set(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return errReadOnly
	}
	if err := c.kv.Set([]byte(key), data); err != nil {
		return err
	}
	c.syncIfEnabled()
	return nil
}

// setIfAbsent stores a value only when the key is unused.
func (c *Client) setIfAbsent(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return errReadOnly
	}
	keys, err := c.kv.Keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		if string(k) == key {
			return storage.ErrConflict
		}
	}
	if err := c.kv.Set([]byte(key), data); err != nil {
		return err
	}
	c.syncIfEnabled()
	return nil
}

// get retrieves the value stored under an exact key.
func (c *Client) get(key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		if string(k) == key {
			return c.kv.Get(k)
		}
	}
	return nil, storage.ErrNotFound
}

// listByPrefix returns all values with keys matching the given prefix.
func (c *Client) listByPrefix(prefix string) ([][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var results [][]byte
	prefixBytes := []byte(prefix)

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		if bytes.HasPrefix(key, prefixBytes) {
			val, err := c.kv.Get(key)
			if err != nil {
				return nil, err
			}
			results = append(results, val)
		}
	}

	return results, nil
}

// unmarshalJSON is a helper to unmarshal JSON data.
func unmarshalJSON[T any](data []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// marshalJSON is a helper to marshal data to JSON.
func marshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

// extractID extracts the ID portion from a prefixed key.
func extractID(key, prefix string) string {
	return strings.TrimPrefix(key, prefix)
}
