// ABOUTME: Local key-value cache backed by Badger.
// ABOUTME: Holds serialized routine and completion lists; falls back to memory when the directory is locked.
package cache

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v3"
)

// Keys used by the routine store.
const (
	RoutinesKey    = "routines"
	CompletionsKey = "routine_completions"
)

// ErrReadOnly is returned for writes that only the local cache would keep
// while another process holds the cache directory.
var ErrReadOnly = errors.New("cannot write: local cache is locked by another process (MCP server?)")

// Cache is a synchronous key-value store. Get reports false for missing keys.
type Cache interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Badger is a Cache stored in a Badger database on disk or in memory.
type Badger struct {
	db       *badger.DB
	detached bool
}

// Compile-time check that Badger implements Cache.
var _ Cache = (*Badger)(nil)

// Open opens or creates a Badger cache in dir.
// When another process holds the directory lock, Open returns an in-memory
// cache for the session instead and Detached reports true.
func Open(dir string) (*Badger, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err == nil {
		return &Badger{db: db}, nil
	}
	if !isLocked(err) {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	mem, memErr := OpenInMemory()
	if memErr != nil {
		return nil, fmt.Errorf("open cache: %w", errors.Join(err, memErr))
	}
	mem.detached = true
	return mem, nil
}

// isLocked matches Badger's directory lock failure, which carries no sentinel.
func isLocked(err error) bool {
	return strings.Contains(err.Error(), "Another process is using this Badger database")
}

// Detached reports whether the cache is a session-only stand-in for a
// directory locked by another process. Its contents are lost on Close.
func (b *Badger) Detached() bool {
	return b.detached
}

// IsDetached reports whether c is a session-only stand-in.
func IsDetached(c Cache) bool {
	d, ok := c.(interface{ Detached() bool })
	return ok && d.Detached()
}

// OpenInMemory opens a Badger cache that lives only for the process.
func OpenInMemory() (*Badger, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open in-memory cache: %w", err)
	}
	return &Badger{db: db}, nil
}

// Get returns the value stored under key.
func (b *Badger) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (b *Badger) Set(key string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (b *Badger) Delete(key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (b *Badger) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
