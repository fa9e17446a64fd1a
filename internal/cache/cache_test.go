// ABOUTME: Tests for the Badger-backed local cache.
// ABOUTME: Covers get/set/delete, persistence on disk and the locked-directory fallback.
package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerGetSetDelete(t *testing.T) {
	c, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	_, ok, err := c.Get(RoutinesKey)
	require.NoError(t, err)
	assert.False(t, ok, "missing key should report not found")

	require.NoError(t, c.Set(RoutinesKey, []byte(`[]`)))
	got, ok, err := c.Get(RoutinesKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, c.Delete(RoutinesKey))
	_, ok, err = c.Get(RoutinesKey)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, c.Delete("never-set"))
}

func TestBadgerPersistsOnDisk(t *testing.T) {
	dir := t.TempDir()

	c, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, c.Set(CompletionsKey, []byte("data")))
	require.NoError(t, c.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, ok, err := reopened.Get(CompletionsKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "data", string(got))
}

func TestOpenLockedDirFallsBackToMemory(t *testing.T) {
	dir := t.TempDir()

	owner, err := Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = owner.Close() })
	require.NoError(t, owner.Set(RoutinesKey, []byte("owned")))
	assert.False(t, owner.Detached())

	second, err := Open(dir)
	require.NoError(t, err, "a locked directory must not fail the open")
	t.Cleanup(func() { _ = second.Close() })
	assert.True(t, second.Detached())
	assert.True(t, IsDetached(second))

	_, ok, err := second.Get(RoutinesKey)
	require.NoError(t, err)
	assert.False(t, ok, "detached cache starts empty")

	require.NoError(t, second.Set(RoutinesKey, []byte("session")))
	got, _, err := owner.Get(RoutinesKey)
	require.NoError(t, err)
	assert.Equal(t, "owned", string(got), "detached writes must not reach the locked directory")
}

func TestIsDetached(t *testing.T) {
	c, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.False(t, IsDetached(c))
	assert.False(t, IsDetached(nil))
}
