// ABOUTME: Tests for session wiring: saves flow into versions, events and insights.
// ABOUTME: Runs against the fake remote and an in-memory cache, plus SQLite-backed sessions.
package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/harperreed/routines/internal/cache"
	"github.com/harperreed/routines/internal/config"
	"github.com/harperreed/routines/internal/logging"
	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/profile"
	"github.com/harperreed/routines/internal/session"
	"github.com/harperreed/routines/internal/storage"
	"github.com/harperreed/routines/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T, sess *session.Session) (*App, *testutil.FakeRemote) {
	t.Helper()
	c, err := cache.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	remote := testutil.NewFakeRemote()
	a, err := New(Deps{
		Session: sess,
		Logger:  logging.Discard(),
		Remote:  remote,
		Cache:   c,
		Profile: profile.Static{SchemaVersion: 1, SkinType: profile.Normal, Concerns: []string{"aging"}},
		Clock:   testutil.FixedClock(testutil.Today),
	})
	require.NoError(t, err)
	return a, remote
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)
}

func TestSignedInFlow(t *testing.T) {
	a, remote := newApp(t, session.New("user-1"))
	ctx := context.Background()

	am := models.NewRoutine("AM", models.Morning).AddStep("Cleanse", models.NewProduct("Cleanser", ""))
	pm := models.NewRoutine("PM", models.Evening).AddStep("Treat", models.NewProduct("Retinol Serum", ""))
	for _, r := range []*models.Routine{am, pm} {
		ok, err := a.Routines.Save(ctx, r)
		require.NoError(t, err)
		require.True(t, ok)
	}
	for d := 0; d < 14; d++ {
		_, err := a.Routines.MarkComplete(pm.ID, testutil.Today.AddDate(0, 0, -d))
		require.NoError(t, err)
	}
	versions, err := a.Versions.ListVersions(ctx, pm.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 1)

	require.NoError(t, a.Close())
	assert.True(t, a.Session.IsGuest(), "ended session has no user")

	list, err := remote.ListRoutines(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	events, err := a.Usage.LoadEvents(ctx, "user-1", &pm.ID)
	require.NoError(t, err)
	assert.Len(t, events, 15)

	streaks, err := a.ProductStreaks()
	require.NoError(t, err)
	require.Len(t, streaks, 1)
	assert.Equal(t, 14, streaks[0].CurrentStreak)
}

func TestGenerateInsights(t *testing.T) {
	a, _ := newApp(t, session.New("user-1"))
	ctx := context.Background()

	pm := models.NewRoutine("PM", models.Evening).AddStep("Treat", models.NewProduct("Retinol Serum", ""))
	am := models.NewRoutine("AM", models.Morning).AddStep("Cleanse", models.NewProduct("Cleanser", ""))
	for _, r := range []*models.Routine{am, pm} {
		_, err := a.Routines.Save(ctx, r)
		require.NoError(t, err)
	}
	for d := 0; d < 14; d++ {
		_, err := a.Routines.MarkComplete(pm.ID, testutil.Today.AddDate(0, 0, -d))
		require.NoError(t, err)
	}

	got, err := a.GenerateInsights(ctx)
	require.NoError(t, err)
	var ids []string
	for _, in := range got {
		ids = append(ids, in.ID)
	}
	assert.Equal(t, []string{"consistency-streak", "retinol-adjustment", "start-tracking", "balanced-routine"}, ids)
	a.Usage.Wait()
}

func TestGuestSkipsRemote(t *testing.T) {
	a, remote := newApp(t, session.Guest())
	ctx := context.Background()

	_, err := a.Routines.Save(ctx, models.NewRoutine("AM", models.Morning))
	require.NoError(t, err)
	require.NoError(t, a.Close())
	assert.Equal(t, 0, remote.Upserts)
}

func TestOpenSQLite(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg := &config.Config{DataDir: t.TempDir(), UserID: "user-1"}

	a, err := Open(cfg, logging.Discard())
	require.NoError(t, err)
	assert.False(t, a.Session.IsGuest())

	ctx := context.Background()
	r := models.NewRoutine("AM", models.Morning).AddStep("Cleanse", models.NewProduct("Cleanser", ""))
	ok, err := a.Routines.Save(ctx, r)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := a.Versions.LatestVersionNumber(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, a.Close())
}

// seedRemote stores a routine directly in the SQLite remote under dataDir.
func seedRemote(t *testing.T, dataDir, userID string) *models.Routine {
	t.Helper()
	db, err := storage.Open(filepath.Join(dataDir, storage.DBFile))
	require.NoError(t, err)
	r := models.NewRoutine("Evening Reset", models.Evening).AddStep("Cleanse", models.NewProduct("Cleanser", ""))
	require.NoError(t, db.UpsertRoutine(context.Background(), userID, r))
	require.NoError(t, db.Close())
	return r
}

func TestOpenHydratesRemoteOnlyRoutines(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg := &config.Config{DataDir: t.TempDir(), UserID: "user-1"}
	r := seedRemote(t, cfg.DataDir, "user-1")

	a, err := Open(cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	got, err := a.Routines.Lookup("Evening Reset")
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	local, err := a.Routines.ReadLocal()
	require.NoError(t, err)
	assert.Len(t, local, 1)
}

func TestOpenWhileCacheLocked(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg := &config.Config{DataDir: t.TempDir(), UserID: "user-1"}
	r := seedRemote(t, cfg.DataDir, "user-1")

	first, err := Open(cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Close() })

	second, err := Open(cfg, logging.Discard())
	require.NoError(t, err, "a second session must open while the cache is held")
	t.Cleanup(func() { _ = second.Close() })
	assert.True(t, cache.IsDetached(second.Cache))
	assert.False(t, cache.IsDetached(first.Cache))

	_, err = second.Routines.Lookup(r.ID)
	require.NoError(t, err)

	ok, err := second.Routines.Save(context.Background(), models.NewRoutine("AM", models.Morning).
		AddStep("Cleanse", models.NewProduct("Cleanser", "")))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = second.Routines.MarkComplete(r.ID, testutil.Today)
	assert.ErrorIs(t, err, cache.ErrReadOnly)
}

func TestHydrateSkipsGuests(t *testing.T) {
	a, remote := newApp(t, session.Guest())
	require.NoError(t, remote.UpsertRoutine(context.Background(), "user-1",
		models.NewRoutine("PM", models.Evening).AddStep("Cleanse", models.NewProduct("Cleanser", ""))))

	require.NoError(t, a.Hydrate(context.Background()))
	local, err := a.Routines.ReadLocal()
	require.NoError(t, err)
	assert.Empty(t, local)
}
