// ABOUTME: Tests for the fire-and-forget usage event log.
// ABOUTME: Covers ordering, the 50-event cap, guests and swallowed failures.
package usage

import (
	"context"
	"testing"
	"time"

	"github.com/harperreed/routines/internal/logging"
	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogEventThenLoad(t *testing.T) {
	remote := testutil.NewFakeRemote()
	l := New(remote, logging.Discard())
	rid := "routine-1"

	l.LogEvent("user-1", &rid, models.ActionCreated)
	l.LogEvent("user-1", nil, models.ActionNotesOpened)
	l.Wait()

	all, err := l.LoadEvents(context.Background(), "user-1", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := l.LoadEvents(context.Background(), "user-1", &rid)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, models.ActionCreated, scoped[0].Action)
}

func TestLoadEventsNewestFirstAndCapped(t *testing.T) {
	remote := testutil.NewFakeRemote()
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	// Inserted oldest first; the fake returns insertion order.
	for i := 0; i < MaxEvents+10; i++ {
		e := models.NewUsageEvent("user-1", nil, models.ActionViewed)
		e.Timestamp = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, remote.InsertEvent(ctx, e))
	}

	events, err := New(remote, logging.Discard()).LoadEvents(ctx, "user-1", nil)
	require.NoError(t, err)
	require.Len(t, events, MaxEvents)
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Timestamp.After(events[i-1].Timestamp), "events must be newest first")
	}
	assert.Equal(t, base.Add(time.Duration(MaxEvents+9)*time.Second), events[0].Timestamp)
}

func TestGuestEventsSkipped(t *testing.T) {
	remote := testutil.NewFakeRemote()
	l := New(remote, logging.Discard())

	l.LogEvent("", nil, models.ActionViewed)
	l.Wait()

	events, err := l.LoadEvents(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Empty(t, events)
	list, _ := remote.ListEvents(context.Background(), "", nil, 0)
	assert.Empty(t, list)
}

func TestFailuresAreSwallowed(t *testing.T) {
	remote := testutil.NewFakeRemote()
	remote.SetOffline(true)
	l := New(remote, logging.Discard())

	assert.NotPanics(t, func() {
		l.LogEvent("user-1", nil, models.ActionUpdated)
		l.Wait()
	})

	events, err := l.LoadEvents(context.Background(), "user-1", nil)
	assert.ErrorIs(t, err, testutil.ErrOffline)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}
