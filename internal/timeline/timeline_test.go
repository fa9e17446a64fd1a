// ABOUTME: Tests for timeline normalization, ordering and the entry cap.
// ABOUTME: The builder is exercised against real stores over the fake remote.
package timeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/routines/internal/journal"
	"github.com/harperreed/routines/internal/logging"
	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/session"
	"github.com/harperreed/routines/internal/testutil"
	"github.com/harperreed/routines/internal/usage"
	"github.com/harperreed/routines/internal/versions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(minutes int) time.Time {
	return testutil.Today.Add(time.Duration(minutes) * time.Minute)
}

func TestMergeOrdersNewestFirst(t *testing.T) {
	label := "tweak"
	versions := []*models.RoutineVersion{
		{RoutineID: "r1", VersionNumber: 1, ChangeSummary: "Initial version", CreatedAt: at(1)},
		{RoutineID: "r1", VersionNumber: 2, Label: &label, ChangeSummary: "Added SPF", CreatedAt: at(5)},
	}
	notes := []*models.Note{{ID: "n1", Content: "calm skin", CreatedAt: at(3)}}
	events := []*models.UsageEvent{{ID: "e1", Action: models.ActionViewed, Timestamp: at(4)}}

	feed := Merge(versions, notes, events)
	require.Len(t, feed, 4)
	var got []string
	for _, e := range feed {
		got = append(got, e.ID)
	}
	assert.Equal(t, []string{"version:r1:2", "event:e1", "note:n1", "version:r1:1"}, got)
	assert.Equal(t, "Version 2: tweak", feed[0].Title)
	assert.Equal(t, "Routine viewed", feed[1].Title)
	assert.Equal(t, CategoryJournal, feed[2].Category)
	assert.Equal(t, models.TimelineFromVersion, feed[3].Type)
}

func TestMergeCapsAndStaysSorted(t *testing.T) {
	var events []*models.UsageEvent
	var notes []*models.Note
	for i := 0; i < 40; i++ {
		events = append(events, &models.UsageEvent{ID: models.NewUsageEvent("u", nil, models.ActionViewed).ID, Action: models.ActionViewed, Timestamp: at(i * 2)})
		notes = append(notes, &models.Note{ID: models.NewNote("u", "x").ID, Content: "x", CreatedAt: at(i*2 + 1)})
	}

	feed := Merge(nil, notes, events)
	require.Len(t, feed, MaxEntries)
	for i := 1; i < len(feed); i++ {
		assert.False(t, feed[i].Timestamp.After(feed[i-1].Timestamp))
	}
	assert.Equal(t, at(79), feed[0].Timestamp)
}

func TestNoteExcerpt(t *testing.T) {
	short := FromNote(&models.Note{ID: "a", Content: "short"})
	assert.Equal(t, "short", short.Description)

	long := strings.Repeat("é", 100)
	e := FromNote(&models.Note{ID: "b", Content: long})
	assert.Equal(t, strings.Repeat("é", NoteExcerpt)+"…", e.Description)

	exact := strings.Repeat("a", NoteExcerpt)
	assert.Equal(t, exact, FromNote(&models.Note{ID: "c", Content: exact}).Description)
}

func TestMergeEmpty(t *testing.T) {
	feed := Merge(nil, nil, nil)
	assert.NotNil(t, feed)
	assert.Empty(t, feed)
}

func TestBuilder(t *testing.T) {
	ctx := context.Background()
	remote := testutil.NewFakeRemote()
	identity := session.New("user-1")
	vs := versions.New(remote, identity, logging.Discard())
	j := journal.New(remote, identity, logging.Discard())
	log := usage.New(remote, logging.Discard())

	r := models.NewRoutine("AM", models.Morning).AddStep("Cleanse", models.NewProduct("Cleanser", ""))
	_, err := vs.Record(ctx, r, "")
	require.NoError(t, err)
	_, err = j.Add(ctx, "first week", &r.ID)
	require.NoError(t, err)
	_, err = j.Add(ctx, "unrelated", nil)
	require.NoError(t, err)
	log.LogEvent("user-1", &r.ID, models.ActionViewed)
	log.Wait()

	feed, err := NewBuilder(vs, j, log, logging.Discard()).Build(ctx, "user-1", r.ID)
	require.NoError(t, err)
	assert.Len(t, feed, 3)

	remote.SetOffline(true)
	feed, err = NewBuilder(vs, j, log, logging.Discard()).Build(ctx, "user-1", r.ID)
	assert.ErrorIs(t, err, testutil.ErrOffline)
	assert.Empty(t, feed)
}
