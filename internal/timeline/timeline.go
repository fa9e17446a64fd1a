// ABOUTME: Timeline builder: one feed from versions, notes and usage events.
// ABOUTME: Entries are newest first and capped at MaxEntries.
package timeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harperreed/routines/internal/models"
)

const (
	// MaxEntries caps the merged feed.
	MaxEntries = 50
	// NoteExcerpt is the longest note description, in runes, before truncation.
	NoteExcerpt = 80
)

// Categories attached to each source.
const (
	CategoryHistory  = "history"
	CategoryJournal  = "journal"
	CategoryActivity = "activity"
)

// FromVersion normalizes a routine version.
func FromVersion(v *models.RoutineVersion) models.TimelineEvent {
	title := fmt.Sprintf("Version %d", v.VersionNumber)
	if v.Label != nil && *v.Label != "" {
		title = fmt.Sprintf("%s: %s", title, *v.Label)
	}
	return models.TimelineEvent{
		ID:          fmt.Sprintf("version:%s:%d", v.RoutineID, v.VersionNumber),
		Type:        models.TimelineFromVersion,
		Category:    CategoryHistory,
		Title:       title,
		Description: v.ChangeSummary,
		Timestamp:   v.CreatedAt,
	}
}

// FromNote normalizes a journal note.
func FromNote(n *models.Note) models.TimelineEvent {
	return models.TimelineEvent{
		ID:          "note:" + n.ID,
		Type:        models.TimelineFromNote,
		Category:    CategoryJournal,
		Title:       "Journal note",
		Description: excerpt(n.Content, NoteExcerpt),
		Timestamp:   n.CreatedAt,
	}
}

// FromEvent normalizes a usage event.
func FromEvent(e *models.UsageEvent) models.TimelineEvent {
	return models.TimelineEvent{
		ID:          "event:" + e.ID,
		Type:        models.TimelineFromEvent,
		Category:    CategoryActivity,
		Title:       eventTitle(e.Action),
		Description: string(e.Action),
		Timestamp:   e.Timestamp,
	}
}

// Merge normalizes all three sources and returns the newest MaxEntries, newest first.
func Merge(versions []*models.RoutineVersion, notes []*models.Note, events []*models.UsageEvent) []models.TimelineEvent {
	out := make([]models.TimelineEvent, 0, len(versions)+len(notes)+len(events))
	for _, v := range versions {
		out = append(out, FromVersion(v))
	}
	for _, n := range notes {
		out = append(out, FromNote(n))
	}
	for _, e := range events {
		out = append(out, FromEvent(e))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return out
}

func excerpt(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return strings.TrimRight(string(r[:limit]), " ") + "…"
}

func eventTitle(a models.Action) string {
	switch a {
	case models.ActionCreated:
		return "Routine created"
	case models.ActionUpdated:
		return "Routine updated"
	case models.ActionDeleted:
		return "Routine deleted"
	case models.ActionViewed:
		return "Routine viewed"
	case models.ActionNotesOpened:
		return "Notes opened"
	case models.ActionProgressUpdated:
		return "Progress updated"
	default:
		return string(a)
	}
}

// VersionSource lists a routine's versions.
type VersionSource interface {
	ListVersions(ctx context.Context, routineID string) ([]*models.RoutineVersion, error)
}

// NoteSource lists notes.
type NoteSource interface {
	List(ctx context.Context, routineID *string, limit int) ([]*models.Note, error)
}

// EventSource lists usage events.
type EventSource interface {
	LoadEvents(ctx context.Context, userID string, routineID *string) ([]*models.UsageEvent, error)
}

// Builder fetches the three sources and merges them.
type Builder struct {
	versions VersionSource
	notes    NoteSource
	events   EventSource
	logger   *log.Logger
}

// NewBuilder creates a timeline builder.
func NewBuilder(versions VersionSource, notes NoteSource, events EventSource, logger *log.Logger) *Builder {
	return &Builder{versions: versions, notes: notes, events: events, logger: logger}
}

// Build returns the timeline of one routine. A failing source contributes
// nothing; the failures are joined into the returned error.
func (b *Builder) Build(ctx context.Context, userID, routineID string) ([]models.TimelineEvent, error) {
	versions, vErr := b.versions.ListVersions(ctx, routineID)
	notes, nErr := b.notes.List(ctx, &routineID, MaxEntries)
	events, eErr := b.events.LoadEvents(ctx, userID, &routineID)

	var errs []error
	for _, src := range []struct {
		name string
		err  error
	}{{"versions", vErr}, {"notes", nErr}, {"events", eErr}} {
		if src.err != nil {
			b.logger.Warn("timeline source failed", "source", src.name, "err", src.err)
			errs = append(errs, fmt.Errorf("%s: %w", src.name, src.err))
		}
	}

	feed := Merge(versions, notes, events)
	if err := errors.Join(errs...); err != nil {
		return feed, fmt.Errorf("build timeline: %w", err)
	}
	return feed, nil
}
