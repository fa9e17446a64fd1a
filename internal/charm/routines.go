// ABOUTME: Routine, version, event and note operations for Charm KV storage.
// ABOUTME: KV has no queries, so filtering, ordering and counting happen client-side.
package charm

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/harperreed/routines/internal/models"
)

// routineRecord is the stored shape of a routine: the definition plus ownership and the active flag.
type routineRecord struct {
	UserID  string          `json:"user_id"`
	Active  bool            `json:"active"`
	Routine *models.Routine `json:"routine"`
}

func routineKey(userID, routineID string) string {
	return RoutinePrefix + userID + ":" + routineID
}

func versionPrefix(userID, routineID string) string {
	return VersionPrefix + userID + ":" + routineID + ":"
}

// versionKey zero-pads the number so keys sort in version order.
func versionKey(userID, routineID string, n int) string {
	return fmt.Sprintf("%s%08d", versionPrefix(userID, routineID), n)
}

func eventKey(e *models.UsageEvent) string {
	return EventPrefix + e.UserID + ":" + e.ID
}

func noteKey(n *models.Note) string {
	return NotePrefix + n.UserID + ":" + n.ID
}

// UpsertRoutine stores the routine as active, replacing any copy with the same id.
func (c *Client) UpsertRoutine(_ context.Context, userID string, r *models.Routine) error {
	data, err := marshalJSON(routineRecord{UserID: userID, Active: true, Routine: r})
	if err != nil {
		return fmt.Errorf("marshal routine: %w", err)
	}
	return c.set(routineKey(userID, r.ID), data)
}

// ListRoutines returns the user's active routines, most recently updated first.
func (c *Client) ListRoutines(_ context.Context, userID string) ([]*models.Routine, error) {
	records, err := c.routineRecords(userID)
	if err != nil {
		return nil, err
	}

	var routines []*models.Routine
	for _, rec := range records {
		if rec.Active {
			routines = append(routines, rec.Routine)
		}
	}
	sort.Slice(routines, func(i, j int) bool {
		return routines[i].UpdatedAt.After(routines[j].UpdatedAt)
	})
	return routines, nil
}

// DeactivateRoutine clears the active flag on a stored routine.
func (c *Client) DeactivateRoutine(_ context.Context, userID, routineID string) error {
	key := routineKey(userID, routineID)
	data, err := c.get(key)
	if err != nil {
		return fmt.Errorf("deactivate routine %s: %w", routineID, err)
	}
	rec, err := unmarshalJSON[routineRecord](data)
	if err != nil {
		return fmt.Errorf("unmarshal routine: %w", err)
	}

	rec.Active = false
	rec.Routine.UpdatedAt = time.Now()
	out, err := marshalJSON(rec)
	if err != nil {
		return fmt.Errorf("marshal routine: %w", err)
	}
	return c.set(key, out)
}

// CountRoutines returns the number of active routines for the user.
func (c *Client) CountRoutines(ctx context.Context, userID string) (int, error) {
	routines, err := c.ListRoutines(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(routines), nil
}

func (c *Client) routineRecords(userID string) ([]*routineRecord, error) {
	all, err := c.listByPrefix(RoutinePrefix + userID + ":")
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}
	var records []*routineRecord
	for _, data := range all {
		rec, err := unmarshalJSON[routineRecord](data)
		if err != nil || rec.Routine == nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// InsertVersion stores a version. Returns storage.ErrConflict if the number is taken.
func (c *Client) InsertVersion(_ context.Context, userID string, v *models.RoutineVersion) error {
	data, err := marshalJSON(v)
	if err != nil {
		return fmt.Errorf("marshal version: %w", err)
	}
	if err := c.setIfAbsent(versionKey(userID, v.RoutineID, v.VersionNumber), data); err != nil {
		return fmt.Errorf("insert version %d of %s: %w", v.VersionNumber, v.RoutineID, err)
	}
	return nil
}

// LatestVersionNumber returns the highest version number for a routine, or 0.
func (c *Client) LatestVersionNumber(_ context.Context, userID, routineID string) (int, error) {
	prefix := versionPrefix(userID, routineID)
	keys, err := c.keysByPrefix(prefix)
	if err != nil {
		return 0, fmt.Errorf("latest version: %w", err)
	}
	latest := 0
	for _, key := range keys {
		n, err := strconv.Atoi(extractID(key, prefix))
		if err != nil {
			continue
		}
		if n > latest {
			latest = n
		}
	}
	return latest, nil
}

// GetVersion retrieves one version of a routine.
func (c *Client) GetVersion(_ context.Context, userID, routineID string, versionNumber int) (*models.RoutineVersion, error) {
	data, err := c.get(versionKey(userID, routineID, versionNumber))
	if err != nil {
		return nil, fmt.Errorf("version %d of %s: %w", versionNumber, routineID, err)
	}
	v, err := unmarshalJSON[models.RoutineVersion](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal version: %w", err)
	}
	return v, nil
}

// ListVersions returns every version of a routine, newest first.
func (c *Client) ListVersions(_ context.Context, userID, routineID string) ([]*models.RoutineVersion, error) {
	all, err := c.listByPrefix(versionPrefix(userID, routineID))
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	var versions []*models.RoutineVersion
	for _, data := range all {
		v, err := unmarshalJSON[models.RoutineVersion](data)
		if err != nil {
			continue
		}
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].VersionNumber > versions[j].VersionNumber
	})
	return versions, nil
}

// InsertEvent appends a usage event.
func (c *Client) InsertEvent(_ context.Context, e *models.UsageEvent) error {
	data, err := marshalJSON(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return c.set(eventKey(e), data)
}

// ListEvents returns the user's events, newest first. A limit of 0 means no limit.
func (c *Client) ListEvents(_ context.Context, userID string, routineID *string, limit int) ([]*models.UsageEvent, error) {
	all, err := c.listByPrefix(EventPrefix + userID + ":")
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	var events []*models.UsageEvent
	for _, data := range all {
		e, err := unmarshalJSON[models.UsageEvent](data)
		if err != nil {
			continue
		}
		if routineID != nil && (e.RoutineID == nil || *e.RoutineID != *routineID) {
			continue
		}
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

// InsertNote appends a journal note.
func (c *Client) InsertNote(_ context.Context, n *models.Note) error {
	data, err := marshalJSON(n)
	if err != nil {
		return fmt.Errorf("marshal note: %w", err)
	}
	return c.set(noteKey(n), data)
}

// ListNotes returns the user's notes, newest first. A limit of 0 means no limit.
func (c *Client) ListNotes(_ context.Context, userID string, routineID *string, limit int) ([]*models.Note, error) {
	all, err := c.listByPrefix(NotePrefix + userID + ":")
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	var notes []*models.Note
	for _, data := range all {
		n, err := unmarshalJSON[models.Note](data)
		if err != nil {
			continue
		}
		if routineID != nil && (n.RoutineID == nil || *n.RoutineID != *routineID) {
			continue
		}
		notes = append(notes, n)
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	if limit > 0 && len(notes) > limit {
		notes = notes[:limit]
	}
	return notes, nil
}

// CountNotes returns how many notes the user has, optionally for one routine.
func (c *Client) CountNotes(ctx context.Context, userID string, routineID *string) (int, error) {
	notes, err := c.ListNotes(ctx, userID, routineID, 0)
	if err != nil {
		return 0, err
	}
	return len(notes), nil
}

// keysByPrefix returns the keys matching prefix without loading values.
func (c *Client) keysByPrefix(prefix string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, key := range keys {
		if bytes.HasPrefix(key, []byte(prefix)) {
			out = append(out, string(key))
		}
	}
	return out, nil
}
