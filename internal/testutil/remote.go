// ABOUTME: In-memory storage.Remote with switchable failure for tests.
// ABOUTME: Lets packages exercise offline and error paths without a database.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/storage"
)

// ErrOffline is returned by every FakeRemote call while Offline is set.
var ErrOffline = errors.New("remote unreachable")

type routineRow struct {
	userID string
	active bool
	r      *models.Routine
}

// FakeRemote keeps remote data in maps. Safe for concurrent use.
type FakeRemote struct {
	mu       sync.Mutex
	offline  bool
	routines map[string]*routineRow
	order    []string
	versions map[string]map[int]*models.RoutineVersion
	events   []*models.UsageEvent
	notes    []*models.Note

	// Upserts counts successful UpsertRoutine calls.
	Upserts int
}

var _ storage.Remote = (*FakeRemote)(nil)

// NewFakeRemote creates an empty, reachable fake.
func NewFakeRemote() *FakeRemote {
	return &FakeRemote{
		routines: make(map[string]*routineRow),
		versions: make(map[string]map[int]*models.RoutineVersion),
	}
}

// SetOffline makes every following call fail with ErrOffline.
func (f *FakeRemote) SetOffline(offline bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offline = offline
}

func (f *FakeRemote) check() error {
	if f.offline {
		return ErrOffline
	}
	return nil
}

func (f *FakeRemote) UpsertRoutine(_ context.Context, userID string, r *models.Routine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	existing, ok := f.routines[r.ID]
	if ok && existing.userID != userID {
		return fmt.Errorf("upsert %s: %w", r.ID, storage.ErrConflict)
	}
	if !ok {
		f.order = append(f.order, r.ID)
	}
	f.routines[r.ID] = &routineRow{userID: userID, active: true, r: r.Clone()}
	f.Upserts++
	return nil
}

func (f *FakeRemote) ListRoutines(_ context.Context, userID string) ([]*models.Routine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	var out []*models.Routine
	for _, id := range f.order {
		row := f.routines[id]
		if row.userID == userID && row.active {
			out = append(out, row.r.Clone())
		}
	}
	return out, nil
}

func (f *FakeRemote) DeactivateRoutine(_ context.Context, userID, routineID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	row, ok := f.routines[routineID]
	if !ok || row.userID != userID {
		return fmt.Errorf("deactivate %s: %w", routineID, storage.ErrNotFound)
	}
	row.active = false
	return nil
}

func (f *FakeRemote) CountRoutines(ctx context.Context, userID string) (int, error) {
	rs, err := f.ListRoutines(ctx, userID)
	return len(rs), err
}

// Active reports whether the remote holds routineID as active.
func (f *FakeRemote) Active(routineID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.routines[routineID]
	return ok && row.active
}

// versionsKey scopes history by owner the way the real backends do.
func versionsKey(userID, routineID string) string {
	return userID + "/" + routineID
}

func (f *FakeRemote) InsertVersion(_ context.Context, userID string, v *models.RoutineVersion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	key := versionsKey(userID, v.RoutineID)
	byNumber := f.versions[key]
	if byNumber == nil {
		byNumber = make(map[int]*models.RoutineVersion)
		f.versions[key] = byNumber
	}
	if _, taken := byNumber[v.VersionNumber]; taken {
		return storage.ErrConflict
	}
	cp := *v
	byNumber[v.VersionNumber] = &cp
	return nil
}

func (f *FakeRemote) LatestVersionNumber(_ context.Context, userID, routineID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return 0, err
	}
	latest := 0
	for n := range f.versions[versionsKey(userID, routineID)] {
		if n > latest {
			latest = n
		}
	}
	return latest, nil
}

func (f *FakeRemote) GetVersion(_ context.Context, userID, routineID string, n int) (*models.RoutineVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	v, ok := f.versions[versionsKey(userID, routineID)][n]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *FakeRemote) ListVersions(_ context.Context, userID, routineID string) ([]*models.RoutineVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	var out []*models.RoutineVersion
	for _, v := range f.versions[versionsKey(userID, routineID)] {
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNumber > out[j].VersionNumber })
	return out, nil
}

func (f *FakeRemote) InsertEvent(_ context.Context, e *models.UsageEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	f.events = append(f.events, e)
	return nil
}

// ListEvents returns events in insertion order; ordering is the caller's job.
func (f *FakeRemote) ListEvents(_ context.Context, userID string, routineID *string, limit int) ([]*models.UsageEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	var out []*models.UsageEvent
	for _, e := range f.events {
		if e.UserID != userID {
			continue
		}
		if routineID != nil && (e.RoutineID == nil || *e.RoutineID != *routineID) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *FakeRemote) InsertNote(_ context.Context, n *models.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	f.notes = append(f.notes, n)
	return nil
}

func (f *FakeRemote) ListNotes(_ context.Context, userID string, routineID *string, limit int) ([]*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	var out []*models.Note
	for i := len(f.notes) - 1; i >= 0; i-- {
		n := f.notes[i]
		if n.UserID != userID {
			continue
		}
		if routineID != nil && (n.RoutineID == nil || *n.RoutineID != *routineID) {
			continue
		}
		out = append(out, n)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *FakeRemote) CountNotes(ctx context.Context, userID string, routineID *string) (int, error) {
	ns, err := f.ListNotes(ctx, userID, routineID, 0)
	return len(ns), err
}

func (f *FakeRemote) Close() error { return nil }
