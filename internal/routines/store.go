// ABOUTME: Routine store: local cache plus remote canonical copy.
// ABOUTME: Guests stay local-only; signed-in users write through to the remote.
package routines

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/routines/internal/cache"
	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/session"
)

var (
	// ErrInvalidRoutine wraps validation failures on save.
	ErrInvalidRoutine = errors.New("invalid routine")
	// ErrNotFound is returned when a routine id is not in the local cache.
	ErrNotFound = errors.New("routine not found")
	// ErrRemoteSave marks a save that reached only the local mirror.
	ErrRemoteSave = errors.New("remote save failed")
	// ErrCorruptCache is returned alongside an empty list when cached data cannot be decoded.
	ErrCorruptCache = errors.New("corrupt local cache")
)

// Remote is the subset of storage.Remote the routine store needs.
type Remote interface {
	UpsertRoutine(ctx context.Context, userID string, r *models.Routine) error
	ListRoutines(ctx context.Context, userID string) ([]*models.Routine, error)
	DeactivateRoutine(ctx context.Context, userID, routineID string) error
	CountRoutines(ctx context.Context, userID string) (int, error)
}

// Snapshotter records a version after a successful remote save.
type Snapshotter interface {
	Record(ctx context.Context, r *models.Routine, label string) (*models.RoutineVersion, error)
}

// EventLogger receives fire-and-forget usage events.
type EventLogger interface {
	LogEvent(userID string, routineID *string, action models.Action)
}

// Store keeps routine definitions in the local cache and, for signed-in
// users, in the remote store.
type Store struct {
	cache     cache.Cache
	remote    Remote
	identity  session.Identity
	snapshots Snapshotter
	events    EventLogger
	logger    *log.Logger
	now       func() time.Time

	// mu serializes read-modify-write cycles on the local cache.
	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithSnapshots records a version after every signed-in save.
func WithSnapshots(s Snapshotter) Option {
	return func(st *Store) { st.snapshots = s }
}

// WithEvents logs created/updated/deleted/progress events.
func WithEvents(e EventLogger) Option {
	return func(st *Store) { st.events = e }
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(st *Store) { st.now = now }
}

// New creates a routine store.
func New(c cache.Cache, remote Remote, identity session.Identity, logger *log.Logger, opts ...Option) *Store {
	s := &Store{
		cache:    c,
		remote:   remote,
		identity: identity,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReadLocal returns the cached routine list. Missing data is an empty list;
// corrupt data is an empty list plus ErrCorruptCache.
func (s *Store) ReadLocal() ([]*models.Routine, error) {
	data, ok, err := s.cache.Get(cache.RoutinesKey)
	if err != nil {
		s.logger.Warn("read local routines failed", "err", err)
		return []*models.Routine{}, err
	}
	if !ok || len(data) == 0 {
		return []*models.Routine{}, nil
	}

	var list []*models.Routine
	if err := json.Unmarshal(data, &list); err != nil {
		s.logger.Warn("local routine cache is corrupt, treating as empty", "err", err)
		return []*models.Routine{}, fmt.Errorf("%w: %v", ErrCorruptCache, err)
	}
	out := make([]*models.Routine, 0, len(list))
	for _, r := range list {
		if r != nil && r.ID != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

// WriteLocal replaces the cached routine list.
func (s *Store) WriteLocal(list []*models.Routine) error {
	if list == nil {
		list = []*models.Routine{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal routines: %w", err)
	}
	if err := s.cache.Set(cache.RoutinesKey, data); err != nil {
		s.logger.Warn("write local routines failed", "err", err)
		return err
	}
	return nil
}

// ReadRemote returns the user's active remote routines.
// Guests get an empty list; failures return an empty list and the error.
func (s *Store) ReadRemote(ctx context.Context) ([]*models.Routine, error) {
	userID, ok := s.identity.UserID()
	if !ok {
		return []*models.Routine{}, nil
	}
	list, err := s.remote.ListRoutines(ctx, userID)
	if err != nil {
		s.logger.Warn("read remote routines failed", "err", err)
		return []*models.Routine{}, err
	}
	if list == nil {
		list = []*models.Routine{}
	}
	return list, nil
}

// Get returns a cached routine by id.
func (s *Store) Get(_ context.Context, routineID string) (*models.Routine, error) {
	list, err := s.ReadLocal()
	for _, r := range list {
		if r.ID == routineID {
			return r, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, routineID, err)
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, routineID)
}

// Save stores a routine. Guests save locally only. Signed-in saves upsert
// remotely and mirror locally; when the remote write fails the local mirror is
// still written and Save reports false with the error. Guests get
// cache.ErrReadOnly while the cache is detached.
func (s *Store) Save(ctx context.Context, r *models.Routine) (bool, error) {
	return s.SaveLabeled(ctx, r, "")
}

// SaveLabeled is Save with a label attached to the resulting version.
func (s *Store) SaveLabeled(ctx context.Context, r *models.Routine, label string) (bool, error) {
	if r == nil {
		return false, fmt.Errorf("%w: nil routine", ErrInvalidRoutine)
	}
	if err := r.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidRoutine, err)
	}

	userID, signedIn := s.identity.UserID()
	if !signedIn {
		if err := s.localOnly(); err != nil {
			return false, err
		}
	}

	r.Normalize()
	now := s.now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	var remoteErr error
	if signedIn {
		remoteErr = s.remote.UpsertRoutine(ctx, userID, r)
		if remoteErr != nil {
			s.logger.Warn("remote save failed, keeping local copy", "routine", r.ID, "err", remoteErr)
		}
	}

	existed, err := s.upsertLocal(r)
	if err != nil {
		return false, err
	}

	if signedIn && remoteErr == nil {
		s.snapshot(ctx, r, label)
	}
	action := models.ActionCreated
	if existed {
		action = models.ActionUpdated
	}
	s.logEvent(userID, &r.ID, action)

	if remoteErr != nil {
		return false, fmt.Errorf("%w: routine %s: %w", ErrRemoteSave, r.ID, remoteErr)
	}
	return true, nil
}

// Delete removes a routine. The local entry is dropped immediately; signed-in
// users also have it marked inactive remotely.
func (s *Store) Delete(ctx context.Context, routineID string) (bool, error) {
	userID, signedIn := s.identity.UserID()
	if !signedIn {
		if err := s.localOnly(); err != nil {
			return false, err
		}
	}

	removed, err := s.dropLocal(routineID)
	if err != nil {
		return false, err
	}

	if !signedIn {
		if !removed {
			return false, fmt.Errorf("%w: %s", ErrNotFound, routineID)
		}
		return true, nil
	}

	if err := s.remote.DeactivateRoutine(ctx, userID, routineID); err != nil {
		s.logger.Warn("remote delete failed", "routine", routineID, "err", err)
		return false, fmt.Errorf("delete routine %s: %w", routineID, err)
	}
	s.logEvent(userID, &routineID, models.ActionDeleted)
	return true, nil
}

// Hydrate reconciles the local cache with the remote store and returns the result.
// Guests get the local cache unchanged. A fresh remote account (remote empty,
// local not) receives the local routines.
func (s *Store) Hydrate(ctx context.Context) ([]*models.Routine, error) {
	local, _ := s.ReadLocal()

	userID, signedIn := s.identity.UserID()
	if !signedIn {
		return local, nil
	}

	remote, remoteErr := s.ReadRemote(ctx)
	merged := Merge(local, remote)
	if err := s.WriteLocal(merged); err != nil {
		return merged, err
	}

	// An unreachable remote is not an empty account.
	if remoteErr != nil {
		return merged, remoteErr
	}

	if len(local) > 0 && len(remote) == 0 {
		s.logger.Info("pushing local routines to empty remote", "count", len(merged))
		var pushErr error
		for _, r := range merged {
			if err := s.remote.UpsertRoutine(ctx, userID, r); err != nil {
				s.logger.Warn("push routine failed", "routine", r.ID, "err", err)
				pushErr = errors.Join(pushErr, err)
			}
		}
		if pushErr != nil {
			return merged, fmt.Errorf("push local routines: %w", pushErr)
		}
	}
	return merged, nil
}

// Count returns the number of the user's active remote routines, 0 for guests or on error.
func (s *Store) Count(ctx context.Context) (int, error) {
	userID, ok := s.identity.UserID()
	if !ok {
		return 0, nil
	}
	n, err := s.remote.CountRoutines(ctx, userID)
	if err != nil {
		s.logger.Warn("count routines failed", "err", err)
		return 0, err
	}
	return n, nil
}

// upsertLocal replaces or appends r in the cache and reports whether it was already present.
func (s *Store) upsertLocal(r *models.Routine) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, _ := s.ReadLocal()
	existed := false
	for i, cur := range list {
		if cur.ID == r.ID {
			list[i] = r
			existed = true
			break
		}
	}
	if !existed {
		list = append(list, r)
	}
	return existed, s.WriteLocal(list)
}

func (s *Store) dropLocal(routineID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, _ := s.ReadLocal()
	kept := make([]*models.Routine, 0, len(list))
	for _, r := range list {
		if r.ID != routineID {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(list) {
		return false, nil
	}
	return true, s.WriteLocal(kept)
}

func (s *Store) snapshot(ctx context.Context, r *models.Routine, label string) {
	if s.snapshots == nil {
		return
	}
	if _, err := s.snapshots.Record(ctx, r, label); err != nil {
		s.logger.Warn("version snapshot skipped", "routine", r.ID, "err", err)
	}
}

func (s *Store) logEvent(userID string, routineID *string, action models.Action) {
	if s.events == nil || userID == "" {
		return
	}
	s.events.LogEvent(userID, routineID, action)
}

// localOnly refuses writes that would reach nothing but a detached cache.
func (s *Store) localOnly() error {
	if cache.IsDetached(s.cache) {
		return cache.ErrReadOnly
	}
	return nil
}
