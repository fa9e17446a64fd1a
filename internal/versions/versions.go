// ABOUTME: Version store: append-only numbered snapshots of routines.
// ABOUTME: Assigns version numbers, lists history and reverts to older snapshots.
package versions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/session"
	"github.com/harperreed/routines/internal/storage"
)

var (
	// ErrVersionNotFound is returned when a requested version does not exist.
	ErrVersionNotFound = errors.New("version not found")
	// ErrRoutineNotFound is returned when reverting a routine that does not exist.
	ErrRoutineNotFound = errors.New("routine not found")
)

// InitialSummary is the change summary of a routine's first version.
const InitialSummary = "Initial version"

// Remote is the subset of storage.Remote the version store needs.
type Remote interface {
	InsertVersion(ctx context.Context, userID string, v *models.RoutineVersion) error
	LatestVersionNumber(ctx context.Context, userID, routineID string) (int, error)
	GetVersion(ctx context.Context, userID, routineID string, versionNumber int) (*models.RoutineVersion, error)
	ListVersions(ctx context.Context, userID, routineID string) ([]*models.RoutineVersion, error)
}

// Store reads and writes routine versions for the session's user.
// Guests have no history.
type Store struct {
	remote   Remote
	identity session.Identity
	logger   *log.Logger
	now      func() time.Time
}

// New creates a version store.
func New(remote Remote, identity session.Identity, logger *log.Logger) *Store {
	return &Store{remote: remote, identity: identity, logger: logger, now: time.Now}
}

// LatestVersionNumber returns the highest version number of a routine.
// Returns 0 when there are no versions, for guests, and on error.
func (s *Store) LatestVersionNumber(ctx context.Context, routineID string) (int, error) {
	userID, ok := s.identity.UserID()
	if !ok {
		return 0, nil
	}
	n, err := s.remote.LatestVersionNumber(ctx, userID, routineID)
	if err != nil {
		s.logger.Warn("latest version lookup failed", "routine", routineID, "err", err)
		return 0, err
	}
	return n, nil
}

// CreateSnapshot writes a new version numbered latest+1.
// It returns nil and an error on any failure; a failed attempt consumes no number.
func (s *Store) CreateSnapshot(ctx context.Context, routineID string, snap models.Snapshot, label, changeSummary string) (*models.RoutineVersion, error) {
	userID, ok := s.identity.UserID()
	if !ok {
		return nil, session.ErrGuest
	}

	latest, err := s.remote.LatestVersionNumber(ctx, userID, routineID)
	if err != nil {
		return nil, fmt.Errorf("latest version of %s: %w", routineID, err)
	}

	v := &models.RoutineVersion{
		RoutineID:     routineID,
		VersionNumber: latest + 1,
		Snapshot:      snap,
		ChangeSummary: changeSummary,
		CreatedAt:     s.now(),
	}
	if label != "" {
		v.Label = &label
	}
	if v.ChangeSummary == "" {
		v.ChangeSummary = genericSummary
	}

	if err := s.remote.InsertVersion(ctx, userID, v); err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}
	return v, nil
}

// Record snapshots a saved routine, summarising what changed since the latest version.
func (s *Store) Record(ctx context.Context, r *models.Routine, label string) (*models.RoutineVersion, error) {
	userID, ok := s.identity.UserID()
	if !ok {
		return nil, session.ErrGuest
	}

	summary := InitialSummary
	latest, err := s.remote.LatestVersionNumber(ctx, userID, r.ID)
	if err != nil {
		return nil, fmt.Errorf("latest version of %s: %w", r.ID, err)
	}
	if latest > 0 {
		prev, err := s.remote.GetVersion(ctx, userID, r.ID, latest)
		if err != nil {
			summary = genericSummary
		} else {
			summary = Diff(prev.Snapshot.Steps, r.Steps)
		}
	}

	return s.CreateSnapshot(ctx, r.ID, models.SnapshotOf(r), label, summary)
}

// ListVersions returns a routine's versions, newest first.
// Returns an empty list for guests and, together with the error, on failure.
func (s *Store) ListVersions(ctx context.Context, routineID string) ([]*models.RoutineVersion, error) {
	userID, ok := s.identity.UserID()
	if !ok {
		return []*models.RoutineVersion{}, nil
	}
	versions, err := s.remote.ListVersions(ctx, userID, routineID)
	if err != nil {
		s.logger.Warn("list versions failed", "routine", routineID, "err", err)
		return []*models.RoutineVersion{}, err
	}
	return versions, nil
}

// Get returns one version of a routine.
func (s *Store) Get(ctx context.Context, routineID string, versionNumber int) (*models.RoutineVersion, error) {
	userID, ok := s.identity.UserID()
	if !ok {
		return nil, session.ErrGuest
	}
	v, err := s.remote.GetVersion(ctx, userID, routineID, versionNumber)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s v%d", ErrVersionNotFound, routineID, versionNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("get version: %w", err)
	}
	return v, nil
}

// RoutineSaver is the part of the routine store a revert writes through.
type RoutineSaver interface {
	Get(ctx context.Context, routineID string) (*models.Routine, error)
	SaveLabeled(ctx context.Context, r *models.Routine, label string) (bool, error)
}

// Revert makes an older version's content the current routine.
// The save appends a new "Reverted to vN" version; later versions are kept.
func (s *Store) Revert(ctx context.Context, saver RoutineSaver, routineID string, versionNumber int) (*models.Routine, error) {
	current, err := saver.Get(ctx, routineID)
	if err != nil || current == nil {
		return nil, fmt.Errorf("%w: %s", ErrRoutineNotFound, routineID)
	}

	v, err := s.Get(ctx, routineID, versionNumber)
	if err != nil {
		return nil, err
	}

	reverted := current.Clone()
	reverted.Name = v.Snapshot.Name
	reverted.TimeOfDay = v.Snapshot.TimeOfDay
	reverted.Steps = v.Snapshot.CopySteps()
	reverted.StepCount = len(reverted.Steps)
	reverted.UpdatedAt = s.now()

	ok, err := saver.SaveLabeled(ctx, reverted, fmt.Sprintf("Reverted to v%d", versionNumber))
	if err != nil {
		return reverted, fmt.Errorf("save reverted routine: %w", err)
	}
	if !ok {
		return reverted, fmt.Errorf("save reverted routine %s: not saved", routineID)
	}
	return reverted, nil
}
