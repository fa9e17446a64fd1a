// ABOUTME: Remote interface for the canonical routine store.
// ABOUTME: Implemented by SQLite (self-hosted) and Charm KV (cloud) backends.
package storage

import (
	"context"
	"errors"

	"github.com/harperreed/routines/internal/models"
)

// ErrNotFound is returned when a keyed record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when writing a record whose key is already taken,
// including a routine id owned by another user.
var ErrConflict = errors.New("already exists")

// Remote defines the persistence verbs the routine subsystem needs.
// This interface allows swapping implementations (e.g., for testing).
type Remote interface {
	// Routine definitions, scoped by user and active flag
	UpsertRoutine(ctx context.Context, userID string, r *models.Routine) error
	ListRoutines(ctx context.Context, userID string) ([]*models.Routine, error)
	DeactivateRoutine(ctx context.Context, userID, routineID string) error
	CountRoutines(ctx context.Context, userID string) (int, error)

	// Versions, keyed by routine id + version number and visible only to the
	// routine's owner. InsertVersion returns ErrConflict when the number is
	// already taken.
	InsertVersion(ctx context.Context, userID string, v *models.RoutineVersion) error
	LatestVersionNumber(ctx context.Context, userID, routineID string) (int, error)
	GetVersion(ctx context.Context, userID, routineID string, versionNumber int) (*models.RoutineVersion, error)
	ListVersions(ctx context.Context, userID, routineID string) ([]*models.RoutineVersion, error)

	// Usage events, newest first
	InsertEvent(ctx context.Context, e *models.UsageEvent) error
	ListEvents(ctx context.Context, userID string, routineID *string, limit int) ([]*models.UsageEvent, error)

	// Notes, newest first
	InsertNote(ctx context.Context, n *models.Note) error
	ListNotes(ctx context.Context, userID string, routineID *string, limit int) ([]*models.Note, error)
	CountNotes(ctx context.Context, userID string, routineID *string) (int, error)

	// Lifecycle
	Close() error
}
