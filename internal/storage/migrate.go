// ABOUTME: Data migration between routine storage backends.
// ABOUTME: Copies routines, versions, events and notes from source to destination.

package storage

import (
	"context"
	"errors"
	"fmt"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Routines int
	Versions int
	Events   int
	Notes    int
}

// MigrateData copies all of userID's data from src to dst.
// Versions already present in dst are skipped, so a rerun is safe.
func MigrateData(ctx context.Context, src, dst Remote, userID string) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	routines, err := src.ListRoutines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list source routines: %w", err)
	}

	for _, r := range routines {
		if err := dst.UpsertRoutine(ctx, userID, r); err != nil {
			return nil, fmt.Errorf("upsert routine %s: %w", r.ID, err)
		}
		summary.Routines++

		versions, err := src.ListVersions(ctx, userID, r.ID)
		if err != nil {
			return nil, fmt.Errorf("list versions of %s: %w", r.ID, err)
		}
		// Oldest first so numbering stays contiguous in dst
		for i := len(versions) - 1; i >= 0; i-- {
			err := dst.InsertVersion(ctx, userID, versions[i])
			if isConflict(err) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("insert version %d of %s: %w", versions[i].VersionNumber, r.ID, err)
			}
			summary.Versions++
		}
	}

	events, err := src.ListEvents(ctx, userID, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list source events: %w", err)
	}
	for _, e := range events {
		if err := dst.InsertEvent(ctx, e); err != nil {
			return nil, fmt.Errorf("insert event %s: %w", e.ID, err)
		}
		summary.Events++
	}

	notes, err := src.ListNotes(ctx, userID, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list source notes: %w", err)
	}
	for _, n := range notes {
		if err := dst.InsertNote(ctx, n); err != nil {
			return nil, fmt.Errorf("insert note %s: %w", n.ID, err)
		}
		summary.Notes++
	}

	return summary, nil
}

func isConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
