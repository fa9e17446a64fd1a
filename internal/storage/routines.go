// ABOUTME: Routine CRUD operations for SQLite storage.
// ABOUTME: Upserts by id; removal flips the is_active flag instead of deleting rows.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/routines/internal/models"
)

const routineColumns = `id, name, description, time_of_day, steps, step_count, thumbnail, created_at, updated_at`

// UpsertRoutine inserts a routine or replaces the stored copy with the same id.
// Upserting a deactivated routine reactivates it. Returns ErrConflict when the
// id belongs to another user; that row is left untouched.
func (d *DB) UpsertRoutine(ctx context.Context, userID string, r *models.Routine) error {
	steps, err := json.Marshal(r.Steps)
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}

	query := `
		INSERT INTO routines (id, user_id, name, description, time_of_day, steps, step_count, thumbnail, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			time_of_day = excluded.time_of_day,
			steps = excluded.steps,
			step_count = excluded.step_count,
			thumbnail = excluded.thumbnail,
			is_active = 1,
			updated_at = excluded.updated_at
		WHERE routines.user_id = excluded.user_id
	`
	result, err := d.db.ExecContext(ctx, query,
		r.ID,
		userID,
		r.Name,
		r.Description,
		string(r.TimeOfDay),
		string(steps),
		len(r.Steps),
		r.Thumbnail,
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert routine: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("upsert routine: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("upsert routine %s: %w", r.ID, ErrConflict)
	}
	return nil
}

// ListRoutines returns the user's active routines, most recently updated first.
func (d *DB) ListRoutines(ctx context.Context, userID string) ([]*models.Routine, error) {
	query := `
		SELECT ` + routineColumns + `
		FROM routines
		WHERE user_id = ? AND is_active = 1
		ORDER BY updated_at DESC
	`
	rows, err := d.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}
	defer rows.Close()

	var routines []*models.Routine
	for rows.Next() {
		r, err := scanRoutine(rows)
		if err != nil {
			return nil, err
		}
		routines = append(routines, r)
	}
	return routines, rows.Err()
}

// DeactivateRoutine marks a routine inactive.
func (d *DB) DeactivateRoutine(ctx context.Context, userID, routineID string) error {
	result, err := d.db.ExecContext(ctx,
		`UPDATE routines SET is_active = 0, updated_at = ? WHERE id = ? AND user_id = ?`,
		formatTime(time.Now()), routineID, userID)
	if err != nil {
		return fmt.Errorf("deactivate routine: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate routine: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("deactivate routine %s: %w", routineID, ErrNotFound)
	}
	return nil
}

// CountRoutines returns the number of active routines for the user.
func (d *DB) CountRoutines(ctx context.Context, userID string) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM routines WHERE user_id = ? AND is_active = 1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count routines: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRoutine(s scanner) (*models.Routine, error) {
	var (
		r                    models.Routine
		description, thumb   sql.NullString
		timeOfDay, steps     string
		createdAt, updatedAt string
	)
	if err := s.Scan(&r.ID, &r.Name, &description, &timeOfDay, &steps, &r.StepCount, &thumb, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scan routine: %w", err)
	}

	r.TimeOfDay = models.TimeOfDay(timeOfDay)
	if description.Valid {
		r.Description = &description.String
	}
	if thumb.Valid {
		r.Thumbnail = &thumb.String
	}
	if err := json.Unmarshal([]byte(steps), &r.Steps); err != nil {
		return nil, fmt.Errorf("unmarshal steps for %s: %w", r.ID, err)
	}

	var err error
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &r, nil
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
