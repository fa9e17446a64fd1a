// ABOUTME: Usage event and note persistence for SQLite storage.
// ABOUTME: Both are append-only and read newest first with an optional routine filter.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harperreed/routines/internal/models"
)

// InsertEvent appends a usage event. Reinserting an existing id is a no-op.
func (d *DB) InsertEvent(ctx context.Context, e *models.UsageEvent) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO usage_events (id, user_id, routine_id, action, timestamp)
		VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.RoutineID, string(e.Action), formatTime(e.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListEvents returns the user's events, newest first. A limit of 0 means no limit.
func (d *DB) ListEvents(ctx context.Context, userID string, routineID *string, limit int) ([]*models.UsageEvent, error) {
	query := `SELECT id, user_id, routine_id, action, timestamp FROM usage_events WHERE user_id = ?`
	args := []any{userID}
	if routineID != nil {
		query += ` AND routine_id = ?`
		args = append(args, *routineID)
	}
	query += ` ORDER BY timestamp DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*models.UsageEvent
	for rows.Next() {
		var (
			e             models.UsageEvent
			rid           sql.NullString
			action, stamp string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &rid, &action, &stamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if rid.Valid {
			e.RoutineID = &rid.String
		}
		e.Action = models.Action(action)
		if e.Timestamp, err = parseTime(stamp); err != nil {
			return nil, fmt.Errorf("parse timestamp: %w", err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

// InsertNote appends a journal note. Reinserting an existing id is a no-op.
func (d *DB) InsertNote(ctx context.Context, n *models.Note) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO notes (id, user_id, routine_id, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.RoutineID, n.Content, formatTime(n.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// ListNotes returns the user's notes, newest first. A limit of 0 means no limit.
func (d *DB) ListNotes(ctx context.Context, userID string, routineID *string, limit int) ([]*models.Note, error) {
	query := `SELECT id, user_id, routine_id, content, created_at FROM notes WHERE user_id = ?`
	args := []any{userID}
	if routineID != nil {
		query += ` AND routine_id = ?`
		args = append(args, *routineID)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		var (
			n     models.Note
			rid   sql.NullString
			stamp string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &rid, &n.Content, &stamp); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		if rid.Valid {
			n.RoutineID = &rid.String
		}
		if n.CreatedAt, err = parseTime(stamp); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}

// CountNotes returns how many notes the user has, optionally for one routine.
func (d *DB) CountNotes(ctx context.Context, userID string, routineID *string) (int, error) {
	query := `SELECT COUNT(*) FROM notes WHERE user_id = ?`
	args := []any{userID}
	if routineID != nil {
		query += ` AND routine_id = ?`
		args = append(args, *routineID)
	}
	var n int
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return n, nil
}
