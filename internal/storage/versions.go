// ABOUTME: Routine version persistence for SQLite storage.
// ABOUTME: Versions are insert-only and readable only through the owning user's routine.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harperreed/routines/internal/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// InsertVersion stores a new version of one of userID's routines.
// Returns ErrConflict if the version number is taken and ErrNotFound if
// userID owns no routine with that id.
func (d *DB) InsertVersion(ctx context.Context, userID string, v *models.RoutineVersion) error {
	snapshot, err := json.Marshal(v.Snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	result, err := d.db.ExecContext(ctx, `
		INSERT INTO routine_versions (routine_id, version_number, label, snapshot, change_summary, created_at)
		SELECT ?, ?, ?, ?, ?, ?
		WHERE EXISTS (SELECT 1 FROM routines WHERE id = ? AND user_id = ?)`,
		v.RoutineID, v.VersionNumber, v.Label, string(snapshot), v.ChangeSummary, formatTime(v.CreatedAt),
		v.RoutineID, userID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert version %d of %s: %w", v.VersionNumber, v.RoutineID, ErrConflict)
		}
		return fmt.Errorf("insert version: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert version: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("insert version of routine %s: %w", v.RoutineID, ErrNotFound)
	}
	return nil
}

// isUniqueViolation reports whether err is SQLite rejecting a duplicate key.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

// ownedVersions restricts routine_versions rows to routines owned by a user.
const ownedVersions = `
		FROM routine_versions v
		JOIN routines r ON r.id = v.routine_id
		WHERE v.routine_id = ? AND r.user_id = ?`

// LatestVersionNumber returns the highest version number for a routine, or 0.
func (d *DB) LatestVersionNumber(ctx context.Context, userID, routineID string) (int, error) {
	var n sql.NullInt64
	err := d.db.QueryRowContext(ctx,
		`SELECT MAX(v.version_number)`+ownedVersions, routineID, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("latest version: %w", err)
	}
	return int(n.Int64), nil
}

// GetVersion retrieves one version of a routine.
func (d *DB) GetVersion(ctx context.Context, userID, routineID string, versionNumber int) (*models.RoutineVersion, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT v.routine_id, v.version_number, v.label, v.snapshot, v.change_summary, v.created_at`+
		ownedVersions+` AND v.version_number = ?`, routineID, userID, versionNumber)

	v, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("version %d of %s: %w", versionNumber, routineID, ErrNotFound)
	}
	return v, err
}

// ListVersions returns every version of a routine, newest first.
func (d *DB) ListVersions(ctx context.Context, userID, routineID string) ([]*models.RoutineVersion, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT v.routine_id, v.version_number, v.label, v.snapshot, v.change_summary, v.created_at`+
		ownedVersions+`
		ORDER BY v.version_number DESC`, routineID, userID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var versions []*models.RoutineVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func scanVersion(s scanner) (*models.RoutineVersion, error) {
	var (
		v                   models.RoutineVersion
		label               sql.NullString
		snapshot, createdAt string
	)
	if err := s.Scan(&v.RoutineID, &v.VersionNumber, &label, &snapshot, &v.ChangeSummary, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan version: %w", err)
	}
	if label.Valid {
		v.Label = &label.String
	}
	if err := json.Unmarshal([]byte(snapshot), &v.Snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	v.CreatedAt = t
	return &v, nil
}
