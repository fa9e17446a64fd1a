// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for routines, routine_versions, usage_events and notes.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS routines (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		time_of_day TEXT NOT NULL,
		steps TEXT NOT NULL,
		step_count INTEGER NOT NULL,
		thumbnail TEXT,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS routine_versions (
		routine_id TEXT NOT NULL,
		version_number INTEGER NOT NULL,
		label TEXT,
		snapshot TEXT NOT NULL,
		change_summary TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (routine_id, version_number)
	);

	CREATE TABLE IF NOT EXISTS usage_events (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		routine_id TEXT,
		action TEXT NOT NULL,
		timestamp TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		routine_id TEXT,
		content TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_routines_user_active ON routines(user_id, is_active);
	CREATE INDEX IF NOT EXISTS idx_events_user_ts ON usage_events(user_id, timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_notes_user_created ON notes(user_id, created_at DESC);
	`

	_, err := d.db.Exec(schema)
	return err
}
