package storage

import (
	"database/sql"
	"fmt"
)

// InitDB creates the SQLite schema.
// Column names mirror the Firestore document fields so both backends hold the same data.
// PRE: db is a valid database connection
// POST: All tables and indexes exist, WAL mode enabled for file databases
func InitDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS member (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS event (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		place TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT '',
		lineup TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_event_date ON event(date);

	CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		line_user_id TEXT NOT NULL,
		status TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_attendance_event ON attendance(event_id);
	CREATE INDEX IF NOT EXISTS idx_attendance_member ON attendance(line_user_id);

	CREATE TABLE IF NOT EXISTS memo (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		author_id TEXT NOT NULL,
		author_name TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_memo_created ON memo(created_at DESC, id DESC);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
