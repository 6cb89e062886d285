package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// migrations holds all schema statements in order. Every statement is
// idempotent (CREATE ... IF NOT EXISTS), so the full list re-runs on startup.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS kv_entries (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		expires_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_kv_entries_expires ON kv_entries(expires_at)`,

	`CREATE TABLE IF NOT EXISTS focus_plans (
		id                TEXT PRIMARY KEY,
		title             TEXT NOT NULL,
		domain            TEXT NOT NULL DEFAULT '',
		level             TEXT NOT NULL DEFAULT '',
		lang              TEXT NOT NULL DEFAULT '',
		duration_days     INTEGER NOT NULL,
		current_day_index INTEGER NOT NULL DEFAULT 1,
		streak            INTEGER NOT NULL DEFAULT 0,
		last_streak_date  TEXT,
		archived_at       TEXT,
		created_at        TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS focus_days (
		id           TEXT PRIMARY KEY,
		plan_id      TEXT NOT NULL REFERENCES focus_plans(id) ON DELETE CASCADE,
		day_index    INTEGER NOT NULL,
		title        TEXT NOT NULL DEFAULT '',
		intro        TEXT NOT NULL DEFAULT '',
		started_at   TEXT,
		completed_at TEXT,
		UNIQUE(plan_id, day_index)
	)`,

	`CREATE TABLE IF NOT EXISTS focus_items (
		id           TEXT PRIMARY KEY,
		day_id       TEXT NOT NULL REFERENCES focus_days(id) ON DELETE CASCADE,
		order_index  INTEGER NOT NULL DEFAULT 0,
		kind         TEXT NOT NULL,
		topic        TEXT NOT NULL DEFAULT '',
		label        TEXT NOT NULL DEFAULT '',
		completed_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_focus_items_day ON focus_items(day_id, order_index)`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
