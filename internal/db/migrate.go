package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies all schema statements. Every statement is idempotent, so
// Migrate is safe to run on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// LookupTable is the denormalized assignment index queried by slot.
const LookupTable = "menu_assignment_lookup"

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS terms (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		taxonomy   TEXT NOT NULL
		           CHECK(taxonomy IN ('program_menu','week_no','weekday','mealtime')),
		menu_type  TEXT NOT NULL DEFAULT ''
		           CHECK(menu_type IN ('','weekly','monthly')),
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS items (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		title         TEXT NOT NULL,
		status        TEXT NOT NULL DEFAULT 'publish'
		              CHECK(status IN ('publish','draft')),
		price         REAL NOT NULL DEFAULT 0,
		weekly_price  REAL,
		monthly_price REAL,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	// Canonical, ordered assignment sequence per item (JSON array).
	`CREATE TABLE IF NOT EXISTS item_assignments (
		item_id    INTEGER PRIMARY KEY REFERENCES items(id) ON DELETE CASCADE,
		records    TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	// Flat per-item mirror read by full scans.
	`CREATE TABLE IF NOT EXISTS item_assignment_mirror (
		item_id INTEGER PRIMARY KEY REFERENCES items(id) ON DELETE CASCADE,
		entries TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS menu_assignment_lookup (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id         INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
		program_menu_id INTEGER NOT NULL,
		week_id         INTEGER,
		day_id          INTEGER,
		meal_id         INTEGER,
		ordinal         INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS cache_entries (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		expires_at INTEGER NOT NULL
	)`,

	// Columns added after the first release. Re-running on a fresh schema
	// fails with "duplicate column name", which Migrate skips.
	`ALTER TABLE terms ADD COLUMN menu_type TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE items ADD COLUMN weekly_price REAL`,
	`ALTER TABLE items ADD COLUMN monthly_price REAL`,

	// Indexes
	`CREATE INDEX IF NOT EXISTS idx_terms_taxonomy ON terms(taxonomy, name)`,
	`CREATE INDEX IF NOT EXISTS idx_items_title ON items(title)`,
	`CREATE INDEX IF NOT EXISTS idx_lookup_item ON menu_assignment_lookup(item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_lookup_slot ON menu_assignment_lookup(program_menu_id, week_id, day_id, meal_id)`,
	`CREATE INDEX IF NOT EXISTS idx_cache_expires ON cache_entries(expires_at)`,
}
