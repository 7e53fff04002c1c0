package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A database created before menu type metadata and per-layout prices
// existed keeps its rows and gains the new columns with defaults.
func TestMigrate_UpgradesFirstReleaseSchema(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	legacy := []string{
		`CREATE TABLE terms (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			taxonomy   TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE items (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			title      TEXT NOT NULL,
			status     TEXT NOT NULL DEFAULT 'publish',
			price      REAL NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`INSERT INTO terms (name, taxonomy, created_at) VALUES ('Menu A', 'program_menu', 'then')`,
		`INSERT INTO items (title, price, created_at, updated_at) VALUES ('Oats', 4.5, 'then', 'then')`,
	}
	for _, stmt := range legacy {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))

	var menuType string
	require.NoError(t, db.QueryRow(`SELECT menu_type FROM terms WHERE name = 'Menu A'`).Scan(&menuType))
	assert.Equal(t, "", menuType)

	var (
		price  float64
		weekly sql.NullFloat64
	)
	require.NoError(t, db.QueryRow(`SELECT price, weekly_price FROM items WHERE title = 'Oats'`).Scan(&price, &weekly))
	assert.Equal(t, 4.5, price)
	assert.False(t, weekly.Valid)

	var idx string
	require.NoError(t, db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name='idx_lookup_slot'`).Scan(&idx))
}
