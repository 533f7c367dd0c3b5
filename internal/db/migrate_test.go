package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesDailyEntries(t *testing.T) {
	db := openTestDB(t)

	rows, err := db.Query(`PRAGMA table_info(daily_entries)`)
	require.NoError(t, err)
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var (
			cid       int
			name, typ string
			notNull   int
			dflt      sql.NullString
			pk        int
		)
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk))
		cols[name] = true
		if name == "date" {
			assert.Equal(t, 1, pk, "date is the primary key")
		}
	}
	require.NoError(t, rows.Err())
	for _, c := range []string{"date", "production", "quality", "safety_status", "updated_at"} {
		assert.True(t, cols[c], "column %s should exist", c)
	}
}

func TestMigrate_Constraints(t *testing.T) {
	db := openTestDB(t)

	cases := []struct {
		name string
		args []any
		ok   bool
	}{
		{"valid", []any{"2025-03-01", 10.0, 90.0, "safe"}, true},
		{"all null values", []any{"2025-03-02", nil, nil, nil}, true},
		{"bad safety status", []any{"2025-03-03", nil, nil, "fine"}, false},
		{"negative production", []any{"2025-03-04", -1.0, nil, nil}, false},
		{"bad date", []any{"03/05/2025", nil, nil, nil}, false},
	}
	for _, tc := range cases {
		_, err := db.Exec(`INSERT INTO daily_entries (date, production, quality, safety_status)
			VALUES (?, ?, ?, ?)`, tc.args...)
		if tc.ok {
			assert.NoError(t, err, tc.name)
		} else {
			assert.Error(t, err, tc.name)
		}
	}
}

func TestOpenDB_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sqp.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
