package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and re-run
// on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS daily_entries (
		date          TEXT PRIMARY KEY
		              CHECK(date GLOB '[0-9][0-9][0-9][0-9]-[0-1][0-9]-[0-3][0-9]'),
		production    REAL CHECK(production IS NULL OR production >= 0),
		quality       REAL,
		safety_status TEXT
		              CHECK(safety_status IS NULL OR safety_status IN ('safe','recordable','lost-time'))
	)`,

	`ALTER TABLE daily_entries ADD COLUMN updated_at TEXT NOT NULL DEFAULT ''`,
}
