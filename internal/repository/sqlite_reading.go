package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ankushthakur2007/sqp/internal/db"
	"github.com/ankushthakur2007/sqp/internal/domain"
)

// SQLiteReadingRepo implements ReadingRepo on the daily_entries table.
type SQLiteReadingRepo struct {
	db db.DBTX
}

// NewSQLiteReadingRepo creates a new SQLiteReadingRepo.
func NewSQLiteReadingRepo(conn db.DBTX) *SQLiteReadingRepo {
	return &SQLiteReadingRepo{db: conn}
}

const entryColumns = `date, production, quality, safety_status, updated_at`

func (r *SQLiteReadingRepo) ListRange(ctx context.Context, start, end domain.Date) ([]*domain.DailyEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM daily_entries
		WHERE date >= ? AND date <= ? ORDER BY date`
	rows, err := r.db.QueryContext(ctx, query, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("listing entries %s..%s: %w", start, end, err)
	}
	defer rows.Close()

	var out []*domain.DailyEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return out, nil
}

func (r *SQLiteReadingRepo) GetByDate(ctx context.Context, date domain.Date) (*domain.DailyEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM daily_entries WHERE date = ?`, date.String())
	e, err := scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("entry %s: %w", date, ErrNotFound)
		}
		return nil, err
	}
	return e, nil
}

func (r *SQLiteReadingRepo) Upsert(ctx context.Context, e *domain.DailyEntry) error {
	if e.Reading.IsEmpty() {
		return fmt.Errorf("entry %s: %w", e.Date, ErrEmptyReading)
	}
	stamp := e.UpdatedAt
	if stamp.IsZero() {
		stamp = nowUTC()
	}
	query := `INSERT INTO daily_entries (date, production, quality, safety_status, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			production = excluded.production,
			quality = excluded.quality,
			safety_status = excluded.safety_status,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		e.Date.String(),
		nullableFloatToValue(e.Reading.Production),
		nullableFloatToValue(e.Reading.Quality),
		nullableSafetyToValue(e.Reading.Safety),
		stamp.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting entry %s: %w", e.Date, err)
	}
	return nil
}

func (r *SQLiteReadingRepo) Delete(ctx context.Context, date domain.Date) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM daily_entries WHERE date = ?`, date.String()); err != nil {
		return fmt.Errorf("deleting entry %s: %w", date, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(s rowScanner) (*domain.DailyEntry, error) {
	var (
		date       string
		production sql.NullFloat64
		quality    sql.NullFloat64
		safety     sql.NullString
		updatedAt  string
	)
	if err := s.Scan(&date, &production, &quality, &safety, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning entry: %w", err)
	}
	d, err := domain.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("scanning entry: %w", err)
	}
	return &domain.DailyEntry{
		Date: d,
		Reading: domain.Reading{
			Production: parseNullableFloat(production),
			Quality:    parseNullableFloat(quality),
			Safety:     parseNullableSafety(safety),
		},
		UpdatedAt: parseUpdatedAt(updatedAt),
	}, nil
}
