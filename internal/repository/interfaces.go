package repository

import (
	"context"
	"errors"

	"github.com/ankushthakur2007/sqp/internal/domain"
)

var (
	// ErrNotFound is returned when no entry exists for a date.
	ErrNotFound = errors.New("not found")
	// ErrEmptyReading is returned by Upsert for a reading with no fields
	// set. Clearing a day is a Delete.
	ErrEmptyReading = errors.New("empty reading")
)

// ReadingRepo stores one row per calendar date.
type ReadingRepo interface {
	// ListRange returns entries with start <= date <= end, ordered by date.
	ListRange(ctx context.Context, start, end domain.Date) ([]*domain.DailyEntry, error)
	GetByDate(ctx context.Context, date domain.Date) (*domain.DailyEntry, error)
	// Upsert replaces all data columns of the row for e.Date.
	Upsert(ctx context.Context, e *domain.DailyEntry) error
	// Delete removes the row for date. Deleting a missing row is not an error.
	Delete(ctx context.Context, date domain.Date) error
}
