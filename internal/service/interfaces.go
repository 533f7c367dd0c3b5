package service

import (
	"context"

	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/ankushthakur2007/sqp/internal/importer"
)

// ReadingService reads and writes individual days outside the month view.
type ReadingService interface {
	// ListMonth returns the stored readings of m keyed by day of month.
	ListMonth(ctx context.Context, m domain.Month) (map[int]domain.Reading, error)
	Get(ctx context.Context, date domain.Date) (*domain.DailyEntry, error)
	// Save stores r for date. An empty reading removes the day.
	Save(ctx context.Context, date domain.Date, r domain.Reading) error
}

// ImportResult holds the outcome of a readings import.
type ImportResult struct {
	Upserted int
	Cleared  int
}

// ImportService applies a file of readings. Imports are all-or-nothing
// only on backends with a unit of work; see NewImportService.
type ImportService interface {
	ImportFile(ctx context.Context, filePath string) (*ImportResult, error)
	ImportSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
