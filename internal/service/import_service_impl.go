package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ankushthakur2007/sqp/internal/db"
	"github.com/ankushthakur2007/sqp/internal/importer"
	"github.com/ankushthakur2007/sqp/internal/repository"
)

type importService struct {
	readings repository.ReadingRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewImportService applies import files. With a non-nil uow every write
// of one file lands in a single SQLite transaction. Without one (the
// Badger backend) writes go straight to readings in date order and a
// failure leaves the earlier writes in place; the error then reports how
// many were applied.
func NewImportService(readings repository.ReadingRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{
		readings: readings,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportFile(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportSchema(ctx, schema)
}

func (s *importService) ImportSchema(ctx context.Context, schema *importer.ImportSchema) (result *ImportResult, err error) {
	fields := map[string]any{"entries": len(schema.Entries)}
	defer observe(ctx, s.observer, "import-readings", time.Now(), fields, &err)

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	converted, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	applied := 0
	apply := func(ctx context.Context, readings repository.ReadingRepo) error {
		for _, e := range converted.Upserts {
			if err := readings.Upsert(ctx, e); err != nil {
				return fmt.Errorf("saving %s: %w", e.Date, err)
			}
			applied++
		}
		for _, d := range converted.Clears {
			if err := readings.Delete(ctx, d); err != nil {
				return fmt.Errorf("clearing %s: %w", d, err)
			}
			applied++
		}
		return nil
	}

	if s.uow != nil {
		err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			return apply(ctx, repository.NewSQLiteReadingRepo(tx))
		})
		if err != nil {
			return nil, err
		}
	} else if err = apply(ctx, s.readings); err != nil {
		fields["applied"] = applied
		total := len(converted.Upserts) + len(converted.Clears)
		return nil, fmt.Errorf("import stopped after %d of %d writes: %w", applied, total, err)
	}

	fields["upserted"] = len(converted.Upserts)
	fields["cleared"] = len(converted.Clears)
	return &ImportResult{
		Upserted: len(converted.Upserts),
		Cleared:  len(converted.Clears),
	}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
