package importer

import (
	"fmt"
	"math"

	"github.com/ankushthakur2007/sqp/internal/domain"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error
	if len(schema.Entries) == 0 {
		return []error{fmt.Errorf("entries: at least one entry is required")}
	}

	seen := make(map[string]int, len(schema.Entries))
	for i, e := range schema.Entries {
		prefix := fmt.Sprintf("entries[%d]", i)
		errs = append(errs, validateEntry(prefix, &e)...)

		if e.Date == "" {
			continue
		}
		if first, dup := seen[e.Date]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate date %q (first at entries[%d])", prefix, e.Date, first))
			continue
		}
		seen[e.Date] = i
	}
	return errs
}

func validateEntry(prefix string, e *EntryImport) []error {
	var errs []error

	if e.Date == "" {
		errs = append(errs, fmt.Errorf("%s.date is required", prefix))
	} else if _, err := domain.ParseDate(e.Date); err != nil {
		errs = append(errs, fmt.Errorf("%s.date: invalid date format %q (expected YYYY-MM-DD)", prefix, e.Date))
	}

	if e.Production != nil {
		if !finite(*e.Production) || *e.Production < 0 {
			errs = append(errs, fmt.Errorf("%s.production must be a non-negative number, got %g", prefix, *e.Production))
		}
	}
	if e.Quality != nil && !finite(*e.Quality) {
		errs = append(errs, fmt.Errorf("%s.quality must be a finite number", prefix))
	}
	if e.SafetyStatus != nil {
		if _, err := domain.ParseSafetyStatus(*e.SafetyStatus); err != nil {
			errs = append(errs, fmt.Errorf("%s.safety_status: %w", prefix, err))
		}
	}
	return errs
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
