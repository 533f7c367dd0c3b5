package importer

import (
	"fmt"
	"sort"

	"github.com/ankushthakur2007/sqp/internal/domain"
)

// Converted is a validated import split into writes and clears.
type Converted struct {
	Upserts []*domain.DailyEntry
	Clears  []domain.Date
}

// Convert turns a validated ImportSchema into entries, sorted by date.
// Call ValidateImportSchema first; Convert only reports the first error.
func Convert(schema *ImportSchema) (*Converted, error) {
	out := &Converted{}
	for i, e := range schema.Entries {
		date, err := domain.ParseDate(e.Date)
		if err != nil {
			return nil, fmt.Errorf("entries[%d]: %w", i, err)
		}

		var r domain.Reading
		if e.Production != nil {
			r.Production = domain.FloatPtr(*e.Production)
		}
		if e.Quality != nil {
			r.Quality = domain.FloatPtr(*e.Quality)
		}
		if e.SafetyStatus != nil {
			s, err := domain.ParseSafetyStatus(*e.SafetyStatus)
			if err != nil {
				return nil, fmt.Errorf("entries[%d]: %w", i, err)
			}
			r.Safety = s.Ptr()
		}

		if r.IsEmpty() {
			out.Clears = append(out.Clears, date)
			continue
		}
		out.Upserts = append(out.Upserts, &domain.DailyEntry{Date: date, Reading: r})
	}

	sort.Slice(out.Upserts, func(i, j int) bool {
		return out.Upserts[i].Date.String() < out.Upserts[j].Date.String()
	})
	sort.Slice(out.Clears, func(i, j int) bool {
		return out.Clears[i].String() < out.Clears[j].String()
	})
	return out, nil
}
