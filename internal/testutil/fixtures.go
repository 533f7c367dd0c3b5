package testutil

import (
	"testing"
	"time"

	"github.com/ankushthakur2007/sqp/internal/domain"
)

// Entry options
type EntryOption func(*domain.DailyEntry)

func WithProduction(v float64) EntryOption {
	return func(e *domain.DailyEntry) {
		e.Reading.Production = domain.FloatPtr(v)
	}
}

func WithQuality(v float64) EntryOption {
	return func(e *domain.DailyEntry) {
		e.Reading.Quality = domain.FloatPtr(v)
	}
}

func WithSafety(s domain.SafetyStatus) EntryOption {
	return func(e *domain.DailyEntry) {
		e.Reading.Safety = s.Ptr()
	}
}

func WithUpdatedAt(t time.Time) EntryOption {
	return func(e *domain.DailyEntry) {
		e.UpdatedAt = t
	}
}

// NewTestEntry builds an entry for an ISO date. With no options the reading
// is a typical good day.
func NewTestEntry(t *testing.T, date string, opts ...EntryOption) *domain.DailyEntry {
	t.Helper()
	d, err := domain.ParseDate(date)
	if err != nil {
		t.Fatalf("bad fixture date: %v", err)
	}
	e := &domain.DailyEntry{Date: d}
	for _, opt := range opts {
		opt(e)
	}
	if len(opts) == 0 {
		e.Reading = domain.Reading{
			Production: domain.FloatPtr(4500),
			Quality:    domain.FloatPtr(97),
			Safety:     domain.SafetySafe.Ptr(),
		}
	}
	return e
}

// Reading builds a bare reading from optional values; nil means unset.
func Reading(production, quality *float64, safety *domain.SafetyStatus) domain.Reading {
	return domain.Reading{Production: production, Quality: quality, Safety: safety}
}
