package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidReading is returned for values a day cannot hold.
var ErrInvalidReading = errors.New("invalid reading")

// Reading is one day's recorded values. A nil field means no value was
// entered, which is distinct from a zero value or from SafetySafe.
type Reading struct {
	Production *float64      `json:"production" yaml:"production,omitempty"`
	Quality    *float64      `json:"quality" yaml:"quality,omitempty"`
	Safety     *SafetyStatus `json:"safetyStatus,omitempty" yaml:"safety_status,omitempty"`
}

// IsEmpty reports whether no field is set. An empty reading is the same as
// having no entry for the day and is never stored.
func (r Reading) IsEmpty() bool {
	return r.Production == nil && r.Quality == nil && r.Safety == nil
}

// Validate rejects non-finite values, negative production and unknown
// safety statuses.
func (r Reading) Validate() error {
	if r.Production != nil {
		if v := *r.Production; math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("production %v must be a non-negative number: %w", v, ErrInvalidReading)
		}
	}
	if r.Quality != nil {
		if v := *r.Quality; math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("quality %v must be a number: %w", v, ErrInvalidReading)
		}
	}
	if r.Safety != nil && !ValidSafetyStatuses[string(*r.Safety)] {
		return fmt.Errorf("safety %q: %w", *r.Safety, ErrInvalidSafetyStatus)
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate shared pointers.
func (r Reading) Clone() Reading {
	var out Reading
	if r.Production != nil {
		out.Production = FloatPtr(*r.Production)
	}
	if r.Quality != nil {
		out.Quality = FloatPtr(*r.Quality)
	}
	if r.Safety != nil {
		out.Safety = r.Safety.Ptr()
	}
	return out
}

// DailyEntry is a Reading bound to the calendar date it was recorded for.
type DailyEntry struct {
	Date      Date
	Reading   Reading
	UpdatedAt time.Time
}
