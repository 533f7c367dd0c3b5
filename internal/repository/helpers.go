package repository

import (
	"database/sql"
	"time"

	"github.com/ankushthakur2007/sqp/internal/domain"
)

// nullableFloatToValue converts a *float64 to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableFloatToValue(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// parseNullableFloat converts a sql.NullFloat64 into a *float64.
func parseNullableFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	return domain.FloatPtr(f.Float64)
}

func nullableSafetyToValue(s *domain.SafetyStatus) interface{} {
	if s == nil {
		return nil
	}
	return string(*s)
}

// parseNullableSafety returns nil for NULL or unrecognized values.
func parseNullableSafety(s sql.NullString) *domain.SafetyStatus {
	if !s.Valid || s.String == "" {
		return nil
	}
	st, err := domain.ParseSafetyStatus(s.String)
	if err != nil {
		return nil
	}
	return &st
}

// parseUpdatedAt parses an RFC3339 timestamp, returning the zero time on failure.
func parseUpdatedAt(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nowUTC returns the current UTC time truncated to the precision stored.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
