package domain

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format used as the storage key.
const DateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day or zone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate derives the calendar date the viewer sees for (year, month, day)
// in loc. Out-of-range values normalize the way time.Date does.
func NewDate(year int, month time.Month, day int, loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate parses an ISO YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return DateOf(t), nil
}

// String formats the date as YYYY-MM-DD from its calendar fields, so no
// zone conversion can shift the day.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Month identifies a displayed calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", s, err)
	}
	return MonthOf(t), nil
}

// DaysIn returns the number of days in the month (28..31).
func (m Month) DaysIn() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// First returns the first calendar day of the month.
func (m Month) First() Date {
	return Date{Year: m.Year, Month: m.Month, Day: 1}
}

// Last returns the last calendar day of the month.
func (m Month) Last() Date {
	return Date{Year: m.Year, Month: m.Month, Day: m.DaysIn()}
}

// Add returns the month n months away from m.
func (m Month) Add(n int) Month {
	t := time.Date(m.Year, m.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return MonthOf(t)
}

// Contains reports whether d falls within m.
func (m Month) Contains(d Date) bool {
	return d.Year == m.Year && d.Month == m.Month
}

// String formats the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Title formats the month for headings, e.g. "March 2025".
func (m Month) Title() string {
	return fmt.Sprintf("%s %d", m.Month.String(), m.Year)
}
