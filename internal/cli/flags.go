package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/spf13/pflag"
)

// optFloat is a float flag that remembers whether it was given, so an
// omitted flag can mean "leave unchanged" rather than zero.
type optFloat struct {
	v *float64
}

var _ pflag.Value = (*optFloat)(nil)

func (f *optFloat) Set(s string) error {
	v, err := parseNumber(s)
	if err != nil {
		return err
	}
	f.v = &v
	return nil
}

func (f *optFloat) String() string {
	if f.v == nil {
		return ""
	}
	return strconv.FormatFloat(*f.v, 'f', -1, 64)
}

func (f *optFloat) Type() string { return "number" }

// Ptr returns the value, or nil when the flag was not set.
func (f *optFloat) Ptr() *float64 {
	if f.v == nil {
		return nil
	}
	return domain.FloatPtr(*f.v)
}

// parseNumber parses a finite decimal number.
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}

// parseOptionalNumber returns nil for blank input.
func parseOptionalNumber(s string) (*float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := parseNumber(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// parseDateArg accepts YYYY-MM-DD or "today".
func parseDateArg(app *App, s string) (domain.Date, error) {
	if strings.EqualFold(strings.TrimSpace(s), "today") {
		return domain.DateOf(app.now()), nil
	}
	return domain.ParseDate(s)
}
