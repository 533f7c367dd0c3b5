package thresholds

import (
	"errors"
	"fmt"
	"math"

	"github.com/ankushthakur2007/sqp/internal/domain"
)

var (
	// ErrOutOfRange is returned when an input value falls outside its
	// field's range or off its step grid.
	ErrOutOfRange = errors.New("value out of range")
	// ErrUnknownField is returned for a field name with no input range.
	ErrUnknownField = errors.New("unknown threshold field")
)

// Field names a user-editable threshold value.
type Field string

const (
	FieldProductionGood   Field = "productionGood"
	FieldProductionAlert  Field = "productionAlert"
	FieldQualityGood      Field = "qualityGood"
	FieldQualityAlert     Field = "qualityAlert"
	FieldProductionTarget Field = "productionTarget"
)

// Fields lists the editable fields in form order.
var Fields = []Field{
	FieldProductionGood,
	FieldProductionAlert,
	FieldQualityGood,
	FieldQualityAlert,
	FieldProductionTarget,
}

// Range bounds an input value. Step of zero means any value above Min is
// accepted and Max is ignored.
type Range struct {
	Min  float64
	Max  float64
	Step float64
}

var absoluteRanges = map[Field]Range{
	FieldProductionGood:  {Min: 1000, Max: 10000, Step: 100},
	FieldProductionAlert: {Min: 500, Max: 5000, Step: 100},
	FieldQualityGood:     {Min: 80, Max: 100, Step: 1},
	FieldQualityAlert:    {Min: 70, Max: 90, Step: 1},
}

var percentRange = Range{Min: 1, Max: 200, Step: 1}

// RangeFor returns the input range for field. In target mode the production
// cutoffs are percentages of the target.
func RangeFor(field Field, mode domain.ThresholdMode) (Range, error) {
	switch field {
	case FieldProductionTarget:
		return Range{Min: 0}, nil
	case FieldProductionGood, FieldProductionAlert:
		if mode == domain.ModeTarget {
			return percentRange, nil
		}
	}
	r, ok := absoluteRanges[field]
	if !ok {
		return Range{}, fmt.Errorf("%q: %w", field, ErrUnknownField)
	}
	return r, nil
}

// Contains reports whether v is inside r and on its step grid.
func (r Range) Contains(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	if r.Step == 0 {
		return v > r.Min
	}
	if v < r.Min || v > r.Max {
		return false
	}
	steps := (v - r.Min) / r.Step
	return math.Abs(steps-math.Round(steps)) < 1e-9
}

func (r Range) String() string {
	if r.Step == 0 {
		return fmt.Sprintf("> %g", r.Min)
	}
	return fmt.Sprintf("%g..%g step %g", r.Min, r.Max, r.Step)
}

// ValidateInput checks a single interactive input against its range. It
// never inspects other fields: Good below Alert is accepted.
func ValidateInput(field Field, value float64, mode domain.ThresholdMode) error {
	r, err := RangeFor(field, mode)
	if err != nil {
		return err
	}
	if !r.Contains(value) {
		return fmt.Errorf("%s = %g, want %s: %w", field, value, r, ErrOutOfRange)
	}
	return nil
}

// ValidatePatch checks every field set in p. The mode used for production
// cutoffs is the patch's mode when it sets one, otherwise base's.
func ValidatePatch(base domain.Thresholds, p domain.ThresholdPatch) error {
	mode := base.Mode
	if p.Mode != nil {
		mode = *p.Mode
	}
	checks := []struct {
		field Field
		value *float64
	}{
		{FieldProductionGood, p.ProductionGood},
		{FieldProductionAlert, p.ProductionAlert},
		{FieldQualityGood, p.QualityGood},
		{FieldQualityAlert, p.QualityAlert},
		{FieldProductionTarget, p.ProductionTarget},
	}
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		if err := ValidateInput(c.field, *c.value, mode); err != nil {
			return err
		}
	}
	return nil
}
