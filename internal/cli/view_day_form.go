package cli

import (
	"fmt"
	"strconv"

	"github.com/ankushthakur2007/sqp/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// dayFormFields holds form-bound values for the day editor. Blank means
// no value for that metric.
type dayFormFields struct {
	production string
	quality    string
	safety     string
}

func dayFormFieldsFrom(r domain.Reading) *dayFormFields {
	f := &dayFormFields{}
	if r.Production != nil {
		f.production = strconv.FormatFloat(*r.Production, 'f', -1, 64)
	}
	if r.Quality != nil {
		f.quality = strconv.FormatFloat(*r.Quality, 'f', -1, 64)
	}
	if r.Safety != nil {
		f.safety = string(*r.Safety)
	}
	return f
}

// reading converts the form values. All three blank gives an empty
// reading, which clears the day.
func (f *dayFormFields) reading() (domain.Reading, error) {
	var r domain.Reading
	var err error
	if r.Production, err = parseOptionalNumber(f.production); err != nil {
		return domain.Reading{}, fmt.Errorf("production: %w", err)
	}
	if r.Quality, err = parseOptionalNumber(f.quality); err != nil {
		return domain.Reading{}, fmt.Errorf("quality: %w", err)
	}
	if f.safety != "" {
		s, err := domain.ParseSafetyStatus(f.safety)
		if err != nil {
			return domain.Reading{}, err
		}
		r.Safety = s.Ptr()
	}
	if err := r.Validate(); err != nil {
		return domain.Reading{}, err
	}
	return r, nil
}

func validateProduction(s string) error {
	v, err := parseOptionalNumber(s)
	if err != nil {
		return err
	}
	if v != nil && *v < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validateQuality(s string) error {
	_, err := parseOptionalNumber(s)
	return err
}

// newDayFormView creates the editor for one day of the displayed month,
// pre-filled with the stored reading.
func newDayFormView(state *SharedState, day int) View {
	current, _ := state.Store.Reading(day)
	f := dayFormFieldsFrom(current)
	date := domain.Date{Year: state.Store.Month().Year, Month: state.Store.Month().Month, Day: day}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Production (units)").
				Description("Leave blank for no reading").
				Value(&f.production).
				Validate(validateProduction),
			huh.NewInput().
				Title("Quality (%)").
				Value(&f.quality).
				Validate(validateQuality),
			huh.NewSelect[string]().
				Title("Safety").
				Options(
					huh.NewOption("Not recorded", ""),
					huh.NewOption("Safe", string(domain.SafetySafe)),
					huh.NewOption("Recordable", string(domain.SafetyRecordable)),
					huh.NewOption("Lost Time", string(domain.SafetyLostTime)),
				).
				Value(&f.safety),
		),
	).WithTheme(sqpHuhTheme()).WithShowHelp(false)

	done := func() tea.Cmd {
		r, err := f.reading()
		if err != nil {
			return outputCmd(formErrorText(err))
		}
		return saveDayCmd(state, day, r)
	}

	return newWizardView(state, date.String(), form, done)
}
