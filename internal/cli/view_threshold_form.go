package cli

import (
	"fmt"
	"strconv"

	"github.com/ankushthakur2007/sqp/internal/cli/formatter"
	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/ankushthakur2007/sqp/internal/thresholds"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// thresholdFormFields holds form-bound values for the thresholds editor.
type thresholdFormFields struct {
	mode            string
	target          string
	productionGood  string
	productionAlert string
	qualityGood     string
	qualityAlert    string
}

func thresholdFormFieldsFrom(th domain.Thresholds) *thresholdFormFields {
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	f := &thresholdFormFields{
		mode:            string(th.Mode),
		productionGood:  num(th.ProductionGood),
		productionAlert: num(th.ProductionAlert),
		qualityGood:     num(th.QualityGood),
		qualityAlert:    num(th.QualityAlert),
	}
	if f.mode == "" {
		f.mode = string(domain.ModeAbsolute)
	}
	if th.ProductionTarget != nil {
		f.target = num(*th.ProductionTarget)
	}
	return f
}

func (f *thresholdFormFields) modeValue() domain.ThresholdMode {
	mode, err := domain.ParseThresholdMode(f.mode)
	if err != nil {
		return domain.ModeAbsolute
	}
	return mode
}

// validator checks one cutoff against its range for the mode currently
// chosen in the form.
func (f *thresholdFormFields) validator(field thresholds.Field) func(string) error {
	return func(s string) error {
		v, err := parseNumber(s)
		if err != nil {
			return err
		}
		return thresholds.ValidateInput(field, v, f.modeValue())
	}
}

func (f *thresholdFormFields) validateTarget(s string) error {
	v, err := parseOptionalNumber(s)
	if err != nil || v == nil {
		return err
	}
	return thresholds.ValidateInput(thresholds.FieldProductionTarget, *v, f.modeValue())
}

// patch converts the form into a full update. A blank target removes it.
func (f *thresholdFormFields) patch() (domain.ThresholdPatch, error) {
	mode, err := domain.ParseThresholdMode(f.mode)
	if err != nil {
		return domain.ThresholdPatch{}, err
	}
	p := domain.ThresholdPatch{Mode: &mode}

	fields := []struct {
		name string
		raw  string
		dst  **float64
	}{
		{"production good", f.productionGood, &p.ProductionGood},
		{"production alert", f.productionAlert, &p.ProductionAlert},
		{"quality good", f.qualityGood, &p.QualityGood},
		{"quality alert", f.qualityAlert, &p.QualityAlert},
	}
	for _, fl := range fields {
		v, err := parseNumber(fl.raw)
		if err != nil {
			return domain.ThresholdPatch{}, fmt.Errorf("%s: %w", fl.name, err)
		}
		*fl.dst = domain.FloatPtr(v)
	}

	target, err := parseOptionalNumber(f.target)
	if err != nil {
		return domain.ThresholdPatch{}, fmt.Errorf("target: %w", err)
	}
	if target == nil {
		p.ClearTarget = true
	} else {
		p.ProductionTarget = target
	}
	return p, nil
}

// applyThresholdForm validates and stores the edited thresholds and
// returns the output shown after the form closes.
func applyThresholdForm(ctrl *thresholds.Controller, f *thresholdFormFields) tea.Msg {
	p, err := f.patch()
	if err != nil {
		return cmdOutputMsg{output: formErrorText(err)}
	}
	if err := thresholds.ValidatePatch(ctrl.Current(), p); err != nil {
		return cmdOutputMsg{output: formErrorText(err)}
	}
	th := ctrl.Update(p)
	return cmdOutputMsg{output: fmt.Sprintf("%s Thresholds updated\n\n%s",
		formatter.StyleGreen.Render("✔"), formatter.FormatThresholds(th))}
}

func newThresholdFormView(state *SharedState) View {
	ctrl := state.App.Thresholds
	f := thresholdFormFieldsFrom(ctrl.Current())

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Production mode").
				Options(
					huh.NewOption("Absolute units", string(domain.ModeAbsolute)),
					huh.NewOption("Percent of target", string(domain.ModeTarget)),
				).
				Value(&f.mode),
			huh.NewInput().
				Title("Production target (units)").
				Description("Used in target mode. Leave blank for none").
				Value(&f.target).
				Validate(f.validateTarget),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Production good at or above").
				Value(&f.productionGood).
				Validate(f.validator(thresholds.FieldProductionGood)),
			huh.NewInput().
				Title("Production alert below").
				Value(&f.productionAlert).
				Validate(f.validator(thresholds.FieldProductionAlert)),
			huh.NewInput().
				Title("Quality good at or above (%)").
				Value(&f.qualityGood).
				Validate(f.validator(thresholds.FieldQualityGood)),
			huh.NewInput().
				Title("Quality alert below (%)").
				Value(&f.qualityAlert).
				Validate(f.validator(thresholds.FieldQualityAlert)),
		),
	).WithTheme(sqpHuhTheme()).WithShowHelp(false)

	done := func() tea.Cmd {
		return func() tea.Msg { return applyThresholdForm(ctrl, f) }
	}

	return newWizardView(state, "Thresholds", form, done)
}
