package cli

import (
	"testing"

	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/ankushthakur2007/sqp/internal/settings"
	"github.com/ankushthakur2007/sqp/internal/thresholds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayForm_Reading(t *testing.T) {
	tests := []struct {
		name    string
		fields  dayFormFields
		want    domain.Reading
		wantErr bool
	}{
		{
			name:   "all blank clears the day",
			fields: dayFormFields{},
			want:   domain.Reading{},
		},
		{
			name:   "full entry",
			fields: dayFormFields{production: "4200", quality: " 96.5 ", safety: "recordable"},
			want: domain.Reading{
				Production: domain.FloatPtr(4200),
				Quality:    domain.FloatPtr(96.5),
				Safety:     domain.SafetyRecordable.Ptr(),
			},
		},
		{
			name:   "zero production is a reading",
			fields: dayFormFields{production: "0"},
			want:   domain.Reading{Production: domain.FloatPtr(0)},
		},
		{name: "negative production", fields: dayFormFields{production: "-5"}, wantErr: true},
		{name: "text quality", fields: dayFormFields{quality: "high"}, wantErr: true},
		{name: "unknown safety", fields: dayFormFields{safety: "ok"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fields.reading()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDayForm_PrefillsFromStoredReading(t *testing.T) {
	f := dayFormFieldsFrom(domain.Reading{
		Production: domain.FloatPtr(4500),
		Safety:     domain.SafetyLostTime.Ptr(),
	})
	assert.Equal(t, "4500", f.production)
	assert.Empty(t, f.quality)
	assert.Equal(t, "lost-time", f.safety)
}

func TestDayForm_Validators(t *testing.T) {
	assert.NoError(t, validateProduction(""))
	assert.NoError(t, validateProduction("12.5"))
	assert.Error(t, validateProduction("-1"))
	assert.Error(t, validateProduction("NaN"))

	assert.NoError(t, validateQuality(""))
	assert.NoError(t, validateQuality("-3"))
	assert.Error(t, validateQuality("Inf"))
}

func testController(t *testing.T) *thresholds.Controller {
	t.Helper()
	ctrl := thresholds.NewController(settings.NewStore(t.TempDir(), nil), nil)
	ctrl.Load()
	return ctrl
}

func TestThresholdForm_AppliesTargetMode(t *testing.T) {
	ctrl := testController(t)
	f := thresholdFormFieldsFrom(ctrl.Current())
	assert.Equal(t, "absolute", f.mode)
	assert.Equal(t, "4000", f.productionGood)

	f.mode = "target"
	f.target = "5000"
	f.productionGood = "95"
	f.productionAlert = "85"

	msg := applyThresholdForm(ctrl, f)
	out, ok := msg.(cmdOutputMsg)
	require.True(t, ok, "expected cmdOutputMsg, got %T", msg)
	assert.Contains(t, stripANSI(out.output), "Thresholds updated")
	assert.Contains(t, stripANSI(out.output), "95% = 4750")

	th := ctrl.Current()
	assert.Equal(t, domain.ModeTarget, th.Mode)
	require.NotNil(t, th.ProductionTarget)
	assert.Equal(t, 5000.0, *th.ProductionTarget)
}

func TestThresholdForm_BlankTargetClears(t *testing.T) {
	ctrl := testController(t)
	ctrl.Update(domain.ThresholdPatch{ProductionTarget: domain.FloatPtr(6000)})

	f := thresholdFormFieldsFrom(ctrl.Current())
	assert.Equal(t, "6000", f.target)
	f.target = ""

	applyThresholdForm(ctrl, f)
	assert.Nil(t, ctrl.Current().ProductionTarget)
}

func TestThresholdForm_RejectsOutOfRange(t *testing.T) {
	ctrl := testController(t)
	f := thresholdFormFieldsFrom(ctrl.Current())
	f.productionGood = "4050"

	msg := applyThresholdForm(ctrl, f)
	out, ok := msg.(cmdOutputMsg)
	require.True(t, ok)
	assert.Contains(t, stripANSI(out.output), "Error:")
	assert.Equal(t, domain.DefaultThresholds(), ctrl.Current())
}

func TestThresholdForm_ValidatorFollowsChosenMode(t *testing.T) {
	f := thresholdFormFieldsFrom(domain.DefaultThresholds())
	validate := f.validator(thresholds.FieldProductionGood)

	assert.NoError(t, validate("4000"))
	assert.Error(t, validate("95"))

	f.mode = "target"
	assert.NoError(t, validate("95"))
	assert.Error(t, validate("4000"))

	assert.NoError(t, f.validateTarget(""))
	assert.Error(t, f.validateTarget("0"))
	assert.Error(t, f.validateTarget("abc"))
}
