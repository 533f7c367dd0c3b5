package domain

// Thresholds holds the good/alert cutoffs for the numeric metrics.
//
// A value v is alert when v < Alert, good when v >= Good, warning otherwise.
// No ordering between Good and Alert is enforced: when Alert >= Good the
// warning band is empty and the alert check wins.
type Thresholds struct {
	ProductionGood  float64 `json:"productionGood" yaml:"productionGood"`
	ProductionAlert float64 `json:"productionAlert" yaml:"productionAlert"`
	QualityGood     float64 `json:"qualityGood" yaml:"qualityGood"`
	QualityAlert    float64 `json:"qualityAlert" yaml:"qualityAlert"`

	// ProductionTarget is the absolute production goal. It only affects
	// classification when Mode is ModeTarget.
	ProductionTarget *float64      `json:"productionTarget,omitempty" yaml:"productionTarget,omitempty"`
	Mode             ThresholdMode `json:"mode,omitempty" yaml:"mode,omitempty"`
}

// DefaultThresholds returns the factory threshold set.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ProductionGood:  4000,
		ProductionAlert: 1000,
		QualityGood:     95,
		QualityAlert:    85,
		Mode:            ModeAbsolute,
	}
}

// TargetRelative reports whether production cutoffs are percentages of the
// target. Target mode without a usable target degrades to absolute.
func (t Thresholds) TargetRelative() bool {
	return t.Mode == ModeTarget && t.ProductionTarget != nil && *t.ProductionTarget > 0
}

// Cutoffs returns the (good, alert) pair for a numeric metric in absolute
// units. ok is false for metrics that are not threshold-classified.
func (t Thresholds) Cutoffs(kind MetricKind) (good, alert float64, ok bool) {
	switch kind {
	case MetricProduction:
		if t.TargetRelative() {
			target := *t.ProductionTarget
			return target * t.ProductionGood / 100, target * t.ProductionAlert / 100, true
		}
		return t.ProductionGood, t.ProductionAlert, true
	case MetricQuality:
		return t.QualityGood, t.QualityAlert, true
	}
	return 0, 0, false
}

// Clone returns a copy that shares no pointers with t.
func (t Thresholds) Clone() Thresholds {
	out := t
	if t.ProductionTarget != nil {
		out.ProductionTarget = FloatPtr(*t.ProductionTarget)
	}
	return out
}

// ThresholdPatch is a partial change to Thresholds. Nil fields are left as-is.
type ThresholdPatch struct {
	ProductionGood   *float64       `json:"productionGood,omitempty" yaml:"productionGood,omitempty"`
	ProductionAlert  *float64       `json:"productionAlert,omitempty" yaml:"productionAlert,omitempty"`
	QualityGood      *float64       `json:"qualityGood,omitempty" yaml:"qualityGood,omitempty"`
	QualityAlert     *float64       `json:"qualityAlert,omitempty" yaml:"qualityAlert,omitempty"`
	ProductionTarget *float64       `json:"productionTarget,omitempty" yaml:"productionTarget,omitempty"`
	Mode             *ThresholdMode `json:"mode,omitempty" yaml:"mode,omitempty"`

	// ClearTarget removes ProductionTarget. It takes precedence over a
	// ProductionTarget value in the same patch.
	ClearTarget bool `json:"clearTarget,omitempty" yaml:"clearTarget,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ThresholdPatch) IsEmpty() bool {
	return p.ProductionGood == nil && p.ProductionAlert == nil &&
		p.QualityGood == nil && p.QualityAlert == nil &&
		p.ProductionTarget == nil && p.Mode == nil && !p.ClearTarget
}

// Apply merges p into t and returns the result. t is not modified.
func (t Thresholds) Apply(p ThresholdPatch) Thresholds {
	out := t.Clone()
	out.ProductionGood = Float64FromPtrWithDefault(out.ProductionGood, p.ProductionGood)
	out.ProductionAlert = Float64FromPtrWithDefault(out.ProductionAlert, p.ProductionAlert)
	out.QualityGood = Float64FromPtrWithDefault(out.QualityGood, p.QualityGood)
	out.QualityAlert = Float64FromPtrWithDefault(out.QualityAlert, p.QualityAlert)
	if p.ProductionTarget != nil {
		out.ProductionTarget = FloatPtr(*p.ProductionTarget)
	}
	if p.ClearTarget {
		out.ProductionTarget = nil
	}
	if p.Mode != nil {
		out.Mode = *p.Mode
	}
	return out
}
