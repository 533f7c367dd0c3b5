// Package classify maps daily readings to display statuses.
package classify

import "github.com/ankushthakur2007/sqp/internal/domain"

// Classify returns the status of one metric of a reading. A nil reading
// means the day has no entry.
//
// Numeric metrics check alert (v < A) before good (v >= G), so with
// inverted cutoffs any value below A is alert. NaN fails both comparisons
// and is reported as warning.
func Classify(r *domain.Reading, kind domain.MetricKind, th domain.Thresholds) domain.Status {
	if r == nil {
		return domain.StatusNoData
	}
	switch kind {
	case domain.MetricSafety:
		return Safety(r.Safety)
	case domain.MetricProduction:
		return numeric(r.Production, kind, th)
	case domain.MetricQuality:
		return numeric(r.Quality, kind, th)
	}
	return domain.StatusNoData
}

// Safety maps a safety status directly onto a display status.
func Safety(s *domain.SafetyStatus) domain.Status {
	if s == nil {
		return domain.StatusNoData
	}
	switch *s {
	case domain.SafetySafe:
		return domain.StatusGood
	case domain.SafetyRecordable:
		return domain.StatusWarning
	case domain.SafetyLostTime:
		return domain.StatusAlert
	}
	return domain.StatusNoData
}

// Value classifies v against a (good, alert) pair.
func Value(v, good, alert float64) domain.Status {
	if v < alert {
		return domain.StatusAlert
	}
	if v >= good {
		return domain.StatusGood
	}
	return domain.StatusWarning
}

func numeric(v *float64, kind domain.MetricKind, th domain.Thresholds) domain.Status {
	if v == nil {
		return domain.StatusNoData
	}
	good, alert, _ := th.Cutoffs(kind)
	return Value(*v, good, alert)
}

// DayStatus is the per-metric status of one day.
type DayStatus struct {
	Safety     domain.Status `json:"safety"`
	Quality    domain.Status `json:"quality"`
	Production domain.Status `json:"production"`
}

// Of returns the status for kind.
func (d DayStatus) Of(kind domain.MetricKind) domain.Status {
	switch kind {
	case domain.MetricSafety:
		return d.Safety
	case domain.MetricQuality:
		return d.Quality
	case domain.MetricProduction:
		return d.Production
	}
	return domain.StatusNoData
}

// All classifies every metric of a reading.
func All(r *domain.Reading, th domain.Thresholds) DayStatus {
	return DayStatus{
		Safety:     Classify(r, domain.MetricSafety, th),
		Quality:    Classify(r, domain.MetricQuality, th),
		Production: Classify(r, domain.MetricProduction, th),
	}
}
