package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSafetyStatus is returned when a safety status string is not one
// of the recognized values.
var ErrInvalidSafetyStatus = errors.New("invalid safety status")

type SafetyStatus string

const (
	SafetySafe       SafetyStatus = "safe"
	SafetyRecordable SafetyStatus = "recordable"
	SafetyLostTime   SafetyStatus = "lost-time"
)

// ValidSafetyStatuses is the canonical set of accepted safety status strings.
var ValidSafetyStatuses = map[string]bool{
	"safe": true, "recordable": true, "lost-time": true,
}

// ParseSafetyStatus normalizes user input into a SafetyStatus.
// "lost_time" and "losttime" are accepted as spellings of lost-time.
func ParseSafetyStatus(s string) (SafetyStatus, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	switch norm {
	case "lost_time", "losttime":
		norm = string(SafetyLostTime)
	}
	if !ValidSafetyStatuses[norm] {
		return "", fmt.Errorf("%q: %w", s, ErrInvalidSafetyStatus)
	}
	return SafetyStatus(norm), nil
}

// Ptr returns a pointer to a copy of s.
func (s SafetyStatus) Ptr() *SafetyStatus {
	return &s
}

// Status is the visual state of one metric on one day.
type Status string

const (
	StatusGood    Status = "good"
	StatusWarning Status = "warning"
	StatusAlert   Status = "alert"
	StatusNoData  Status = "no-data"
)

// Label returns the human-readable legend text for the status.
func (s Status) Label() string {
	switch s {
	case StatusGood:
		return "Good"
	case StatusWarning:
		return "Warning"
	case StatusAlert:
		return "Alert"
	default:
		return "No Data"
	}
}

type MetricKind string

const (
	MetricSafety     MetricKind = "safety"
	MetricQuality    MetricKind = "quality"
	MetricProduction MetricKind = "production"
)

// Metrics lists the tracked metrics in display order (S, Q, P).
var Metrics = []MetricKind{MetricSafety, MetricQuality, MetricProduction}

// Title returns the panel heading for the metric.
func (k MetricKind) Title() string {
	return strings.ToUpper(string(k))
}

// ThresholdMode selects how production cutoffs are interpreted.
type ThresholdMode string

const (
	// ModeAbsolute treats production cutoffs as units.
	ModeAbsolute ThresholdMode = "absolute"
	// ModeTarget treats production cutoffs as percentages of ProductionTarget.
	ModeTarget ThresholdMode = "target"
)

// ParseThresholdMode accepts "absolute" or "target"; the empty string maps
// to ModeAbsolute.
func ParseThresholdMode(s string) (ThresholdMode, error) {
	switch ThresholdMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAbsolute:
		return ModeAbsolute, nil
	case ModeTarget:
		return ModeTarget, nil
	}
	return "", fmt.Errorf("unknown threshold mode %q (want absolute or target)", s)
}
