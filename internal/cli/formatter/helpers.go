package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(1).
		PaddingRight(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n" + content)
	}

	return boxStyle.Render(content)
}

// HumanTimestamp returns a human-friendly relative timestamp relative to now.
func HumanTimestamp(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case t.IsZero():
		return "--"
	case diff < 0:
		return t.Format("Jan 2, 2006 15:04")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// Number formats an optional value without trailing zeros. Unset values
// render as "--".
func Number(v *float64) string {
	if v == nil {
		return "--"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Percent formats an optional quality value.
func Percent(v *float64) string {
	if v == nil {
		return "--"
	}
	return Number(v) + "%"
}

// Safety formats an optional safety status.
func Safety(s *domain.SafetyStatus) string {
	if s == nil {
		return "--"
	}
	switch *s {
	case domain.SafetySafe:
		return "Safe"
	case domain.SafetyRecordable:
		return "Recordable"
	case domain.SafetyLostTime:
		return "Lost Time"
	}
	return string(*s)
}

// MetricValue formats the field of r belonging to kind.
func MetricValue(r *domain.Reading, kind domain.MetricKind) string {
	if r == nil {
		return "--"
	}
	switch kind {
	case domain.MetricProduction:
		return Number(r.Production)
	case domain.MetricQuality:
		return Percent(r.Quality)
	case domain.MetricSafety:
		return Safety(r.Safety)
	}
	return "--"
}
