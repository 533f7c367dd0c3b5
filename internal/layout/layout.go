// Package layout places day-of-month markers on decorative letter shapes.
//
// Positions are percentages of the panel (0..100 on both axes, origin at
// the top-left). Three strategies exist: fixed coordinate tables, even
// arc-length sampling along a path, and a calendar grid shaped as a cross.
// Every strategy is deterministic in (shape, day, daysInMonth).
package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/ankushthakur2007/sqp/internal/domain"
)

// Shape names a decorative letter.
type Shape string

const (
	ShapeS Shape = "S"
	ShapeQ Shape = "Q"
	ShapeP Shape = "P"
	// ShapeO is drawn in place of Q for the quality metric.
	ShapeO Shape = "O"
)

// Shapes lists the supported shapes.
var Shapes = []Shape{ShapeS, ShapeQ, ShapeP, ShapeO}

// ParseShape accepts a shape letter in any case.
func ParseShape(s string) (Shape, error) {
	sh := Shape(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Shapes {
		if sh == known {
			return sh, nil
		}
	}
	return "", fmt.Errorf("unknown shape %q (want S, Q, P or O)", s)
}

// ShapeFor returns the default letter for a metric.
func ShapeFor(kind domain.MetricKind) Shape {
	switch kind {
	case domain.MetricSafety:
		return ShapeS
	case domain.MetricQuality:
		return ShapeQ
	default:
		return ShapeP
	}
}

// MetricFor returns the metric a shape is colored by.
func MetricFor(s Shape) domain.MetricKind {
	switch s {
	case ShapeS:
		return domain.MetricSafety
	case ShapeQ, ShapeO:
		return domain.MetricQuality
	default:
		return domain.MetricProduction
	}
}

// Point is a position in panel percentages.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Origin is the fallback position for days a table does not cover.
var Origin = Point{}

// Marker is a placed day.
type Marker struct {
	Day   int   `json:"day"`
	Point Point `json:"point"`
}

// Strategy places the days of a month.
type Strategy interface {
	// Place returns markers for the days this strategy can position, in
	// ascending day order. Days it cannot place are omitted.
	Place(daysInMonth int) []Marker
}

// Registry selects a strategy per shape.
type Registry map[Shape]Strategy

// DefaultRegistry uses the fixed coordinate tables for every shape.
func DefaultRegistry() Registry {
	return Registry{
		ShapeS: StaticTable(tableS),
		ShapeQ: StaticTable(tableQ),
		ShapeP: StaticTable(tableP),
		ShapeO: StaticTable(tableO),
	}
}

// PathRegistry samples every shape from its outline path.
func PathRegistry() Registry {
	return Registry{
		ShapeS: MustPathSampler(pathS, MaxDays),
		ShapeQ: MustPathSampler(pathQ, MaxDays),
		ShapeP: MustPathSampler(pathP, MaxDays),
		ShapeO: MustPathSampler(pathO, MaxDays),
	}
}

// Place positions the days of a month on shape. An unregistered shape
// places nothing.
func (r Registry) Place(shape Shape, daysInMonth int) []Marker {
	s, ok := r[shape]
	if !ok {
		return nil
	}
	return s.Place(daysInMonth)
}

// MaxDays is the longest month.
const MaxDays = 31

// Project maps a panel position to a character cell in a width x height
// canvas. Results are clamped to the canvas.
func Project(p Point, width, height int) (col, row int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	col = int(math.Round(p.X / 100 * float64(width-1)))
	row = int(math.Round(p.Y / 100 * float64(height-1)))
	return clamp(col, 0, width-1), clamp(row, 0, height-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
