package formatter

import (
	"fmt"
	"strings"

	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/ankushthakur2007/sqp/internal/layout"
	"github.com/ankushthakur2007/sqp/internal/service"
	"github.com/charmbracelet/lipgloss"
)

// Letter panel canvas size in characters.
const (
	PanelWidth  = 23
	PanelHeight = 12
)

const (
	markerGlyph   = "●"
	selectedGlyph = "◆"
	fillerGlyph   = "··"
)

var styleSelected = lipgloss.NewStyle().Reverse(true).Bold(true)

type canvasCell struct {
	glyph string
	style lipgloss.Style
	day   int
}

// RenderShape draws the markers of one letter on a width x height canvas.
// The selected day, if any, is drawn with a distinct glyph and wins when
// two days project onto the same character.
func RenderShape(markers []service.MarkerView, selected, width, height int) string {
	if width < 1 || height < 1 {
		return ""
	}
	grid := make([][]canvasCell, height)
	for r := range grid {
		grid[r] = make([]canvasCell, width)
	}

	for _, m := range markers {
		col, row := layout.Project(layout.Point{X: m.X, Y: m.Y}, width, height)
		cell := &grid[row][col]
		if cell.day != 0 && m.Day != selected {
			continue
		}
		cell.day = m.Day
		cell.glyph = markerGlyph
		cell.style = StatusColor(m.Status)
		if m.Day == selected {
			cell.glyph = selectedGlyph
			cell.style = cell.style.Bold(true)
		}
	}

	var b strings.Builder
	for r, line := range grid {
		for _, c := range line {
			if c.day == 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(c.style.Render(c.glyph))
		}
		if r < len(grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// RenderCross draws the safety cross as a calendar grid with day numbers.
func RenderCross(v service.MonthView, selected int) string {
	status := make(map[int]domain.Status, len(v.Shapes[service.ShapeCross]))
	for _, m := range v.Shapes[service.ShapeCross] {
		status[m.Day] = m.Status
	}
	cells := make(map[layout.Cell]int, v.DaysInMonth)
	var cross layout.SafetyCross
	for day := 1; day <= v.DaysInMonth; day++ {
		if c, ok := cross.CellFor(day, v.DaysInMonth); ok {
			cells[c] = day
		}
	}
	fillers := make(map[layout.Cell]bool, len(v.Fillers))
	for _, c := range v.Fillers {
		fillers[c] = true
	}

	var b strings.Builder
	for row := 1; row <= layout.GridRows; row++ {
		for col := 1; col <= layout.GridCols; col++ {
			c := layout.Cell{Row: row, Col: col}
			day, ok := cells[c]
			switch {
			case ok:
				style := StatusColor(status[day])
				if day == selected {
					style = styleSelected.Foreground(style.GetForeground())
				}
				b.WriteString(style.Render(fmt.Sprintf("%2d", day)))
			case fillers[c]:
				b.WriteString(StyleEmpty.Render(fillerGlyph))
			default:
				b.WriteString("  ")
			}
			if col < layout.GridCols {
				b.WriteByte(' ')
			}
		}
		if row < layout.GridRows {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// RenderLegend explains the status colors.
func RenderLegend() string {
	parts := make([]string, 0, 4)
	for _, s := range []domain.Status{domain.StatusGood, domain.StatusWarning, domain.StatusAlert, domain.StatusNoData} {
		parts = append(parts, StatusColor(s).Render(markerGlyph)+" "+Dim(s.Label()))
	}
	return strings.Join(parts, "   ")
}

// MonthOptions controls how RenderMonth draws the panels.
type MonthOptions struct {
	Selected int
	// LetterSafety draws safety on the S letter instead of the cross grid.
	LetterSafety bool
}

// RenderMonth draws the three metric panels side by side with a title,
// legend and coverage bar.
func RenderMonth(v service.MonthView, opts MonthOptions) string {
	var safety string
	if opts.LetterSafety {
		safety = RenderShape(v.Shapes[string(layout.ShapeS)], opts.Selected, PanelWidth, PanelHeight)
	} else {
		safety = RenderCross(v, opts.Selected)
	}
	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		RenderBox("Safety", safety),
		RenderBox("Quality", RenderShape(v.Shapes[string(layout.ShapeQ)], opts.Selected, PanelWidth, PanelHeight)),
		RenderBox("Production", RenderShape(v.Shapes[string(layout.ShapeP)], opts.Selected, PanelWidth, PanelHeight)),
	)

	recorded := 0
	for _, d := range v.Days {
		if d.Reading != nil {
			recorded++
		}
	}

	var b strings.Builder
	b.WriteString(Header(v.Title))
	b.WriteString("\n")
	b.WriteString(panels)
	b.WriteString("\n")
	b.WriteString(RenderLegend())
	b.WriteString("   ")
	b.WriteString(RenderCoverage(recorded, v.DaysInMonth, 16))
	return b.String()
}

// FormatDaySummary lists each metric of one day with its status.
func FormatDaySummary(d service.DayView) string {
	var b strings.Builder
	b.WriteString(Bold(d.Date))
	b.WriteString("\n")
	for _, kind := range []domain.MetricKind{domain.MetricSafety, domain.MetricQuality, domain.MetricProduction} {
		fmt.Fprintf(&b, "  %-11s %-11s %s\n",
			kind.Title(),
			MetricValue(d.Reading, kind),
			StatusIndicator(d.Status.Of(kind)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatMonthTable lists the recorded days of a month.
func FormatMonthTable(v service.MonthView) string {
	rows := make([][]string, 0, len(v.Days))
	for _, d := range v.Days {
		if d.Reading == nil {
			continue
		}
		rows = append(rows, []string{
			d.Date,
			StatusColor(d.Status.Production).Render(MetricValue(d.Reading, domain.MetricProduction)),
			StatusColor(d.Status.Quality).Render(MetricValue(d.Reading, domain.MetricQuality)),
			StatusColor(d.Status.Safety).Render(MetricValue(d.Reading, domain.MetricSafety)),
		})
	}
	if len(rows) == 0 {
		return Dim("No entries for " + v.Title + ".")
	}
	return RenderTable([]Column{
		{Title: "DATE"},
		{Title: "PRODUCTION", Right: true},
		{Title: "QUALITY", Right: true},
		{Title: "SAFETY"},
	}, rows)
}

// FormatThresholds shows the active threshold set. In target mode the
// production cutoffs are shown both as percentages and in units.
func FormatThresholds(th domain.Thresholds) string {
	var b strings.Builder
	b.WriteString(Header("Thresholds"))
	b.WriteString("\n")

	mode := string(th.Mode)
	if th.Mode == domain.ModeTarget && !th.TargetRelative() {
		mode += Dim(" (no target set, using absolute)")
	}
	fmt.Fprintf(&b, "  %-18s %s\n", "Mode", mode)
	fmt.Fprintf(&b, "  %-18s %s\n", "Production target", Number(th.ProductionTarget))

	good, alert, _ := th.Cutoffs(domain.MetricProduction)
	if th.TargetRelative() {
		fmt.Fprintf(&b, "  %-18s %s%% %s\n", "Production good", Number(&th.ProductionGood), Dim("= "+Number(&good)))
		fmt.Fprintf(&b, "  %-18s %s%% %s\n", "Production alert", Number(&th.ProductionAlert), Dim("= "+Number(&alert)))
	} else {
		fmt.Fprintf(&b, "  %-18s %s\n", "Production good", Number(&good))
		fmt.Fprintf(&b, "  %-18s %s\n", "Production alert", Number(&alert))
	}
	fmt.Fprintf(&b, "  %-18s %s\n", "Quality good", Percent(&th.QualityGood))
	fmt.Fprintf(&b, "  %-18s %s", "Quality alert", Percent(&th.QualityAlert))
	return b.String()
}
