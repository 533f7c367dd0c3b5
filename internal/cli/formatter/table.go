package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const tableGap = "  "

// Column describes one table column. Numeric columns set Right so their
// values line up on the last digit.
type Column struct {
	Title string
	Right bool
}

// RenderTable lays out rows under a styled header and a rule. Widths are
// measured on visible text, so cells may carry status colors.
func RenderTable(cols []Column, rows [][]string) string {
	if len(cols) == 0 {
		return ""
	}

	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = lipgloss.Width(c.Title)
	}
	for _, row := range rows {
		for i := range cols {
			if i < len(row) {
				widths[i] = max(widths[i], lipgloss.Width(row[i]))
			}
		}
	}

	var b strings.Builder
	line := func(cells []string) {
		parts := make([]string, len(cols))
		for i, c := range cols {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = alignCell(cell, widths[i], c.Right)
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, tableGap), " "))
		b.WriteByte('\n')
	}

	titles := make([]string, len(cols))
	rules := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = StyleHeader.Render(c.Title)
		rules[i] = StyleDim.Render(strings.Repeat("─", widths[i]))
	}
	line(titles)
	line(rules)
	for _, row := range rows {
		line(row)
	}
	return b.String()
}

func alignCell(cell string, width int, right bool) string {
	pad := strings.Repeat(" ", max(0, width-lipgloss.Width(cell)))
	if right {
		return pad + cell
	}
	return cell + pad
}
