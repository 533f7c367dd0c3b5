package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderCoverage renders how much of a month has been recorded as a bar
// like [████░░░░] 12/31. Colors follow the share recorded: green above
// two thirds, yellow above one third, red below.
func RenderCoverage(recorded, total, width int) string {
	pct := 0.0
	if total > 0 {
		pct = float64(recorded) / float64(total)
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	empty := width - filled

	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, empty)

	var style = StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}

	return fmt.Sprintf("[%s] %d/%d", style.Render(bar), recorded, total)
}
