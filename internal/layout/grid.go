package layout

// Cross grid dimensions.
const (
	GridCols = 7
	GridRows = 8
)

// Cell is a 1-based grid position.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// crossCells places the days of a month as a plus sign: a three-wide
// vertical bar crossed by a two-row horizontal bar across all columns.
var crossCells = map[int]Cell{
	1: {1, 3}, 2: {1, 4}, 3: {1, 5},
	4: {2, 3}, 5: {2, 4}, 6: {2, 5},
	7: {3, 1}, 8: {3, 2}, 9: {3, 3}, 10: {3, 4}, 11: {3, 5}, 12: {3, 6}, 13: {3, 7},
	14: {4, 1}, 15: {4, 2}, 16: {4, 3}, 17: {4, 4}, 18: {4, 5}, 19: {4, 6}, 20: {4, 7},
	21: {5, 3}, 22: {5, 4}, 23: {5, 5},
	24: {6, 3}, 25: {6, 4}, 26: {6, 5},
	27: {7, 3}, 28: {7, 4}, 29: {7, 5},
	30: {8, 3}, 31: {8, 4},
}

// crossFillers are inert cells that square off the bottom of the cross for
// each month length. A 29-day month ends on a full row and needs none.
var crossFillers = map[int][]Cell{
	28: {{7, 5}},
	29: nil,
	30: {{8, 4}, {8, 5}},
	31: {{8, 5}},
}

// SafetyCross is the calendar-grid layout for the safety shape.
type SafetyCross struct{}

// CellFor returns the grid cell of day. ok is false for days beyond the
// month or outside the table; such days are not drawn.
func (SafetyCross) CellFor(day, daysInMonth int) (Cell, bool) {
	if day < 1 || day > daysInMonth {
		return Cell{}, false
	}
	c, ok := crossCells[day]
	return c, ok
}

// Fillers returns the placeholder cells for a month of the given length.
func (SafetyCross) Fillers(daysInMonth int) []Cell {
	return append([]Cell(nil), crossFillers[daysInMonth]...)
}

// Place reports each drawn day at the center of its cell.
func (g SafetyCross) Place(daysInMonth int) []Marker {
	var out []Marker
	for day := 1; day <= MaxDays; day++ {
		c, ok := g.CellFor(day, daysInMonth)
		if !ok {
			continue
		}
		out = append(out, Marker{Day: day, Point: c.Center()})
	}
	return out
}

// Center returns the middle of the cell in panel percentages.
func (c Cell) Center() Point {
	return Point{
		X: (float64(c.Col) - 0.5) / GridCols * 100,
		Y: (float64(c.Row) - 0.5) / GridRows * 100,
	}
}
