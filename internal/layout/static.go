package layout

// StaticTable places day d at index d-1. Positions never depend on the
// month length, so already-placed days do not move when it changes.
type StaticTable []Point

// Position returns the position of day. Days outside the table fall back
// to Origin.
func (t StaticTable) Position(day int) Point {
	if day < 1 || day > len(t) {
		return Origin
	}
	return t[day-1]
}

// Place positions days 1..daysInMonth.
func (t StaticTable) Place(daysInMonth int) []Marker {
	if daysInMonth <= 0 {
		return nil
	}
	out := make([]Marker, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		out = append(out, Marker{Day: day, Point: t.Position(day)})
	}
	return out
}

// Coordinate tables. X is the distance from the left edge, Y from the top.

var tableP = StaticTable{
	// bowl top row
	{22, 10}, {38, 10}, {54, 10}, {70, 10},
	// stem
	{22, 20}, {22, 30}, {22, 40}, {22, 50},
	{22, 60}, {22, 70}, {22, 80}, {22, 90},
	// bowl right curve
	{82, 15}, {88, 22}, {90, 30}, {90, 38}, {88, 46}, {82, 52},
	// bowl closing row
	{38, 50}, {54, 50}, {70, 50},
	// bowl fill
	{54, 22}, {70, 22}, {54, 30}, {70, 30}, {54, 38}, {70, 38},
	// second stem column
	{38, 60}, {38, 70}, {38, 80}, {38, 90},
}

var tableQ = StaticTable{
	// outer ring
	{88, 50}, {84, 32}, {72, 18}, {55, 10}, {38, 10}, {21, 18}, {10, 32},
	{6, 50}, {10, 68}, {21, 82}, {38, 90}, {55, 90}, {72, 82}, {84, 68},
	{90, 80},
	// inner ring
	{68, 28}, {55, 22}, {38, 22}, {25, 28}, {20, 40}, {18, 50}, {20, 60},
	{25, 72}, {38, 78}, {55, 78}, {68, 72}, {73, 60}, {75, 50}, {73, 40},
	// tail
	{80, 88}, {86, 94},
}

var tableS = StaticTable{
	// top arc
	{85, 15}, {82, 10}, {70, 5}, {50, 5}, {30, 5}, {18, 10}, {15, 20},
	// upper bend
	{15, 30}, {20, 38}, {30, 42}, {40, 45},
	{50, 50},
	// lower bend
	{60, 55}, {70, 58}, {80, 62}, {85, 70},
	// bottom arc
	{85, 80}, {82, 90}, {70, 95}, {50, 95}, {30, 95}, {18, 90}, {15, 85},
	// fill
	{60, 12}, {40, 12}, {25, 25}, {75, 75}, {60, 88}, {40, 88},
	{35, 35}, {65, 65},
}

// tableO is three concentric rings of 16, 10 and 5 points, each starting
// at the top and running clockwise.
var tableO = StaticTable{
	{50.0, 8.0}, {66.1, 11.2}, {79.7, 20.3}, {88.8, 33.9},
	{92.0, 50.0}, {88.8, 66.1}, {79.7, 79.7}, {66.1, 88.8},
	{50.0, 92.0}, {33.9, 88.8}, {20.3, 79.7}, {11.2, 66.1},
	{8.0, 50.0}, {11.2, 33.9}, {20.3, 20.3}, {33.9, 11.2},
	{50.0, 22.0}, {66.5, 27.3}, {76.6, 41.3}, {76.6, 58.7}, {66.5, 72.7},
	{50.0, 78.0}, {33.5, 72.7}, {23.4, 58.7}, {23.4, 41.3}, {33.5, 27.3},
	{50.0, 35.0}, {64.3, 45.4}, {58.8, 62.1}, {41.2, 62.1}, {35.7, 45.4},
}
