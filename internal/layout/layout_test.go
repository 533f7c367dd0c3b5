package layout

import (
	"math"
	"strconv"
	"testing"

	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticTables_HaveOnePointPerDay(t *testing.T) {
	for _, shape := range Shapes {
		tbl, ok := DefaultRegistry()[shape].(StaticTable)
		require.True(t, ok, "shape=%s", shape)
		assert.Len(t, tbl, MaxDays, "shape=%s", shape)
		for i, p := range tbl {
			assert.True(t, p.X >= 0 && p.X <= 100 && p.Y >= 0 && p.Y <= 100, "shape=%s day=%d %v", shape, i+1, p)
		}
	}
}

func TestStaticTable_PositionIsStableAcrossMonthLengths(t *testing.T) {
	reg := DefaultRegistry()
	for _, shape := range Shapes {
		short := reg.Place(shape, 28)
		long := reg.Place(shape, 31)
		if diff := cmp.Diff(short, long[:28]); diff != "" {
			t.Errorf("shape %s moved placed days (-28 +31):\n%s", shape, diff)
		}
		again := reg.Place(shape, 28)
		if diff := cmp.Diff(short, again); diff != "" {
			t.Errorf("shape %s not deterministic:\n%s", shape, diff)
		}
	}
}

func TestStaticTable_OutOfRangeFallsBackToOrigin(t *testing.T) {
	tbl := StaticTable{{10, 10}, {20, 20}}
	assert.Equal(t, Origin, tbl.Position(0))
	assert.Equal(t, Origin, tbl.Position(3))
	assert.Equal(t, Point{20, 20}, tbl.Position(2))

	got := tbl.Place(3)
	want := []Marker{{1, Point{10, 10}}, {2, Point{20, 20}}, {3, Origin}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Place mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, tbl.Place(0))
}

func TestParsePath_LineLength(t *testing.T) {
	p, err := ParsePath("M 0 0 L 30 40 h 10 v -10 Z")
	require.NoError(t, err)
	// 50 + 10 + 10 + hypot(40, 30)
	assert.InDelta(t, 120, p.Length(), 1e-9)
	assert.Equal(t, Point{30, 40}, p.PointAt(50))
	assert.Equal(t, Point{0, 0}, p.PointAt(-5))
}

func TestParsePath_ImplicitLineToAndRelative(t *testing.T) {
	p, err := ParsePath("m10,10 10,0 l0,10")
	require.NoError(t, err)
	assert.InDelta(t, 20, p.Length(), 1e-9)
	assert.Equal(t, Point{20, 20}, p.PointAt(100))
}

func TestParsePath_SubpathMoveDoesNotCount(t *testing.T) {
	p, err := ParsePath("M 0 0 L 10 0 M 50 50 L 50 60")
	require.NoError(t, err)
	assert.InDelta(t, 20, p.Length(), 1e-9)
	assert.Equal(t, Point{50, 55}, p.PointAt(15))
}

func TestParsePath_CurveApproximatesArc(t *testing.T) {
	// Quarter circle of radius 100 as a cubic.
	k := 0.5522847498 * 100
	p, err := ParsePath("M 100 0 C 100 " + ftoa(k) + " " + ftoa(k) + " 100 0 100")
	require.NoError(t, err)
	assert.InDelta(t, math.Pi*50, p.Length(), 0.1)
}

func TestParsePath_Errors(t *testing.T) {
	for _, d := range []string{"", "L 1 1", "M 1", "M 1 1 X 2 2", "M 1 1 Z 4"} {
		_, err := ParsePath(d)
		assert.Error(t, err, "path %q", d)
	}
}

func TestSample_CentersPointsOnSegments(t *testing.T) {
	p := MustParsePath("M 0 0 L 100 0")
	got := p.Sample(4)
	want := []Point{{12.5, 0}, {37.5, 0}, {62.5, 0}, {87.5, 0}}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Sample mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, p.Sample(0))
}

func TestPathSampler_RedistributesAllPointsWhenMonthGrows(t *testing.T) {
	for _, shape := range Shapes {
		s := PathRegistry()[shape]
		thirty := s.Place(30)
		thirtyOne := s.Place(31)
		require.Len(t, thirty, 30)
		require.Len(t, thirtyOne, 31)
		for i := range thirty {
			assert.NotEqual(t, thirty[i].Point, thirtyOne[i].Point, "shape=%s day=%d kept its position", shape, i+1)
		}
	}
}

func TestPathSampler_CapsAtMax(t *testing.T) {
	s := MustPathSampler("M 0 0 L 100 0", 10)
	got := s.Place(31)
	require.Len(t, got, 10)
	assert.Equal(t, 10, got[9].Day)
	assert.InDelta(t, 95, got[9].Point.X, 1e-9)
}

func TestSafetyCross_Cells(t *testing.T) {
	g := SafetyCross{}
	c, ok := g.CellFor(1, 31)
	require.True(t, ok)
	assert.Equal(t, Cell{1, 3}, c)

	c, ok = g.CellFor(20, 31)
	require.True(t, ok)
	assert.Equal(t, Cell{4, 7}, c)

	_, ok = g.CellFor(31, 30)
	assert.False(t, ok, "day beyond month is not drawn")
	_, ok = g.CellFor(32, 31)
	assert.False(t, ok)
}

func TestSafetyCross_FillersKeepBottomArmSquare(t *testing.T) {
	g := SafetyCross{}
	for days := 28; days <= 31; days++ {
		used := map[Cell]bool{}
		for _, m := range g.Place(days) {
			c, _ := g.CellFor(m.Day, days)
			used[c] = true
		}
		for _, f := range g.Fillers(days) {
			assert.False(t, used[f], "days=%d filler %v overlaps a day", days, f)
			used[f] = true
		}
		// Every row of the bottom arm is either full (cols 3..5) or empty.
		for row := 5; row <= GridRows; row++ {
			n := 0
			for col := 3; col <= 5; col++ {
				if used[Cell{row, col}] {
					n++
				}
			}
			assert.Contains(t, []int{0, 3}, n, "days=%d row=%d", days, row)
		}
	}
	assert.Nil(t, g.Fillers(29))
}

func TestCell_Center(t *testing.T) {
	p := Cell{Row: 1, Col: 1}.Center()
	assert.InDelta(t, 100.0/14, p.X, 1e-9)
	assert.InDelta(t, 100.0/16, p.Y, 1e-9)
}

func TestProject(t *testing.T) {
	col, row := Project(Point{100, 0}, 21, 11)
	assert.Equal(t, 20, col)
	assert.Equal(t, 0, row)

	col, row = Project(Point{50, 50}, 21, 11)
	assert.Equal(t, 10, col)
	assert.Equal(t, 5, row)

	col, row = Project(Point{150, -5}, 21, 11)
	assert.Equal(t, 20, col)
	assert.Equal(t, 0, row)
}

func TestShapeHelpers(t *testing.T) {
	s, err := ParseShape("o")
	require.NoError(t, err)
	assert.Equal(t, ShapeO, s)
	assert.Equal(t, domain.MetricQuality, MetricFor(ShapeO))
	assert.Equal(t, ShapeS, ShapeFor(domain.MetricSafety))
	assert.Equal(t, ShapeP, ShapeFor(domain.MetricProduction))

	_, err = ParseShape("X")
	assert.Error(t, err)
	assert.Nil(t, Registry{}.Place(ShapeS, 31))
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
