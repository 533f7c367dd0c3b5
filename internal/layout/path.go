package layout

import (
	"fmt"
	"math"
	"strconv"
)

// curveSegments is how many straight pieces each Bezier curve is flattened into.
const curveSegments = 32

// Path is an outline flattened into straight segments, measured by arc length.
type Path struct {
	start  Point
	segs   []segment
	length float64
}

type segment struct {
	a, b  Point
	from  float64 // arc distance at a
	width float64
}

// ParsePath parses SVG path data using the M, L, H, V, C, Q and Z commands
// in absolute (upper case) or relative (lower case) form. Moves between
// subpaths do not count toward the length.
func ParsePath(d string) (*Path, error) {
	lx := &pathLexer{s: d}
	p := &Path{}
	var cur, subStart Point
	var cmd byte
	started := false

	for {
		lx.skipSep()
		if lx.done() {
			break
		}
		if c, ok := lx.command(); ok {
			cmd = c
		} else if cmd == 0 || cmd == 'Z' || cmd == 'z' {
			return nil, fmt.Errorf("path offset %d: expected command", lx.i)
		}

		rel := cmd >= 'a' && cmd <= 'z'
		base := Point{}
		if rel {
			base = cur
		}

		switch cmd {
		case 'M', 'm':
			args, err := lx.numbers(2)
			if err != nil {
				return nil, err
			}
			cur = Point{base.X + args[0], base.Y + args[1]}
			subStart = cur
			if !started {
				p.start = cur
				started = true
			}
			// Further coordinate pairs are implicit line-tos.
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'L', 'l':
			args, err := lx.numbers(2)
			if err != nil {
				return nil, err
			}
			next := Point{base.X + args[0], base.Y + args[1]}
			p.line(cur, next)
			cur = next
		case 'H', 'h':
			args, err := lx.numbers(1)
			if err != nil {
				return nil, err
			}
			next := Point{base.X + args[0], cur.Y}
			p.line(cur, next)
			cur = next
		case 'V', 'v':
			args, err := lx.numbers(1)
			if err != nil {
				return nil, err
			}
			next := Point{cur.X, base.Y + args[0]}
			p.line(cur, next)
			cur = next
		case 'C', 'c':
			args, err := lx.numbers(6)
			if err != nil {
				return nil, err
			}
			c1 := Point{base.X + args[0], base.Y + args[1]}
			c2 := Point{base.X + args[2], base.Y + args[3]}
			end := Point{base.X + args[4], base.Y + args[5]}
			p.curve(func(t float64) Point { return cubic(cur, c1, c2, end, t) })
			cur = end
		case 'Q', 'q':
			args, err := lx.numbers(4)
			if err != nil {
				return nil, err
			}
			c1 := Point{base.X + args[0], base.Y + args[1]}
			end := Point{base.X + args[2], base.Y + args[3]}
			p.curve(func(t float64) Point { return quadratic(cur, c1, end, t) })
			cur = end
		case 'Z', 'z':
			p.line(cur, subStart)
			cur = subStart
		default:
			return nil, fmt.Errorf("path offset %d: unsupported command %q", lx.i-1, cmd)
		}
		if !started {
			return nil, fmt.Errorf("path must start with a move command")
		}
	}
	if !started {
		return nil, fmt.Errorf("empty path")
	}
	return p, nil
}

// MustParsePath is ParsePath for package-level outlines known to be valid.
func MustParsePath(d string) *Path {
	p, err := ParsePath(d)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Path) line(a, b Point) {
	w := math.Hypot(b.X-a.X, b.Y-a.Y)
	if w == 0 {
		return
	}
	p.segs = append(p.segs, segment{a: a, b: b, from: p.length, width: w})
	p.length += w
}

func (p *Path) curve(at func(t float64) Point) {
	prev := at(0)
	for i := 1; i <= curveSegments; i++ {
		next := at(float64(i) / curveSegments)
		p.line(prev, next)
		prev = next
	}
}

// Length returns the total arc length.
func (p *Path) Length() float64 {
	return p.length
}

// PointAt returns the point at arc distance dist, clamped to the path ends.
func (p *Path) PointAt(dist float64) Point {
	if len(p.segs) == 0 {
		return p.start
	}
	if dist <= 0 {
		return p.segs[0].a
	}
	// Binary search for the segment covering dist.
	lo, hi := 0, len(p.segs)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if p.segs[mid].from <= dist {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	s := p.segs[lo]
	t := (dist - s.from) / s.width
	if t > 1 {
		t = 1
	}
	return Point{s.a.X + (s.b.X-s.a.X)*t, s.a.Y + (s.b.Y-s.a.Y)*t}
}

// Sample returns n points evenly spaced by arc length, point i sitting at
// (i+0.5)*L/n so neither end of the path collects a marker.
func (p *Path) Sample(n int) []Point {
	if n <= 0 {
		return nil
	}
	out := make([]Point, n)
	step := p.length / float64(n)
	for i := range out {
		out[i] = p.PointAt((float64(i) + 0.5) * step)
	}
	return out
}

// PathSampler places min(Max, daysInMonth) days evenly along a path. The
// spacing depends on the count, so every position moves when the month
// length changes.
type PathSampler struct {
	Path *Path
	Max  int
}

// NewPathSampler parses d and caps the sample count at max.
func NewPathSampler(d string, max int) (*PathSampler, error) {
	p, err := ParsePath(d)
	if err != nil {
		return nil, err
	}
	return &PathSampler{Path: p, Max: max}, nil
}

// MustPathSampler is NewPathSampler for outlines known to be valid.
func MustPathSampler(d string, max int) *PathSampler {
	return &PathSampler{Path: MustParsePath(d), Max: max}
}

func (s *PathSampler) Place(daysInMonth int) []Marker {
	n := daysInMonth
	if s.Max < n {
		n = s.Max
	}
	pts := s.Path.Sample(n)
	out := make([]Marker, len(pts))
	for i, pt := range pts {
		out[i] = Marker{Day: i + 1, Point: pt}
	}
	return out
}

func cubic(p0, p1, p2, p3 Point, t float64) Point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return Point{
		a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

func quadratic(p0, p1, p2 Point, t float64) Point {
	u := 1 - t
	a, b, c := u*u, 2*u*t, t*t
	return Point{
		a*p0.X + b*p1.X + c*p2.X,
		a*p0.Y + b*p1.Y + c*p2.Y,
	}
}

type pathLexer struct {
	s string
	i int
}

func (l *pathLexer) done() bool { return l.i >= len(l.s) }

func (l *pathLexer) skipSep() {
	for l.i < len(l.s) {
		switch l.s[l.i] {
		case ' ', ',', '\t', '\n', '\r':
			l.i++
		default:
			return
		}
	}
}

func (l *pathLexer) command() (byte, bool) {
	c := l.s[l.i]
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		if c == 'e' || c == 'E' {
			return 0, false
		}
		l.i++
		return c, true
	}
	return 0, false
}

func (l *pathLexer) numbers(n int) ([]float64, error) {
	out := make([]float64, n)
	for k := range out {
		v, err := l.number()
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (l *pathLexer) number() (float64, error) {
	l.skipSep()
	start := l.i
	if l.i < len(l.s) && (l.s[l.i] == '-' || l.s[l.i] == '+') {
		l.i++
	}
	l.digits()
	if l.i < len(l.s) && l.s[l.i] == '.' {
		l.i++
		l.digits()
	}
	if l.i < len(l.s) && (l.s[l.i] == 'e' || l.s[l.i] == 'E') {
		l.i++
		if l.i < len(l.s) && (l.s[l.i] == '-' || l.s[l.i] == '+') {
			l.i++
		}
		l.digits()
	}
	if start == l.i {
		return 0, fmt.Errorf("path offset %d: expected number", start)
	}
	v, err := strconv.ParseFloat(l.s[start:l.i], 64)
	if err != nil {
		return 0, fmt.Errorf("path offset %d: %w", start, err)
	}
	return v, nil
}

func (l *pathLexer) digits() {
	for l.i < len(l.s) && l.s[l.i] >= '0' && l.s[l.i] <= '9' {
		l.i++
	}
}

// Letter outlines in a 100x100 box.
const (
	pathS = "M 85 15 C 75 0 25 0 18 15 C 10 35 40 45 50 50 C 60 55 90 65 82 85 C 75 100 25 100 15 85"
	pathO = "M 50 8 C 73 8 92 27 92 50 C 92 73 73 92 50 92 C 27 92 8 73 8 50 C 8 27 27 8 50 8 Z"
	pathQ = pathO + " M 68 72 L 90 94"
	pathP = "M 22 92 L 22 10 L 65 10 C 95 10 95 50 65 50 L 22 50"
)
