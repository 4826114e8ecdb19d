// Package geometry holds the pure segment primitives used by snapping and
// wall topology maintenance. Nothing here keeps state.
package geometry

import (
	"math"

	"github.com/golang/geo/r2"
)

// ============================================================
// Primitives
// ============================================================

// degenerateLengthSq is the squared length below which a segment is treated
// as a single point (endpoint distance < 1e-3).
const degenerateLengthSq = 1e-6

// Line is a segment between two world-space endpoints.
type Line struct {
	A r2.Point
	B r2.Point
}

// NewLine builds a Line from raw coordinates.
func NewLine(x1, y1, x2, y2 float64) Line {
	return Line{A: r2.Point{X: x1, Y: y1}, B: r2.Point{X: x2, Y: y2}}
}

func (l Line) Delta() r2.Point {
	return l.B.Sub(l.A)
}

func (l Line) LengthSq() float64 {
	d := l.Delta()
	return d.Dot(d)
}

func (l Line) Length() float64 {
	return l.Delta().Norm()
}

// Degenerate reports whether the endpoints are too close to define a direction.
func (l Line) Degenerate() bool {
	return l.LengthSq() < degenerateLengthSq
}

// Endpoints returns A and B in enumeration order.
func (l Line) Endpoints() [2]r2.Point {
	return [2]r2.Point{l.A, l.B}
}

// Translate shifts both endpoints by d.
func (l Line) Translate(d r2.Point) Line {
	return Line{A: l.A.Add(d), B: l.B.Add(d)}
}

// Project returns the unclamped parameter of p along l, where 0 is A and 1 is B.
func Project(p r2.Point, l Line) (float64, bool) {
	lenSq := l.LengthSq()
	if lenSq < degenerateLengthSq {
		return 0, false
	}
	return p.Sub(l.A).Dot(l.Delta()) / lenSq, true
}

// PointAt returns the point at parameter t along l.
func PointAt(l Line, t float64) r2.Point {
	return l.A.Add(l.Delta().Mul(t))
}

// ClosestPointOnSegment projects p onto l with the parameter clamped to [0,1].
func ClosestPointOnSegment(p r2.Point, l Line) (r2.Point, float64) {
	t, ok := Project(p, l)
	if !ok {
		return l.A, p.Sub(l.A).Norm()
	}
	t = clamp(t, 0, 1)
	q := PointAt(l, t)
	return q, p.Sub(q).Norm()
}

// PointToLineDistance is the perpendicular distance from p to the infinite
// line through l. Degenerate lines yield +Inf.
func PointToLineDistance(p r2.Point, l Line) float64 {
	if l.Degenerate() {
		return math.Inf(1)
	}
	return math.Abs(l.Delta().Cross(p.Sub(l.A))) / l.Length()
}

// AreCollinear reports whether both endpoints of b lie within tolerance of a's line.
func AreCollinear(a, b Line, tolerance float64) bool {
	return PointToLineDistance(b.A, a) <= tolerance && PointToLineDistance(b.B, a) <= tolerance
}

// IsContained reports whether inner projects strictly inside outer, keeping
// eps clear of both of outer's endpoints.
func IsContained(inner, outer Line, eps float64) bool {
	t1, ok := Project(inner.A, outer)
	if !ok {
		return false
	}
	t2, _ := Project(inner.B, outer)
	return t1 > eps && t1 < 1-eps && t2 > eps && t2 < 1-eps
}

// Overlaps reports whether b's projected interval on a touches [0,1] within eps.
func Overlaps(a, b Line, eps float64) bool {
	t1, ok := Project(b.A, a)
	if !ok {
		return false
	}
	t2, _ := Project(b.B, a)
	lo, hi := math.Min(t1, t2), math.Max(t1, t2)
	return hi >= -eps && lo <= 1+eps
}

// EndpointPair is the closest pair of endpoints between two segments.
// AIndex and BIndex are 0 for the start point and 1 for the end point.
type EndpointPair struct {
	A        r2.Point
	B        r2.Point
	AIndex   int
	BIndex   int
	Distance float64
}

// Gap is the segment joining the two endpoints of the pair.
func (p EndpointPair) Gap() Line {
	return Line{A: p.A, B: p.B}
}

// ClosestEndpointPair checks start-start, start-end, end-start, end-end in that
// order; the first pair wins a tie.
func ClosestEndpointPair(a, b Line) EndpointPair {
	best := EndpointPair{Distance: math.Inf(1)}
	for i, pa := range a.Endpoints() {
		for j, pb := range b.Endpoints() {
			d := pa.Sub(pb).Norm()
			if d < best.Distance {
				best = EndpointPair{A: pa, B: pb, AIndex: i, BIndex: j, Distance: d}
			}
		}
	}
	return best
}

// CombinedSpan projects all four endpoints on a's direction and returns the
// minimal segment along that axis covering them.
func CombinedSpan(a, b Line) Line {
	ref := a
	if ref.Degenerate() {
		ref = b
	}
	if ref.Degenerate() {
		return Line{A: a.A, B: b.B}
	}

	dir := ref.Delta().Normalize()
	tMin, tMax := math.Inf(1), math.Inf(-1)
	for _, p := range []r2.Point{a.A, a.B, b.A, b.B} {
		t := p.Sub(ref.A).Dot(dir)
		tMin = math.Min(tMin, t)
		tMax = math.Max(tMax, t)
	}
	return Line{A: ref.A.Add(dir.Mul(tMin)), B: ref.A.Add(dir.Mul(tMax))}
}

// Bounds is the axis-aligned box around every endpoint of lines.
func Bounds(lines ...Line) r2.Rect {
	rect := r2.EmptyRect()
	for _, l := range lines {
		rect = rect.AddPoint(l.A).AddPoint(l.B)
	}
	return rect
}

// Rotate turns p around center by angle radians.
func Rotate(p, center r2.Point, angle float64) r2.Point {
	sin, cos := math.Sincos(angle)
	d := p.Sub(center)
	return r2.Point{
		X: center.X + d.X*cos - d.Y*sin,
		Y: center.Y + d.X*sin + d.Y*cos,
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
