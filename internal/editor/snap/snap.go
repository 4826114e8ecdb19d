// Package snap corrects raw pointer coordinates so edits land on existing
// geometry: endpoints, projections, bounding-box lines and 45° directions.
//
// Every function reads the segments it is given and never mutates them.
// "No snap" is a normal result: the input comes back unchanged.
package snap

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"

	"plan-editor/internal/editor/geometry"
	"plan-editor/internal/editor/models"
)

// ============================================================
// Point snap
// ============================================================

// Point moves p onto the nearest endpoint or segment projection of any
// segment not in exclude, when one lies strictly within 15/scale.
// Candidates at equal distance keep the first one found.
func Point(p r2.Point, segments []models.Segment, scale float64, exclude models.Membership) (r2.Point, bool) {
	tol := geometry.TolerancesFor(scale)

	best, bestDist, found := p, tol.Snap, false
	for _, s := range segments {
		if models.Contains(exclude, s.ID) {
			continue
		}
		l := s.Line()
		closest, _ := geometry.ClosestPointOnSegment(p, l)
		for _, c := range [...]r2.Point{l.A, l.B, closest} {
			if d := p.Sub(c).Norm(); d < bestDist {
				best, bestDist, found = c, d, true
			}
		}
	}
	return best, found
}

// ============================================================
// Move snap
// ============================================================

// MoveCorrection returns the vector to add to delta so the translated
// selection snaps onto the unselected segments. Endpoint coincidence is tried
// first; then bounding-box alignment may replace each axis independently
// when its correction is smaller or the endpoint correction on that axis is 0.
// X and Y may come from different targets.
func MoveCorrection(delta r2.Point, selection models.Membership, segments []models.Segment, scale float64) r2.Point {
	var moving, targets []models.Segment
	for _, s := range segments {
		if models.Contains(selection, s.ID) {
			moving = append(moving, s)
		} else {
			targets = append(targets, s)
		}
	}
	if len(targets) == 0 || len(moving) == 0 {
		return r2.Point{}
	}

	tol := geometry.TolerancesFor(scale)

	var correction r2.Point
	bestDist := tol.Snap
	for _, m := range moving {
		moved := m.Line().Translate(delta)
		for _, end := range moved.Endpoints() {
			for _, t := range targets {
				closest, d := geometry.ClosestPointOnSegment(end, t.Line())
				if d < bestDist {
					bestDist = d
					correction = closest.Sub(end)
				}
			}
		}
	}

	align, okX, okY := AlignmentCorrection(geometry.Bounds(models.Lines(moving)...), delta, targets, scale)
	if okX && (math.Abs(align.X) < math.Abs(correction.X) || correction.X == 0) {
		correction.X = align.X
	}
	if okY && (math.Abs(align.Y) < math.Abs(correction.Y) || correction.Y == 0) {
		correction.Y = align.Y
	}
	return correction
}

// ============================================================
// Alignment snap
// ============================================================

// AlignmentCorrection compares the left/center/right and top/center/bottom
// lines of bounds moved by delta with the same lines of every target's box.
// Each axis takes the smallest offset strictly under 40/scale; the flags
// report which axes snapped.
func AlignmentCorrection(bounds r2.Rect, delta r2.Point, targets []models.Segment, scale float64) (r2.Point, bool, bool) {
	tol := geometry.TolerancesFor(scale)
	if bounds.IsEmpty() {
		return r2.Point{}, false, false
	}

	moved := r2.Rect{
		X: r1.Interval{Lo: bounds.X.Lo + delta.X, Hi: bounds.X.Hi + delta.X},
		Y: r1.Interval{Lo: bounds.Y.Lo + delta.Y, Hi: bounds.Y.Hi + delta.Y},
	}
	mx, my := guideLines(moved, AxisX), guideLines(moved, AxisY)

	var out r2.Point
	bestX, bestY := tol.Align, tol.Align
	okX, okY := false, false
	for _, t := range targets {
		box := geometry.Bounds(t.Line())
		tx, ty := guideLines(box, AxisX), guideLines(box, AxisY)
		for _, m := range mx {
			for _, v := range tx {
				if d := math.Abs(v - m); d < bestX {
					bestX, out.X, okX = d, v-m, true
				}
			}
		}
		for _, m := range my {
			for _, v := range ty {
				if d := math.Abs(v - m); d < bestY {
					bestY, out.Y, okY = d, v-m, true
				}
			}
		}
	}
	return out, okX, okY
}

// ============================================================
// Axis snap
// ============================================================

type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// AxisSnap moves value onto the nearest edge or center line, on one axis, of
// any segment not in exclude within 12/scale. The flag is false when nothing
// qualifies and value is returned as is.
func AxisSnap(value float64, axis Axis, segments []models.Segment, exclude models.Membership, scale float64) (float64, bool) {
	tol := geometry.TolerancesFor(scale)

	best, bestDist, found := value, tol.Axis, false
	for _, s := range segments {
		if models.Contains(exclude, s.ID) {
			continue
		}
		for _, v := range guideLines(geometry.Bounds(s.Line()), axis) {
			if d := math.Abs(v - value); d < bestDist {
				best, bestDist, found = v, d, true
			}
		}
	}
	return best, found
}

// guideLines returns the low edge, center and high edge of r along axis.
func guideLines(r r2.Rect, axis Axis) [3]float64 {
	if axis == AxisY {
		return [3]float64{r.Y.Lo, r.Y.Center(), r.Y.Hi}
	}
	return [3]float64{r.X.Lo, r.X.Center(), r.X.Hi}
}

// ============================================================
// Angle snap
// ============================================================

// Angle rotates moving around fixed to the nearest 45° direction, keeping
// the distance between them.
func Angle(fixed, moving r2.Point) r2.Point {
	d := moving.Sub(fixed)
	length := d.Norm()
	if length < 1e-3 {
		return moving
	}
	angle := math.Round(math.Atan2(d.Y, d.X)/geometry.AngleIncrement) * geometry.AngleIncrement
	sin, cos := math.Sincos(angle)
	return r2.Point{X: fixed.X + length*cos, Y: fixed.Y + length*sin}
}
