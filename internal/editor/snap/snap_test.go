package snap

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"

	"plan-editor/internal/editor/geometry"
	"plan-editor/internal/editor/models"
)

func seg(id string, kind models.Kind, x1, y1, x2, y2 float64) models.Segment {
	return models.Segment{ID: id, Kind: kind, X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func nearPoint(a, b r2.Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

// ------------------------------------------------------------
// Point
// ------------------------------------------------------------

func TestPointSnapsToEndpoint(t *testing.T) {
	segments := []models.Segment{seg("w", models.KindWall, 0, 0, 100, 0)}

	got, ok := Point(r2.Point{X: -3, Y: 4}, segments, 1, nil)
	if !ok || !nearPoint(got, r2.Point{X: 0, Y: 0}) {
		t.Fatalf("expected snap to (0,0), got %v (%v)", got, ok)
	}

	again, ok := Point(got, segments, 1, nil)
	if !ok || again != got {
		t.Errorf("snap is not idempotent: %v -> %v", got, again)
	}
}

func TestPointSnapsToProjection(t *testing.T) {
	segments := []models.Segment{seg("w", models.KindWall, 0, 0, 100, 0)}

	got, ok := Point(r2.Point{X: 40, Y: 6}, segments, 1, nil)
	if !ok || !nearPoint(got, r2.Point{X: 40, Y: 0}) {
		t.Errorf("expected projection (40,0), got %v (%v)", got, ok)
	}
}

func TestPointThresholdBoundary(t *testing.T) {
	segments := []models.Segment{seg("w", models.KindWall, 100, 100, 200, 100)}
	target := r2.Point{X: 100, Y: 100}

	for _, scale := range []float64{1, 2, 0.5} {
		threshold := 15 / scale

		outside := r2.Point{X: 100 - threshold - 1e-6, Y: 100}
		if got, ok := Point(outside, segments, scale, nil); ok || got != outside {
			t.Errorf("scale %v: expected no snap just outside threshold, got %v", scale, got)
		}

		inside := r2.Point{X: 100 - threshold + 1e-6, Y: 100}
		if got, ok := Point(inside, segments, scale, nil); !ok || !nearPoint(got, target) {
			t.Errorf("scale %v: expected snap just inside threshold, got %v", scale, got)
		}
	}
}

func TestPointHonorsExcludeAndFirstWins(t *testing.T) {
	segments := []models.Segment{
		seg("a", models.KindWall, 10, 0, 10, 50),
		seg("b", models.KindWall, -10, 0, -10, 50),
	}
	p := r2.Point{X: 0, Y: 25}

	// both projections are 10 away; the first segment wins the tie
	got, ok := Point(p, segments, 1, nil)
	if !ok || !nearPoint(got, r2.Point{X: 10, Y: 25}) {
		t.Errorf("expected first candidate (10,25), got %v", got)
	}

	got, ok = Point(p, segments, 1, models.NewIDSet("a"))
	if !ok || !nearPoint(got, r2.Point{X: -10, Y: 25}) {
		t.Errorf("expected excluded segment skipped, got %v", got)
	}

	got, ok = Point(p, segments, 1, models.NewIDSet("a", "b"))
	if ok || got != p {
		t.Errorf("expected identity when everything is excluded, got %v", got)
	}
}

func TestPointIgnoresDegenerateNaN(t *testing.T) {
	segments := []models.Segment{seg("d", models.KindDoor, 5, 5, 5, 5)}
	got, ok := Point(r2.Point{X: 6, Y: 5}, segments, 1, nil)
	if !ok || !nearPoint(got, r2.Point{X: 5, Y: 5}) {
		t.Errorf("expected degenerate segment to act as a point, got %v", got)
	}
}

// ------------------------------------------------------------
// MoveCorrection / AlignmentCorrection
// ------------------------------------------------------------

func TestMoveCorrectionWithoutTargets(t *testing.T) {
	segments := []models.Segment{seg("m", models.KindWall, 0, 0, 10, 0)}
	got := MoveCorrection(r2.Point{X: 5, Y: 5}, models.NewIDSet("m"), segments, 1)
	if got != (r2.Point{}) {
		t.Errorf("expected zero correction, got %v", got)
	}
}

func TestMoveCorrectionEndpointAndZeroAxisOverride(t *testing.T) {
	segments := []models.Segment{
		seg("m", models.KindWall, 0, 0, 10, 0),
		seg("t", models.KindWall, 100, 0, 100, 50),
	}

	got := MoveCorrection(r2.Point{X: 87, Y: 3}, models.NewIDSet("m"), segments, 1)

	// endpoint snap pulls (97,3) onto (100,3); the endpoint correction is 0 on
	// Y so the alignment of y=3 with the target's top edge y=0 takes over
	want := r2.Point{X: 3, Y: -3}
	if !nearPoint(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestMoveCorrectionAlignmentIndependence(t *testing.T) {
	segments := []models.Segment{
		seg("m", models.KindFurniture, 22, 300, 32, 300),
		seg("t", models.KindWall, 0, 100, 40, 100),
	}

	got := MoveCorrection(r2.Point{}, models.NewIDSet("m"), segments, 1)
	if got.X != -2 || got.Y != 0 {
		t.Errorf("expected (-2,0) from left edge onto target center, got %v", got)
	}

	bounds := geometry.Bounds(segments[0].Line())
	align, okX, okY := AlignmentCorrection(bounds, r2.Point{}, segments[1:], 1)
	if !okX || okY {
		t.Errorf("expected only X to align, got okX=%v okY=%v", okX, okY)
	}
	if align.X != -2 {
		t.Errorf("expected X alignment -2, got %v", align.X)
	}
}

func TestAlignmentCorrectionScalesThreshold(t *testing.T) {
	targets := []models.Segment{seg("t", models.KindWall, 0, 0, 0, 100)}
	bounds := geometry.Bounds(geometry.NewLine(30, 500, 30, 600))

	if _, okX, _ := AlignmentCorrection(bounds, r2.Point{}, targets, 1); !okX {
		t.Error("expected X alignment at scale 1 (30 < 40)")
	}
	if _, okX, _ := AlignmentCorrection(bounds, r2.Point{}, targets, 2); okX {
		t.Error("expected no X alignment at scale 2 (30 > 20)")
	}
	if _, okX, _ := AlignmentCorrection(bounds, r2.Point{X: -25}, targets, 2); !okX {
		t.Error("expected delta to be applied before aligning")
	}
}

// ------------------------------------------------------------
// AxisSnap
// ------------------------------------------------------------

func TestAxisSnap(t *testing.T) {
	segments := []models.Segment{seg("w", models.KindWall, 0, 0, 100, 0)}

	if v, ok := AxisSnap(70, AxisX, segments, nil, 1); ok || v != 70 {
		t.Errorf("expected no snap for 70, got %v (%v)", v, ok)
	}
	if v, ok := AxisSnap(55, AxisX, segments, nil, 1); !ok || v != 50 {
		t.Errorf("expected center 50, got %v (%v)", v, ok)
	}
	if _, ok := AxisSnap(57, AxisX, segments, nil, 2); ok {
		t.Error("expected threshold 6 at scale 2")
	}
	if _, ok := AxisSnap(55, AxisX, segments, models.NewIDSet("w"), 1); ok {
		t.Error("expected excluded segment to be skipped")
	}
	if v, ok := AxisSnap(-8, AxisY, segments, nil, 1); !ok || v != 0 {
		t.Errorf("expected y=0, got %v (%v)", v, ok)
	}
}

// ------------------------------------------------------------
// Angle / Endpoint
// ------------------------------------------------------------

func TestAngle(t *testing.T) {
	fixed := r2.Point{X: 0, Y: 0}

	got := Angle(fixed, r2.Point{X: 10, Y: 1})
	if !nearPoint(got, r2.Point{X: math.Sqrt(101), Y: 0}) {
		t.Errorf("expected horizontal, got %v", got)
	}

	got = Angle(fixed, r2.Point{X: 10, Y: 9})
	if math.Abs(got.X-got.Y) > 1e-9 {
		t.Errorf("expected 45° diagonal, got %v", got)
	}
	if math.Abs(got.Norm()-math.Sqrt(181)) > 1e-9 {
		t.Errorf("expected length preserved, got %v", got.Norm())
	}

	same := r2.Point{X: 1e-4, Y: 0}
	if Angle(fixed, same) != same {
		t.Error("expected degenerate drag to be left alone")
	}
}

func TestEndpointPrecedence(t *testing.T) {
	segments := []models.Segment{seg("w", models.KindWall, 0, 0, 0, 100)}
	fixed := r2.Point{X: 150, Y: 10}

	res := Endpoint(fixed, r2.Point{X: 5, Y: 60}, segments, 1, nil, true)
	if res.Source != SourcePoint || !nearPoint(res.Point, r2.Point{X: 0, Y: 60}) {
		t.Errorf("expected point snap, got %+v", res)
	}

	res = Endpoint(fixed, r2.Point{X: 200, Y: 48}, segments, 1, nil, true)
	if res.Source != SourceAxis || !nearPoint(res.Point, r2.Point{X: 200, Y: 50}) {
		t.Errorf("expected axis snap to y=50, got %+v", res)
	}

	res = Endpoint(fixed, r2.Point{X: 200, Y: 48}, segments, 1, nil, false)
	if res.Source != SourceAngle {
		t.Errorf("expected angle snap without axis rule, got %+v", res)
	}
	if math.Abs(res.Point.Y-fixed.Y) > 1e-9 && math.Abs((res.Point.Y-fixed.Y)-(res.Point.X-fixed.X)) > 1e-9 {
		t.Errorf("expected a 45° multiple, got %+v", res)
	}
}
