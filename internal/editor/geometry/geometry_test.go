package geometry

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
)

const eps = 1e-9

func near(a, b r2.Point) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func TestClosestPointOnSegment(t *testing.T) {
	l := NewLine(0, 0, 10, 0)

	tests := []struct {
		name string
		p    r2.Point
		want r2.Point
		dist float64
	}{
		{"inside", r2.Point{X: 4, Y: 3}, r2.Point{X: 4, Y: 0}, 3},
		{"before start clamps", r2.Point{X: -3, Y: 4}, r2.Point{X: 0, Y: 0}, 5},
		{"after end clamps", r2.Point{X: 13, Y: -4}, r2.Point{X: 10, Y: 0}, 5},
		{"on segment", r2.Point{X: 7, Y: 0}, r2.Point{X: 7, Y: 0}, 0},
	}

	for _, tt := range tests {
		got, d := ClosestPointOnSegment(tt.p, l)
		if !near(got, tt.want) {
			t.Errorf("%s: expected point %v, got %v", tt.name, tt.want, got)
		}
		if math.Abs(d-tt.dist) > eps {
			t.Errorf("%s: expected distance %v, got %v", tt.name, tt.dist, d)
		}
	}
}

func TestClosestPointOnDegenerateSegment(t *testing.T) {
	l := NewLine(2, 2, 2, 2.0005)
	got, d := ClosestPointOnSegment(r2.Point{X: 5, Y: 6}, l)
	if !near(got, r2.Point{X: 2, Y: 2}) {
		t.Errorf("expected segment start, got %v", got)
	}
	if math.Abs(d-5) > eps {
		t.Errorf("expected distance 5, got %v", d)
	}
	if math.IsNaN(d) {
		t.Fatal("distance is NaN")
	}
}

func TestPointToLineDistance(t *testing.T) {
	l := NewLine(0, 0, 10, 0)
	if d := PointToLineDistance(r2.Point{X: 50, Y: -4}, l); math.Abs(d-4) > eps {
		t.Errorf("expected unclamped distance 4, got %v", d)
	}

	if d := PointToLineDistance(r2.Point{X: 1, Y: 1}, NewLine(3, 3, 3, 3)); !math.IsInf(d, 1) {
		t.Errorf("expected +Inf for degenerate line, got %v", d)
	}
}

func TestAreCollinear(t *testing.T) {
	a := NewLine(0, 0, 100, 0)

	if !AreCollinear(a, NewLine(120, 5, 200, -5), CollinearWorld) {
		t.Error("expected segments within 6 units to be collinear")
	}
	if AreCollinear(a, NewLine(120, 5, 200, 7), CollinearWorld) {
		t.Error("expected offset endpoint to break collinearity")
	}
	if AreCollinear(NewLine(1, 1, 1, 1), a, CollinearWorld) {
		t.Error("degenerate reference line must not be collinear with anything")
	}
}

func TestIsContained(t *testing.T) {
	other := NewLine(0, 0, 100, 0)

	if !IsContained(NewLine(30, 0, 70, 0), other, ContainEpsilon) {
		t.Error("expected (30,0)-(70,0) inside (0,0)-(100,0)")
	}
	if !IsContained(NewLine(70, 0, 30, 0), other, ContainEpsilon) {
		t.Error("containment must not depend on inner direction")
	}
	if IsContained(NewLine(0, 0, 70, 0), other, ContainEpsilon) {
		t.Error("touching outer start is not strict containment")
	}
	if IsContained(NewLine(30, 0, 100.5, 0), other, ContainEpsilon) {
		t.Error("exceeding outer end is not containment")
	}
	if IsContained(NewLine(30, 0, 70, 0), NewLine(5, 5, 5, 5), ContainEpsilon) {
		t.Error("degenerate outer contains nothing")
	}
}

func TestOverlaps(t *testing.T) {
	a := NewLine(0, 0, 10, 0)

	if !Overlaps(a, NewLine(5, 0, 20, 0), GapEpsilon) {
		t.Error("expected partial overlap")
	}
	if !Overlaps(a, NewLine(10, 0, 20, 0), GapEpsilon) {
		t.Error("touching at the end counts as overlap")
	}
	if !Overlaps(a, NewLine(-5, 0, 15, 0), GapEpsilon) {
		t.Error("enclosing segment overlaps")
	}
	if Overlaps(a, NewLine(10.5, 0, 20, 0), GapEpsilon) {
		t.Error("disjoint segment must not overlap")
	}
}

func TestClosestEndpointPair(t *testing.T) {
	a := NewLine(0, 0, 50, 0)
	b := NewLine(52, 0, 100, 0)

	pair := ClosestEndpointPair(a, b)
	if pair.AIndex != 1 || pair.BIndex != 0 {
		t.Errorf("expected A.end-B.start, got %d-%d", pair.AIndex, pair.BIndex)
	}
	if math.Abs(pair.Distance-2) > eps {
		t.Errorf("expected distance 2, got %v", pair.Distance)
	}

	// identical segments tie on start-start and end-end; the first wins
	tie := ClosestEndpointPair(a, a)
	if tie.AIndex != 0 || tie.BIndex != 0 {
		t.Errorf("expected tie to keep start-start, got %d-%d", tie.AIndex, tie.BIndex)
	}
}

func TestCombinedSpan(t *testing.T) {
	got := CombinedSpan(NewLine(0, 0, 50, 0), NewLine(100, 0, 52, 0))
	if !near(got.A, r2.Point{X: 0, Y: 0}) || !near(got.B, r2.Point{X: 100, Y: 0}) {
		t.Errorf("expected (0,0)-(100,0), got %v-%v", got.A, got.B)
	}

	// reversed reference keeps its own direction
	got = CombinedSpan(NewLine(50, 0, 0, 0), NewLine(52, 0, 100, 0))
	if !near(got.A, r2.Point{X: 100, Y: 0}) || !near(got.B, r2.Point{X: 0, Y: 0}) {
		t.Errorf("expected (100,0)-(0,0), got %v-%v", got.A, got.B)
	}

	// nested segment yields the enclosing span, not a concatenation
	got = CombinedSpan(NewLine(0, 0, 100, 0), NewLine(20, 0, 40, 0))
	if math.Abs(got.Length()-100) > eps {
		t.Errorf("expected span length 100, got %v", got.Length())
	}
}

func TestBoundsAndRotate(t *testing.T) {
	b := Bounds(NewLine(0, 10, 20, 0), NewLine(-5, 3, 4, 4))
	if b.X.Lo != -5 || b.X.Hi != 20 || b.Y.Lo != 0 || b.Y.Hi != 10 {
		t.Errorf("unexpected bounds %v", b)
	}

	p := Rotate(r2.Point{X: 10, Y: 0}, r2.Point{}, math.Pi/2)
	if !near(p, r2.Point{X: 0, Y: 10}) {
		t.Errorf("expected (0,10), got %v", p)
	}
}

func TestTolerancesFor(t *testing.T) {
	tol := TolerancesFor(2)
	if tol.Snap != 7.5 || tol.Align != 20 || tol.Axis != 6 || tol.MergeGap != 75 {
		t.Errorf("unexpected tolerances %+v", tol)
	}
	if tol.Collinear != CollinearWorld || tol.Contain != ContainEpsilon {
		t.Errorf("fixed tolerances must not scale: %+v", tol)
	}

	for _, s := range []float64{0, -3, math.NaN(), math.Inf(1)} {
		if got := TolerancesFor(s).Scale; got != 1 {
			t.Errorf("scale %v: expected fallback 1, got %v", s, got)
		}
	}
}
