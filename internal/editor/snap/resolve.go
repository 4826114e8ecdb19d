package snap

import (
	"github.com/golang/geo/r2"

	"plan-editor/internal/editor/models"
)

// Source says which rule produced a resolved point.
type Source string

const (
	SourceNone  Source = "none"
	SourcePoint Source = "point"
	SourceAxis  Source = "axis"
	SourceAngle Source = "angle"
)

// Result is a corrected pointer position.
type Result struct {
	Point  r2.Point `json:"point"`
	Source Source   `json:"source"`
}

func (r Result) Snapped() bool {
	return r.Source != SourceNone
}

// Endpoint resolves the free end of a segment being drawn or resized around
// fixed. Positional snap wins; when withAxis is set, per-axis snap is tried
// next; otherwise the direction is rounded to 45°. Rules never blend.
func Endpoint(fixed, raw r2.Point, segments []models.Segment, scale float64, exclude models.Membership, withAxis bool) Result {
	if p, ok := Point(raw, segments, scale, exclude); ok {
		return Result{Point: p, Source: SourcePoint}
	}

	if withAxis {
		x, okX := AxisSnap(raw.X, AxisX, segments, exclude, scale)
		y, okY := AxisSnap(raw.Y, AxisY, segments, exclude, scale)
		if okX || okY {
			return Result{Point: r2.Point{X: x, Y: y}, Source: SourceAxis}
		}
	}

	p := Angle(fixed, raw)
	if p == raw {
		return Result{Point: raw, Source: SourceNone}
	}
	return Result{Point: p, Source: SourceAngle}
}
