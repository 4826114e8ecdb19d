package geometry

import "math"

// ============================================================
// Tolerances
// ============================================================

// Screen-space budgets in pixels; divided by scale they keep a constant hit
// area on screen at every zoom level.
const (
	snapPixels      = 15.0
	alignPixels     = 40.0
	axisPixels      = 12.0
	mergeGapPixels  = 150.0
	defaultScale    = 1.0
	CollinearWorld  = 6.0   // perpendicular distance, world units
	ContainEpsilon  = 0.01  // normalized projection units
	TouchDistance   = 2.0   // world units around a merge gap endpoint
	GapEpsilon      = 0.001 // overlap slack when testing the gap segment
	MinDrawnLength  = 10.0  // shorter drawn segments are discarded
	AngleIncrement  = math.Pi / 4
)

// Tolerances are the distance thresholds derived from one zoom scale.
type Tolerances struct {
	Scale     float64
	Snap      float64
	Align     float64
	Axis      float64
	MergeGap  float64
	Collinear float64
	Contain   float64
}

// TolerancesFor derives thresholds for scale (pixels per world unit).
// Non-positive or non-finite scales fall back to 1.
func TolerancesFor(scale float64) Tolerances {
	scale = NormalizeScale(scale)
	return Tolerances{
		Scale:     scale,
		Snap:      snapPixels / scale,
		Align:     alignPixels / scale,
		Axis:      axisPixels / scale,
		MergeGap:  mergeGapPixels / scale,
		Collinear: CollinearWorld,
		Contain:   ContainEpsilon,
	}
}

// NormalizeScale replaces unusable zoom values with 1.
func NormalizeScale(scale float64) float64 {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return defaultScale
	}
	return scale
}
