// Package topology keeps walls free of redundant overlaps and of avoidable
// fragmentation. Passes are computed on a snapshot as a models.Edit and
// applied to the collection in one step.
package topology

import (
	"fmt"
	"log"
	"math"

	"plan-editor/internal/editor/geometry"
	"plan-editor/internal/editor/models"
)

// ============================================================
// Split
// ============================================================

// Split finds every wall that active lies strictly inside and cuts it around
// active's projected interval: the wall keeps the part before the interval
// and a new wall with the same attributes covers the part after it.
// New walls are not split again in the same pass. A degenerate active
// segment splits nothing.
func Split(active models.Segment, segments []models.Segment) models.Edit {
	var edit models.Edit

	inner := active.Line()
	if inner.Degenerate() {
		return edit
	}
	for _, other := range segments {
		if other.ID == active.ID || !other.IsWall() {
			continue
		}
		outer := other.Line()
		if !geometry.AreCollinear(outer, inner, geometry.CollinearWorld) {
			continue
		}
		if !geometry.IsContained(inner, outer, geometry.ContainEpsilon) {
			continue
		}

		t1, _ := geometry.Project(inner.A, outer)
		t2, _ := geometry.Project(inner.B, outer)
		tMin, tMax := math.Min(t1, t2), math.Max(t1, t2)

		head := geometry.Line{A: outer.A, B: geometry.PointAt(outer, tMin)}
		tail := geometry.Line{A: geometry.PointAt(outer, tMax), B: outer.B}

		edit.Updated = append(edit.Updated, other.WithLine(head))
		edit.Inserted = append(edit.Inserted, other.Derive(models.NewID(), tail))
	}
	return edit
}

// MaintainTopology runs a split pass for the segment activeID and reports
// whether any wall was split. A missing active segment is a no-op.
func MaintainTopology(activeID string, c *models.Collection) (bool, error) {
	active, ok := c.Get(activeID)
	if !ok {
		return false, nil
	}

	edit := Split(active, c.All())
	if edit.Empty() {
		return false, nil
	}
	if err := c.Apply(edit); err != nil {
		return false, fmt.Errorf("apply split: %w", err)
	}

	log.Printf("[TOPOLOGY] %s %s split %d wall(s)", active.Kind, active.ID, len(edit.Updated))
	return true, nil
}
