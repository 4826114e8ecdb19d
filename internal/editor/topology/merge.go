package topology

import (
	"fmt"
	"log"

	"plan-editor/internal/editor/geometry"
	"plan-editor/internal/editor/models"
)

// ============================================================
// Merge
// ============================================================

// IsGapBlocked reports whether anything other than w1 and w2 sits in the gap
// between two walls: it touches a gap endpoint within 2 units, or it is
// collinear with the gap and overlaps it.
func IsGapBlocked(gap geometry.Line, w1, w2 string, segments []models.Segment) bool {
	for _, s := range segments {
		if s.ID == w1 || s.ID == w2 {
			continue
		}
		l := s.Line()
		for _, end := range gap.Endpoints() {
			if _, d := geometry.ClosestPointOnSegment(end, l); d <= geometry.TouchDistance {
				return true
			}
		}
		if geometry.AreCollinear(gap, l, geometry.CollinearWorld) && geometry.Overlaps(gap, l, geometry.GapEpsilon) {
			return true
		}
	}
	return false
}

// Merge fuses collinear walls whose nearest endpoints are within 150/scale
// and whose gap is unobstructed, repeating until a full scan merges nothing.
// The merged wall takes the first wall's attributes. When either source was
// selected the merged wall becomes the only selected segment; the returned
// flag says whether the selection changed.
func Merge(segments []models.Segment, selection models.Membership, scale float64) (models.Edit, []string, bool) {
	tol := geometry.TolerancesFor(scale)

	working := append([]models.Segment(nil), segments...)
	original := make(map[string]bool, len(segments))
	for _, s := range segments {
		original[s.ID] = true
	}

	var (
		edit       models.Edit
		selected   []string
		selChanged bool
	)
	isSelected := func(id string) bool {
		if !selChanged {
			return models.Contains(selection, id)
		}
		for _, sid := range selected {
			if sid == id {
				return true
			}
		}
		return false
	}

	for {
		i, j, span, ok := nextMerge(working, tol)
		if !ok {
			break
		}
		w1, w2 := working[i], working[j]
		merged := w1.Derive(models.NewID(), span)

		if isSelected(w1.ID) || isSelected(w2.ID) {
			selected, selChanged = []string{merged.ID}, true
		}

		// j > i, so removing j first keeps i valid
		working = append(working[:j], working[j+1:]...)
		working = append(working[:i], working[i+1:]...)
		working = append(working, merged)

		for _, id := range []string{w1.ID, w2.ID} {
			if original[id] {
				edit.Removed = append(edit.Removed, id)
			} else {
				edit.Inserted = dropSegment(edit.Inserted, id)
			}
		}
		edit.Inserted = append(edit.Inserted, merged)
	}
	return edit, selected, selChanged
}

// nextMerge returns the first qualifying wall pair in (i, j) order, i < j.
func nextMerge(segments []models.Segment, tol geometry.Tolerances) (int, int, geometry.Line, bool) {
	for i := range segments {
		w1 := segments[i]
		if !w1.IsWall() {
			continue
		}
		for j := i + 1; j < len(segments); j++ {
			w2 := segments[j]
			if !w2.IsWall() {
				continue
			}
			l1, l2 := w1.Line(), w2.Line()
			if !geometry.AreCollinear(l1, l2, tol.Collinear) {
				continue
			}
			pair := geometry.ClosestEndpointPair(l1, l2)
			if pair.Distance > tol.MergeGap {
				continue
			}
			if IsGapBlocked(pair.Gap(), w1.ID, w2.ID, segments) {
				continue
			}
			return i, j, geometry.CombinedSpan(l1, l2), true
		}
	}
	return 0, 0, geometry.Line{}, false
}

func dropSegment(segments []models.Segment, id string) []models.Segment {
	for i, s := range segments {
		if s.ID == id {
			return append(segments[:i], segments[i+1:]...)
		}
	}
	return segments
}

// MergeWalls runs Merge over c and applies the result in one step, updating
// sel when the merge moved the selection.
func MergeWalls(c *models.Collection, sel *models.Selection, scale float64) error {
	edit, selected, changed := Merge(c.All(), sel, scale)
	if edit.Empty() {
		return nil
	}
	if err := c.Apply(edit); err != nil {
		return fmt.Errorf("apply merge: %w", err)
	}
	if changed && sel != nil {
		sel.Set(selected...)
	}

	log.Printf("[TOPOLOGY] merged %d wall(s) into %d", len(edit.Removed), len(edit.Inserted))
	return nil
}
