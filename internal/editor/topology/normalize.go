package topology

import (
	"fmt"

	"plan-editor/internal/editor/models"
)

// Normalize runs a split pass around every non-wall segment, in collection
// order, followed by one merge pass. Loading a plan drawn elsewhere through
// Normalize gives the same walls an interactive session would have produced.
func Normalize(c *models.Collection, scale float64) error {
	for _, s := range c.All() {
		if s.IsWall() {
			continue
		}
		if _, err := MaintainTopology(s.ID, c); err != nil {
			return fmt.Errorf("normalize %s: %w", s.ID, err)
		}
	}
	return MergeWalls(c, nil, scale)
}
