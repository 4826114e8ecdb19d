package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ============================================================
// Segment Collection
// ============================================================

var (
	ErrNotFound  = errors.New("segment not found")
	ErrDuplicate = errors.New("segment id already exists")
)

// Collection is an insertion-ordered arena of segments keyed by ID.
// It is not safe for concurrent use; callers serialize access.
type Collection struct {
	order []string
	byID  map[string]Segment
}

func NewCollection(segments ...Segment) *Collection {
	c := &Collection{byID: make(map[string]Segment, len(segments))}
	for _, s := range segments {
		c.Add(s)
	}
	return c
}

// NewID returns a fresh segment identifier.
func NewID() string {
	return uuid.NewString()
}

// Add inserts s, assigning an ID when it has none, and returns the stored copy.
// A segment whose ID is already present replaces the existing entry in place.
func (c *Collection) Add(s Segment) Segment {
	if s.ID == "" {
		s.ID = NewID()
	}
	if _, ok := c.byID[s.ID]; !ok {
		c.order = append(c.order, s.ID)
	}
	c.byID[s.ID] = s
	return s
}

func (c *Collection) Get(id string) (Segment, bool) {
	s, ok := c.byID[id]
	return s, ok
}

func (c *Collection) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Update replaces an existing segment.
func (c *Collection) Update(s Segment) error {
	if _, ok := c.byID[s.ID]; !ok {
		return fmt.Errorf("update %s: %w", s.ID, ErrNotFound)
	}
	c.byID[s.ID] = s
	return nil
}

// Remove deletes id and reports whether it was present.
func (c *Collection) Remove(id string) bool {
	if _, ok := c.byID[id]; !ok {
		return false
	}
	delete(c.byID, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *Collection) Len() int {
	return len(c.order)
}

// All returns copies of every segment in insertion order.
func (c *Collection) All() []Segment {
	out := make([]Segment, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Walls returns copies of the wall segments in insertion order.
func (c *Collection) Walls() []Segment {
	var out []Segment
	for _, id := range c.order {
		if s := c.byID[id]; s.IsWall() {
			out = append(out, s)
		}
	}
	return out
}

// Snapshot is an alias of All kept for restore symmetry.
func (c *Collection) Snapshot() []Segment {
	return c.All()
}

// Restore replaces the whole collection with snapshot.
func (c *Collection) Restore(snapshot []Segment) {
	c.order = make([]string, 0, len(snapshot))
	c.byID = make(map[string]Segment, len(snapshot))
	for _, s := range snapshot {
		c.Add(s)
	}
}

// Apply validates e against the current contents and then applies it.
// Nothing changes when validation fails.
func (c *Collection) Apply(e Edit) error {
	removed := make(map[string]bool, len(e.Removed))
	for _, id := range e.Removed {
		if !c.Has(id) {
			return fmt.Errorf("remove %s: %w", id, ErrNotFound)
		}
		removed[id] = true
	}
	for _, s := range e.Updated {
		if !c.Has(s.ID) || removed[s.ID] {
			return fmt.Errorf("update %s: %w", s.ID, ErrNotFound)
		}
	}
	seen := make(map[string]bool, len(e.Inserted))
	for _, s := range e.Inserted {
		if s.ID == "" {
			continue
		}
		if (c.Has(s.ID) && !removed[s.ID]) || seen[s.ID] {
			return fmt.Errorf("insert %s: %w", s.ID, ErrDuplicate)
		}
		seen[s.ID] = true
	}

	for _, id := range e.Removed {
		c.Remove(id)
	}
	for _, s := range e.Updated {
		c.byID[s.ID] = s
	}
	for _, s := range e.Inserted {
		c.Add(s)
	}
	return nil
}
