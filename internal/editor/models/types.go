package models

import (
	"time"

	"github.com/golang/geo/r2"

	"plan-editor/internal/editor/geometry"
)

// ============================================================
// Segments
// ============================================================

type Kind string

const (
	KindWall      Kind = "wall"
	KindDoor      Kind = "door"
	KindWindow    Kind = "window"
	KindFurniture Kind = "furniture"
)

// Valid reports whether k is one of the known segment kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindWall, KindDoor, KindWindow, KindFurniture:
		return true
	}
	return false
}

// Segment is one editable plan element. Subtype and IsOpen only apply to doors.
type Segment struct {
	ID      string  `json:"id"`
	Kind    Kind    `json:"kind"`
	X1      float64 `json:"x1"`
	Y1      float64 `json:"y1"`
	X2      float64 `json:"x2"`
	Y2      float64 `json:"y2"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Color   string  `json:"color"`
	Subtype string  `json:"subtype,omitempty"`
	IsOpen  bool    `json:"isOpen,omitempty"`
}

func (s Segment) Start() r2.Point { return r2.Point{X: s.X1, Y: s.Y1} }
func (s Segment) End() r2.Point   { return r2.Point{X: s.X2, Y: s.Y2} }

func (s Segment) Line() geometry.Line {
	return geometry.Line{A: s.Start(), B: s.End()}
}

func (s Segment) IsWall() bool {
	return s.Kind == KindWall
}

// WithLine returns a copy of s with its endpoints replaced by l.
func (s Segment) WithLine(l geometry.Line) Segment {
	s.X1, s.Y1 = l.A.X, l.A.Y
	s.X2, s.Y2 = l.B.X, l.B.Y
	return s
}

// Derive copies the non-geometric attributes of s onto a new segment spanning l.
func (s Segment) Derive(id string, l geometry.Line) Segment {
	out := s.WithLine(l)
	out.ID = id
	return out
}

// Handle names the endpoint being dragged during a resize.
type Handle string

const (
	HandleStart Handle = "start"
	HandleEnd   Handle = "end"
)

// Lines maps segments to their geometry in the same order.
func Lines(segments []Segment) []geometry.Line {
	out := make([]geometry.Line, 0, len(segments))
	for _, s := range segments {
		out = append(out, s.Line())
	}
	return out
}

// ============================================================
// Edits
// ============================================================

// Edit is a batch of collection changes computed against a snapshot and
// applied in one step.
type Edit struct {
	Removed  []string  `json:"removed"`
	Updated  []Segment `json:"updated"`
	Inserted []Segment `json:"inserted"`
}

func (e Edit) Empty() bool {
	return len(e.Removed) == 0 && len(e.Updated) == 0 && len(e.Inserted) == 0
}

// ============================================================
// Plans
// ============================================================

// Plan is a stored snapshot of a collection.
type Plan struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Scale     float64   `json:"scale"`
	Segments  []Segment `json:"segments"`
	UpdatedAt time.Time `json:"updatedAt"`
}
