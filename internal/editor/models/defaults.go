package models

// ============================================================
// Defaults
// ============================================================

// DefaultSegment returns a zero-length segment of kind carrying the
// attributes new segments of that kind are drawn with.
func DefaultSegment(kind Kind) Segment {
	switch kind {
	case KindWall:
		return Segment{Kind: kind, Width: 10, Height: 300, Color: "#333333"}
	case KindDoor:
		return Segment{Kind: kind, Width: 80, Height: 215, Color: "#8B5A2B", Subtype: "single"}
	case KindWindow:
		return Segment{Kind: kind, Width: 90, Height: 100, Color: "#4A90D9"}
	case KindFurniture:
		return Segment{Kind: kind, Width: 60, Height: 75, Color: "#9E9E9E"}
	default:
		return Segment{Kind: kind}
	}
}
