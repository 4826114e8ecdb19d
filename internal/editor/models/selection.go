package models

// Membership answers whether a segment ID belongs to some set. A nil
// Membership means "nothing".
type Membership interface {
	Has(id string) bool
}

// IDSet is a plain Membership for exclusions.
type IDSet map[string]struct{}

func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Contains is a nil-safe lookup on a Membership.
func Contains(m Membership, id string) bool {
	if m == nil {
		return false
	}
	return m.Has(id)
}

// Selection is an ordered set of segment IDs with no duplicates.
type Selection struct {
	ids []string
}

func NewSelection(ids ...string) *Selection {
	s := &Selection{}
	s.Set(ids...)
	return s
}

func (s *Selection) Has(id string) bool {
	if s == nil {
		return false
	}
	for _, sid := range s.ids {
		if sid == id {
			return true
		}
	}
	return false
}

func (s *Selection) Add(id string) {
	if !s.Has(id) {
		s.ids = append(s.ids, id)
	}
}

// Set replaces the selection, dropping duplicates.
func (s *Selection) Set(ids ...string) {
	s.ids = s.ids[:0]
	for _, id := range ids {
		s.Add(id)
	}
}

func (s *Selection) Clear() {
	s.ids = nil
}

func (s *Selection) IDs() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.ids...)
}

func (s *Selection) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// Live returns the selected segments still present in c, skipping stale IDs.
func (s *Selection) Live(c *Collection) []Segment {
	var out []Segment
	for _, id := range s.IDs() {
		if seg, ok := c.Get(id); ok {
			out = append(out, seg)
		}
	}
	return out
}

// Prune drops IDs that are no longer in c.
func (s *Selection) Prune(c *Collection) {
	kept := s.ids[:0]
	for _, id := range s.ids {
		if c.Has(id) {
			kept = append(kept, id)
		}
	}
	s.ids = kept
}
