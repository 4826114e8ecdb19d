package session

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/golang/geo/r2"

	"plan-editor/internal/editor/geometry"
	"plan-editor/internal/editor/models"
	"plan-editor/internal/editor/snap"
	"plan-editor/internal/editor/topology"
)

// ============================================================
// Session
// ============================================================

var (
	ErrEmptySelection = errors.New("selection is empty")
	ErrUnknownKind    = errors.New("unknown segment kind")
	ErrTooShort       = errors.New("segment too short")
)

// Session owns a segment collection and its selection. It is not safe for
// concurrent use; every call must come from one serialized event stream.
type Session struct {
	ID        string
	Segments  *models.Collection
	Selection *models.Selection

	scale   float64
	state   State
	gesture gesture
}

// gesture holds what a pointer drag needs between events.
type gesture struct {
	origin    r2.Point
	snapshot  []models.Segment
	selection []string

	draft    models.Segment
	targetID string
	handle   models.Handle
	fixed    r2.Point
	moving   []models.Segment
	center   r2.Point
	box      r2.Rect
}

// Feedback describes the outcome of one pointer event for the renderer.
type Feedback struct {
	State  State
	Point  r2.Point
	Source snap.Source
	Delta  r2.Point
	Draft  *models.Segment
	Box    *r2.Rect
}

func New(id string, scale float64, segments ...models.Segment) *Session {
	return &Session{
		ID:        id,
		Segments:  models.NewCollection(segments...),
		Selection: models.NewSelection(),
		scale:     geometry.NormalizeScale(scale),
		state:     StateIdle,
	}
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Scale() float64 {
	return s.scale
}

// SetScale changes the zoom used for every tolerance.
func (s *Session) SetScale(scale float64) {
	s.scale = geometry.NormalizeScale(scale)
}

func (s *Session) advance(ev Event) error {
	next, err := Transition(s.state, ev)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *Session) begin(ev Event, p r2.Point) error {
	if err := s.advance(ev); err != nil {
		return err
	}
	s.gesture = gesture{
		origin:    p,
		snapshot:  s.Segments.Snapshot(),
		selection: s.Selection.IDs(),
	}
	return nil
}

func (s *Session) rollback() {
	s.Segments.Restore(s.gesture.snapshot)
	s.Selection.Set(s.gesture.selection...)
}

// ============================================================
// Gesture start
// ============================================================

// BeginDraw starts a new segment of kind at p, snapped to nearby geometry.
func (s *Session) BeginDraw(kind models.Kind, p r2.Point) (Feedback, error) {
	if !kind.Valid() {
		return Feedback{}, fmt.Errorf("draw %q: %w", kind, ErrUnknownKind)
	}
	if err := s.begin(EventBeginDraw, p); err != nil {
		return Feedback{}, err
	}

	start, ok := snap.Point(p, s.gesture.snapshot, s.scale, nil)
	s.gesture.fixed = start
	s.gesture.draft = models.DefaultSegment(kind).WithLine(geometry.Line{A: start, B: start})

	draft := s.gesture.draft
	return Feedback{State: s.state, Point: start, Source: pointSource(ok), Draft: &draft}, nil
}

// BeginMove starts translating the selection.
func (s *Session) BeginMove(p r2.Point) error {
	moving := s.Selection.Live(s.Segments)
	if len(moving) == 0 {
		return ErrEmptySelection
	}
	if err := s.begin(EventBeginMove, p); err != nil {
		return err
	}
	s.gesture.moving = moving
	return nil
}

// BeginResize starts dragging one endpoint of segment id.
func (s *Session) BeginResize(id string, handle models.Handle, p r2.Point) error {
	seg, ok := s.Segments.Get(id)
	if !ok {
		return fmt.Errorf("resize %s: %w", id, models.ErrNotFound)
	}
	if handle != models.HandleStart && handle != models.HandleEnd {
		return fmt.Errorf("resize %s: unknown handle %q", id, handle)
	}
	if err := s.begin(EventBeginResize, p); err != nil {
		return err
	}
	s.gesture.targetID = id
	s.gesture.handle = handle
	s.gesture.fixed = seg.Start()
	if handle == models.HandleStart {
		s.gesture.fixed = seg.End()
	}
	return nil
}

// BeginRotate starts rotating the selection around its bounding-box center.
func (s *Session) BeginRotate(p r2.Point) error {
	moving := s.Selection.Live(s.Segments)
	if len(moving) == 0 {
		return ErrEmptySelection
	}
	if err := s.begin(EventBeginRotate, p); err != nil {
		return err
	}
	s.gesture.moving = moving
	s.gesture.center = geometry.Bounds(models.Lines(moving)...).Center()
	return nil
}

// BeginBoxSelect starts a rubber-band selection at p.
func (s *Session) BeginBoxSelect(p r2.Point) error {
	if err := s.begin(EventBeginBoxSelect, p); err != nil {
		return err
	}
	s.gesture.box = r2.RectFromPoints(p)
	return nil
}

// ============================================================
// Pointer events
// ============================================================

// PointerMove updates the gesture in progress. In Idle it only reports where
// the pointer would snap.
func (s *Session) PointerMove(p r2.Point) (Feedback, error) {
	if err := s.advance(EventPointerMove); err != nil {
		return Feedback{}, err
	}

	switch s.state {
	case StateDrawing:
		res := snap.Endpoint(s.gesture.fixed, p, s.gesture.snapshot, s.scale, nil, false)
		s.gesture.draft = s.gesture.draft.WithLine(geometry.Line{A: s.gesture.fixed, B: res.Point})
		draft := s.gesture.draft
		return Feedback{State: s.state, Point: res.Point, Source: res.Source, Draft: &draft}, nil

	case StateMoving:
		return s.moveSelection(p)

	case StateResizing:
		return s.resizeTarget(p)

	case StateRotating:
		return s.rotateSelection(p)

	case StateBoxSelecting:
		box := r2.RectFromPoints(s.gesture.origin, p)
		s.gesture.box = box
		return Feedback{State: s.state, Point: p, Source: snap.SourceNone, Box: &box}, nil
	}

	hover, ok := snap.Point(p, s.Segments.All(), s.scale, nil)
	return Feedback{State: s.state, Point: hover, Source: pointSource(ok)}, nil
}

func (s *Session) moveSelection(p r2.Point) (Feedback, error) {
	delta := p.Sub(s.gesture.origin)
	correction := snap.MoveCorrection(delta, models.NewIDSet(segmentIDs(s.gesture.moving)...), s.gesture.snapshot, s.scale)
	total := delta.Add(correction)

	for _, m := range s.gesture.moving {
		if err := s.Segments.Update(m.WithLine(m.Line().Translate(total))); err != nil {
			return Feedback{}, err
		}
	}

	source := snap.SourceNone
	if correction != (r2.Point{}) {
		source = snap.SourcePoint
	}
	return Feedback{State: s.state, Point: s.gesture.origin.Add(total), Source: source, Delta: total}, nil
}

func (s *Session) resizeTarget(p r2.Point) (Feedback, error) {
	seg, ok := s.Segments.Get(s.gesture.targetID)
	if !ok {
		return Feedback{}, fmt.Errorf("resize %s: %w", s.gesture.targetID, models.ErrNotFound)
	}

	exclude := models.NewIDSet(seg.ID)
	res := snap.Endpoint(s.gesture.fixed, p, s.gesture.snapshot, s.scale, exclude, true)

	if s.gesture.handle == models.HandleStart {
		seg.X1, seg.Y1 = res.Point.X, res.Point.Y
	} else {
		seg.X2, seg.Y2 = res.Point.X, res.Point.Y
	}
	if err := s.Segments.Update(seg); err != nil {
		return Feedback{}, err
	}
	return Feedback{State: s.state, Point: res.Point, Source: res.Source}, nil
}

func (s *Session) rotateSelection(p r2.Point) (Feedback, error) {
	center := s.gesture.center
	from, to := s.gesture.origin.Sub(center), p.Sub(center)

	var angle float64
	if from.Norm() > 1e-3 && to.Norm() > 1e-3 {
		angle = math.Atan2(to.Y, to.X) - math.Atan2(from.Y, from.X)
	}

	for _, m := range s.gesture.moving {
		l := geometry.Line{
			A: geometry.Rotate(m.Start(), center, angle),
			B: geometry.Rotate(m.End(), center, angle),
		}
		if err := s.Segments.Update(m.WithLine(l)); err != nil {
			return Feedback{}, err
		}
	}
	return Feedback{State: s.state, Point: p, Source: snap.SourceNone}, nil
}

// PointerUp finishes the gesture and runs the topology passes. When anything
// fails the collection and selection return to their state before the
// gesture began.
func (s *Session) PointerUp(p r2.Point) (Feedback, error) {
	if s.state == StateIdle {
		return Feedback{}, s.advance(EventPointerUp)
	}

	fb, err := s.PointerMove(p)
	if err != nil {
		s.abort()
		return Feedback{}, err
	}

	state := s.state
	if err := s.advance(EventPointerUp); err != nil {
		return Feedback{}, err
	}

	switch state {
	case StateDrawing:
		err = s.finishDraw()
	case StateMoving, StateRotating:
		err = s.finalize(segmentIDs(s.gesture.moving)...)
	case StateResizing:
		err = s.finalize(s.gesture.targetID)
	case StateBoxSelecting:
		s.finishBoxSelect()
	}
	if err != nil {
		s.rollback()
		return Feedback{}, err
	}

	fb.State = s.state
	return fb, nil
}

func (s *Session) finishDraw() error {
	draft := s.gesture.draft
	if draft.Line().Length() < geometry.MinDrawnLength {
		log.Printf("[SESSION] %s: discarded %s shorter than %.0f", s.ID, draft.Kind, geometry.MinDrawnLength)
		return nil
	}

	added := s.Segments.Add(draft)
	s.Selection.Set(added.ID)
	return s.finalize(added.ID)
}

func (s *Session) finishBoxSelect() {
	box := s.gesture.box
	var ids []string
	for _, seg := range s.Segments.All() {
		if box.ContainsPoint(seg.Start()) && box.ContainsPoint(seg.End()) {
			ids = append(ids, seg.ID)
		}
	}
	s.Selection.Set(ids...)
}

// Cancel abandons the gesture in progress and restores the collection.
func (s *Session) Cancel() error {
	if err := s.advance(EventCancel); err != nil {
		return err
	}
	s.rollback()
	return nil
}

func (s *Session) abort() {
	s.rollback()
	s.state = StateIdle
}

// finalize splits walls around each touched segment, then merges walls to a
// fixed point.
func (s *Session) finalize(ids ...string) error {
	for _, id := range ids {
		if _, err := topology.MaintainTopology(id, s.Segments); err != nil {
			return fmt.Errorf("split around %s: %w", id, err)
		}
	}
	if err := topology.MergeWalls(s.Segments, s.Selection, s.scale); err != nil {
		return fmt.Errorf("merge walls: %w", err)
	}
	s.Selection.Prune(s.Segments)
	return nil
}

// ============================================================
// Direct edits
// ============================================================

// Select replaces the selection with the given IDs that exist.
func (s *Session) Select(ids ...string) error {
	if s.state != StateIdle {
		return fmt.Errorf("select while %s: %w", s.state, ErrInvalidTransition)
	}
	var live []string
	for _, id := range ids {
		if s.Segments.Has(id) {
			live = append(live, id)
		}
	}
	s.Selection.Set(live...)
	return nil
}

// ClearSelection empties the selection.
func (s *Session) ClearSelection() error {
	if s.state != StateIdle {
		return fmt.Errorf("clear selection while %s: %w", s.state, ErrInvalidTransition)
	}
	s.Selection.Clear()
	return nil
}

// Insert adds a finished segment as if it had been drawn.
func (s *Session) Insert(seg models.Segment) (models.Segment, error) {
	if s.state != StateIdle {
		return models.Segment{}, fmt.Errorf("insert while %s: %w", s.state, ErrInvalidTransition)
	}
	if !seg.Kind.Valid() {
		return models.Segment{}, fmt.Errorf("insert %q: %w", seg.Kind, ErrUnknownKind)
	}
	if seg.Line().Length() < geometry.MinDrawnLength {
		return models.Segment{}, ErrTooShort
	}
	if seg.ID != "" && s.Segments.Has(seg.ID) {
		return models.Segment{}, fmt.Errorf("insert %s: %w", seg.ID, models.ErrDuplicate)
	}

	s.gesture = gesture{snapshot: s.Segments.Snapshot(), selection: s.Selection.IDs()}
	added := s.Segments.Add(seg)
	if err := s.finalize(added.ID); err != nil {
		s.rollback()
		return models.Segment{}, err
	}
	return added, nil
}

// DeleteSelection removes the selected segments and lets the remaining walls merge.
func (s *Session) DeleteSelection() (int, error) {
	if s.state != StateIdle {
		return 0, fmt.Errorf("delete while %s: %w", s.state, ErrInvalidTransition)
	}

	s.gesture = gesture{snapshot: s.Segments.Snapshot(), selection: s.Selection.IDs()}
	removed := 0
	for _, id := range s.Selection.IDs() {
		if s.Segments.Remove(id) {
			removed++
		}
	}
	s.Selection.Clear()
	if removed == 0 {
		return 0, nil
	}

	if err := topology.MergeWalls(s.Segments, s.Selection, s.scale); err != nil {
		s.rollback()
		return 0, fmt.Errorf("merge walls: %w", err)
	}
	return removed, nil
}

func pointSource(snapped bool) snap.Source {
	if snapped {
		return snap.SourcePoint
	}
	return snap.SourceNone
}

func segmentIDs(segments []models.Segment) []string {
	ids := make([]string, 0, len(segments))
	for _, s := range segments {
		ids = append(ids, s.ID)
	}
	return ids
}
