// Package session drives one editing session: the segment collection, the
// selection, and the pointer gesture currently in progress.
package session

import (
	"errors"
	"fmt"
)

// ============================================================
// State machine
// ============================================================

type State int

const (
	StateIdle State = iota
	StateDrawing
	StateMoving
	StateResizing
	StateRotating
	StateBoxSelecting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDrawing:
		return "drawing"
	case StateMoving:
		return "moving"
	case StateResizing:
		return "resizing"
	case StateRotating:
		return "rotating"
	case StateBoxSelecting:
		return "box-selecting"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type Event int

const (
	EventBeginDraw Event = iota
	EventBeginMove
	EventBeginResize
	EventBeginRotate
	EventBeginBoxSelect
	EventPointerMove
	EventPointerUp
	EventCancel
)

func (e Event) String() string {
	switch e {
	case EventBeginDraw:
		return "begin-draw"
	case EventBeginMove:
		return "begin-move"
	case EventBeginResize:
		return "begin-resize"
	case EventBeginRotate:
		return "begin-rotate"
	case EventBeginBoxSelect:
		return "begin-box-select"
	case EventPointerMove:
		return "pointer-move"
	case EventPointerUp:
		return "pointer-up"
	case EventCancel:
		return "cancel"
	}
	return fmt.Sprintf("event(%d)", int(e))
}

var ErrInvalidTransition = errors.New("invalid transition")

var beginTargets = map[Event]State{
	EventBeginDraw:      StateDrawing,
	EventBeginMove:      StateMoving,
	EventBeginResize:    StateResizing,
	EventBeginRotate:    StateRotating,
	EventBeginBoxSelect: StateBoxSelecting,
}

// Transition is the pure transition table. Gestures start only from Idle,
// pointer moves keep the current state, and pointer up or cancel end a
// gesture back in Idle.
func Transition(from State, ev Event) (State, error) {
	if to, ok := beginTargets[ev]; ok {
		if from != StateIdle {
			return from, fmt.Errorf("%s while %s: %w", ev, from, ErrInvalidTransition)
		}
		return to, nil
	}

	switch ev {
	case EventPointerMove:
		return from, nil
	case EventPointerUp, EventCancel:
		if from == StateIdle {
			return from, fmt.Errorf("%s while %s: %w", ev, from, ErrInvalidTransition)
		}
		return StateIdle, nil
	}
	return from, fmt.Errorf("unknown event %s: %w", ev, ErrInvalidTransition)
}
