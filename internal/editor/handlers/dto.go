package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/golang/geo/r2"

	"plan-editor/internal/editor/models"
	"plan-editor/internal/editor/repository"
	"plan-editor/internal/editor/service"
	"plan-editor/internal/editor/session"
)

// ============================================================
// Payloads
// ============================================================

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p point) r2() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

func fromR2(p r2.Point) point {
	return point{X: p.X, Y: p.Y}
}

type rect struct {
	Min point `json:"min"`
	Max point `json:"max"`
}

type feedbackPayload struct {
	State  string          `json:"state"`
	Point  point           `json:"point"`
	Source string          `json:"source"`
	Delta  point           `json:"delta"`
	Draft  *models.Segment `json:"draft,omitempty"`
	Box    *rect           `json:"box,omitempty"`
}

func mapFeedback(fb session.Feedback) feedbackPayload {
	out := feedbackPayload{
		State:  fb.State.String(),
		Point:  fromR2(fb.Point),
		Source: string(fb.Source),
		Delta:  fromR2(fb.Delta),
		Draft:  fb.Draft,
	}
	if out.Source == "" {
		out.Source = "none"
	}
	if fb.Box != nil {
		out.Box = &rect{Min: fromR2(fb.Box.Lo()), Max: fromR2(fb.Box.Hi())}
	}
	return out
}

type sessionPayload struct {
	ID        string           `json:"id"`
	State     string           `json:"state"`
	Scale     float64          `json:"scale"`
	PlanID    string           `json:"planId,omitempty"`
	PlanName  string           `json:"planName,omitempty"`
	Segments  []models.Segment `json:"segments"`
	Selection []string         `json:"selection"`
}

func mapSession(e *service.Entry) sessionPayload {
	s := e.Session
	return sessionPayload{
		ID:        s.ID,
		State:     s.State().String(),
		Scale:     s.Scale(),
		PlanID:    e.PlanID,
		PlanName:  e.PlanName,
		Segments:  s.Segments.All(),
		Selection: nonNil(s.Selection.IDs()),
	}
}

// ============================================================
// Helpers
// ============================================================

func decode(c fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return errors.New("empty body")
	}
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return errors.New("invalid json")
	}
	return nil
}

func badRequest(c fiber.Ctx, err error) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

var errUnknownGesture = errors.New("unknown gesture")

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errUnknownGesture):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, models.ErrNotFound),
		errors.Is(err, repository.ErrPlanNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrInvalidTransition),
		errors.Is(err, models.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, session.ErrEmptySelection),
		errors.Is(err, session.ErrUnknownKind),
		errors.Is(err, session.ErrTooShort):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func fail(c fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}

// assignIDs gives every segment without an id a fresh one, so the topology
// passes can tell request segments apart. Repeated ids are rejected.
func assignIDs(segments []models.Segment) error {
	seen := make(map[string]bool, len(segments))
	for i := range segments {
		if segments[i].ID == "" {
			segments[i].ID = models.NewID()
		}
		if seen[segments[i].ID] {
			return fmt.Errorf("segment %s: %w", segments[i].ID, models.ErrDuplicate)
		}
		seen[segments[i].ID] = true
	}
	return nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
