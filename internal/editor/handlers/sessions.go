package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"plan-editor/internal/editor/models"
	"plan-editor/internal/editor/service"
	"plan-editor/internal/editor/session"
)

// ============================================================
// Session Handler
// ============================================================

// PlanStore is the persistence the handlers need; the sqlite repository
// satisfies it.
type PlanStore interface {
	SavePlan(ctx context.Context, plan models.Plan) (models.Plan, error)
	GetPlan(ctx context.Context, id string) (models.Plan, error)
	ListPlans(ctx context.Context) ([]models.Plan, error)
	DeletePlan(ctx context.Context, id string) error
}

type SessionHandler struct {
	sessions     *service.SessionStore
	plans        PlanStore
	defaultScale float64
}

func NewSessionHandler(sessions *service.SessionStore, plans PlanStore, defaultScale float64) *SessionHandler {
	return &SessionHandler{
		sessions:     sessions,
		plans:        plans,
		defaultScale: defaultScale,
	}
}

func (h *SessionHandler) Register(r fiber.Router) {
	r.Post("/sessions", h.Create)
	r.Get("/sessions/:id", h.Get)
	r.Delete("/sessions/:id", h.Close)
	r.Post("/sessions/:id/scale", h.SetScale)
	r.Post("/sessions/:id/select", h.Select)
	r.Post("/sessions/:id/segments", h.Insert)
	r.Post("/sessions/:id/gesture", h.BeginGesture)
	r.Post("/sessions/:id/pointer/move", h.PointerMove)
	r.Post("/sessions/:id/pointer/up", h.PointerUp)
	r.Post("/sessions/:id/cancel", h.Cancel)
	r.Delete("/sessions/:id/selection", h.DeleteSelection)
	r.Post("/sessions/:id/save", h.Save)
}

type createSessionRequest struct {
	PlanID   string           `json:"planId"`
	Scale    float64          `json:"scale"`
	Segments []models.Segment `json:"segments"`
}

// Create открывает сессию: пустую, из переданных сегментов или из сохранённого плана.
func (h *SessionHandler) Create(c fiber.Ctx) error {
	var req createSessionRequest
	if len(c.Body()) > 0 {
		if err := decode(c, &req); err != nil {
			return badRequest(c, err)
		}
	}

	plan := models.Plan{Scale: req.Scale, Segments: req.Segments}
	if req.PlanID != "" {
		stored, err := h.plans.GetPlan(context.Background(), req.PlanID)
		if err != nil {
			return fail(c, err)
		}
		plan = stored
		if req.Scale != 0 {
			plan.Scale = req.Scale
		}
	}
	if plan.Scale == 0 {
		plan.Scale = h.defaultScale
	}
	for _, s := range plan.Segments {
		if !s.Kind.Valid() {
			return badRequest(c, fmt.Errorf("segment %s: %w", s.ID, session.ErrUnknownKind))
		}
	}

	id := h.sessions.Open(plan)
	log.Printf("[SESSION] opened %s with %d segment(s)", id, len(plan.Segments))

	return h.respond(c, http.StatusCreated, id, nil)
}

func (h *SessionHandler) Get(c fiber.Ctx) error {
	return h.respond(c, http.StatusOK, c.Params("id"), nil)
}

func (h *SessionHandler) Close(c fiber.Ctx) error {
	id := c.Params("id")
	if !h.sessions.Close(id) {
		return fail(c, fmt.Errorf("session %s: %w", id, service.ErrSessionNotFound))
	}
	log.Printf("[SESSION] closed %s", id)
	return c.SendStatus(http.StatusNoContent)
}

type scaleRequest struct {
	Scale float64 `json:"scale"`
}

func (h *SessionHandler) SetScale(c fiber.Ctx) error {
	var req scaleRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	return h.respond(c, http.StatusOK, c.Params("id"), func(e *service.Entry) error {
		e.Session.SetScale(req.Scale)
		return nil
	})
}

type selectRequest struct {
	IDs []string `json:"ids"`
}

// Select заменяет выделение; пустой список снимает его.
func (h *SessionHandler) Select(c fiber.Ctx) error {
	var req selectRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	return h.respond(c, http.StatusOK, c.Params("id"), func(e *service.Entry) error {
		if len(req.IDs) == 0 {
			return e.Session.ClearSelection()
		}
		return e.Session.Select(req.IDs...)
	})
}

// Insert добавляет готовый сегмент так же, как если бы он был нарисован.
func (h *SessionHandler) Insert(c fiber.Ctx) error {
	var seg models.Segment
	if err := decode(c, &seg); err != nil {
		return badRequest(c, err)
	}

	var added models.Segment
	err := h.sessions.With(c.Params("id"), func(e *service.Entry) error {
		var err error
		added, err = e.Session.Insert(seg)
		return err
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(added)
}

// ============================================================
// Gestures
// ============================================================

type gestureRequest struct {
	Type      string        `json:"type"`
	Point     point         `json:"point"`
	Kind      models.Kind   `json:"kind"`
	SegmentID string        `json:"segmentId"`
	Handle    models.Handle `json:"handle"`
}

type pointerRequest struct {
	Point point `json:"point"`
}

// BeginGesture начинает рисование, перемещение, изменение размера, поворот
// или выделение рамкой.
func (h *SessionHandler) BeginGesture(c fiber.Ctx) error {
	var req gestureRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}

	var fb session.Feedback
	err := h.sessions.With(c.Params("id"), func(e *service.Entry) error {
		s := e.Session
		p := req.Point.r2()

		var err error
		switch req.Type {
		case "draw":
			fb, err = s.BeginDraw(req.Kind, p)
			return err
		case "move":
			err = s.BeginMove(p)
		case "resize":
			err = s.BeginResize(req.SegmentID, req.Handle, p)
		case "rotate":
			err = s.BeginRotate(p)
		case "box-select":
			err = s.BeginBoxSelect(p)
		default:
			return fmt.Errorf("%q: %w", req.Type, errUnknownGesture)
		}
		fb = session.Feedback{State: s.State(), Point: p}
		return err
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(mapFeedback(fb))
}

func (h *SessionHandler) PointerMove(c fiber.Ctx) error {
	var req pointerRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}

	var fb session.Feedback
	err := h.sessions.With(c.Params("id"), func(e *service.Entry) error {
		var err error
		fb, err = e.Session.PointerMove(req.Point.r2())
		return err
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(mapFeedback(fb))
}

type gestureResult struct {
	Feedback feedbackPayload `json:"feedback"`
	Session  sessionPayload  `json:"session"`
}

// PointerUp завершает жест и возвращает обновлённое состояние сессии.
func (h *SessionHandler) PointerUp(c fiber.Ctx) error {
	var req pointerRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}

	var out gestureResult
	err := h.sessions.With(c.Params("id"), func(e *service.Entry) error {
		fb, err := e.Session.PointerUp(req.Point.r2())
		if err != nil {
			return err
		}
		out = gestureResult{Feedback: mapFeedback(fb), Session: mapSession(e)}
		return nil
	})
	if err != nil {
		log.Printf("[SESSION] %s: pointer up failed: %v", c.Params("id"), err)
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *SessionHandler) Cancel(c fiber.Ctx) error {
	return h.respond(c, http.StatusOK, c.Params("id"), func(e *service.Entry) error {
		return e.Session.Cancel()
	})
}

func (h *SessionHandler) DeleteSelection(c fiber.Ctx) error {
	var (
		removed int
		payload sessionPayload
	)
	err := h.sessions.With(c.Params("id"), func(e *service.Entry) error {
		var err error
		if removed, err = e.Session.DeleteSelection(); err != nil {
			return err
		}
		payload = mapSession(e)
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"removed": removed, "session": payload})
}

type saveRequest struct {
	Name string `json:"name"`
}

// Save сохраняет сегменты сессии как план; повторное сохранение
// перезаписывает тот же план.
func (h *SessionHandler) Save(c fiber.Ctx) error {
	var req saveRequest
	if len(c.Body()) > 0 {
		if err := decode(c, &req); err != nil {
			return badRequest(c, err)
		}
	}

	var saved models.Plan
	err := h.sessions.With(c.Params("id"), func(e *service.Entry) error {
		if e.Session.State() != session.StateIdle {
			return fmt.Errorf("save while %s: %w", e.Session.State(), session.ErrInvalidTransition)
		}
		name := req.Name
		if name == "" {
			name = e.PlanName
		}
		if name == "" {
			name = "untitled"
		}

		plan, err := h.plans.SavePlan(context.Background(), models.Plan{
			ID:       e.PlanID,
			Name:     name,
			Scale:    e.Session.Scale(),
			Segments: e.Session.Segments.All(),
		})
		if err != nil {
			return err
		}
		e.PlanID, e.PlanName = plan.ID, plan.Name
		saved = plan
		return nil
	})
	if err != nil {
		log.Printf("[PLANS] save failed: %v", err)
		return fail(c, err)
	}

	log.Printf("[PLANS] saved %s (%d segments)", saved.ID, len(saved.Segments))
	return c.JSON(saved)
}

// respond runs fn under the session lock, then answers with the session state.
func (h *SessionHandler) respond(c fiber.Ctx, status int, id string, fn func(*service.Entry) error) error {
	var payload sessionPayload
	err := h.sessions.With(id, func(e *service.Entry) error {
		if fn != nil {
			if err := fn(e); err != nil {
				return err
			}
		}
		payload = mapSession(e)
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(status).JSON(payload)
}
