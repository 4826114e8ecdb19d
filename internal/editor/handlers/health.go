package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"plan-editor/internal/editor/service"
)

// ============================================================
// Health Check Handlers
// ============================================================

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db       Pinger
	sessions *service.SessionStore
}

func NewHealthHandler(db Pinger, sessions *service.SessionStore) *HealthHandler {
	return &HealthHandler{db: db, sessions: sessions}
}

func (h *HealthHandler) Register(r fiber.Router) {
	r.Get("/health/live", h.Live)
	r.Get("/health/ready", h.Ready)
}

// Live проверяет, что приложение работает
func (h *HealthHandler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// Ready проверяет доступность хранилища планов
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	if h.db != nil {
		if err := h.db.PingContext(context.Background()); err != nil {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
				"error":  err.Error(),
			})
		}
	}
	return c.JSON(fiber.Map{
		"status":   "ready",
		"sessions": h.sessions.Len(),
	})
}
