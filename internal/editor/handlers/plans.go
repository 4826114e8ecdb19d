package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Plan Handler
// ============================================================

type PlanHandler struct {
	plans PlanStore
}

func NewPlanHandler(plans PlanStore) *PlanHandler {
	return &PlanHandler{plans: plans}
}

func (h *PlanHandler) Register(r fiber.Router) {
	r.Get("/plans", h.List)
	r.Get("/plans/:id", h.Get)
	r.Delete("/plans/:id", h.Delete)
}

// List возвращает сохранённые планы.
func (h *PlanHandler) List(c fiber.Ctx) error {
	plans, err := h.plans.ListPlans(context.Background())
	if err != nil {
		log.Printf("[PLANS] list failed: %v", err)
		return fail(c, err)
	}
	return c.JSON(plans)
}

func (h *PlanHandler) Get(c fiber.Ctx) error {
	plan, err := h.plans.GetPlan(context.Background(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(plan)
}

func (h *PlanHandler) Delete(c fiber.Ctx) error {
	id := c.Params("id")
	if err := h.plans.DeletePlan(context.Background(), id); err != nil {
		return fail(c, err)
	}
	log.Printf("[PLANS] deleted %s", id)
	return c.SendStatus(http.StatusNoContent)
}
