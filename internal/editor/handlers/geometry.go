package handlers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v3"

	"plan-editor/internal/editor/geometry"
	"plan-editor/internal/editor/models"
	"plan-editor/internal/editor/snap"
	"plan-editor/internal/editor/topology"
)

// ============================================================
// Stateless Geometry Handlers
// ============================================================

// RegisterGeometry mounts the endpoints that compute over a segment list
// sent with each request.
func RegisterGeometry(r fiber.Router) {
	r.Post("/geometry/closest-point", ClosestPoint)
	r.Post("/snap/point", SnapPoint)
	r.Post("/snap/endpoint", SnapEndpoint)
	r.Post("/snap/move", SnapMove)
	r.Post("/snap/axis", SnapAxis)
	r.Post("/snap/angle", SnapAngle)
	r.Post("/topology/split", SplitWalls)
	r.Post("/topology/merge", MergeWalls)
	r.Post("/topology/normalize", NormalizeWalls)
}

type closestPointRequest struct {
	Point   point          `json:"point"`
	Segment models.Segment `json:"segment"`
}

// ClosestPoint возвращает ближайшую точку отрезка и расстояние до неё.
func ClosestPoint(c fiber.Ctx) error {
	var req closestPointRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}

	l := req.Segment.Line()
	closest, dist := geometry.ClosestPointOnSegment(req.Point.r2(), l)
	return c.JSON(fiber.Map{
		"point":      fromR2(closest),
		"distance":   dist,
		"degenerate": l.Degenerate(),
	})
}

type snapPointRequest struct {
	Point    point            `json:"point"`
	Segments []models.Segment `json:"segments"`
	Scale    float64          `json:"scale"`
	Exclude  []string         `json:"exclude"`
}

// SnapPoint притягивает точку к ближайшему отрезку.
func SnapPoint(c fiber.Ctx) error {
	var req snapPointRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}

	p, ok := snap.Point(req.Point.r2(), req.Segments, req.Scale, models.NewIDSet(req.Exclude...))
	return c.JSON(fiber.Map{"point": fromR2(p), "snapped": ok})
}

type snapEndpointRequest struct {
	Fixed    point            `json:"fixed"`
	Point    point            `json:"point"`
	Segments []models.Segment `json:"segments"`
	Scale    float64          `json:"scale"`
	Exclude  []string         `json:"exclude"`
	WithAxis bool             `json:"withAxis"`
}

// SnapEndpoint resolves the free end of a segment being drawn or resized.
func SnapEndpoint(c fiber.Ctx) error {
	var req snapEndpointRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}

	res := snap.Endpoint(req.Fixed.r2(), req.Point.r2(), req.Segments, req.Scale, models.NewIDSet(req.Exclude...), req.WithAxis)
	return c.JSON(fiber.Map{"point": fromR2(res.Point), "source": res.Source})
}

type snapMoveRequest struct {
	Delta     point            `json:"delta"`
	Selection []string         `json:"selection"`
	Segments  []models.Segment `json:"segments"`
	Scale     float64          `json:"scale"`
}

// SnapMove возвращает поправку к смещению выделения.
func SnapMove(c fiber.Ctx) error {
	var req snapMoveRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}

	delta := req.Delta.r2()
	correction := snap.MoveCorrection(delta, models.NewIDSet(req.Selection...), req.Segments, req.Scale)
	return c.JSON(fiber.Map{
		"correction": fromR2(correction),
		"delta":      fromR2(delta.Add(correction)),
	})
}

type snapAxisRequest struct {
	Value    float64          `json:"value"`
	Axis     snap.Axis        `json:"axis"`
	Segments []models.Segment `json:"segments"`
	Scale    float64          `json:"scale"`
	Exclude  []string         `json:"exclude"`
}

func SnapAxis(c fiber.Ctx) error {
	var req snapAxisRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	if req.Axis != snap.AxisX && req.Axis != snap.AxisY {
		return badRequest(c, fmt.Errorf("axis must be %q or %q", snap.AxisX, snap.AxisY))
	}

	v, ok := snap.AxisSnap(req.Value, req.Axis, req.Segments, models.NewIDSet(req.Exclude...), req.Scale)
	if !ok {
		return c.JSON(fiber.Map{"value": nil, "snapped": false})
	}
	return c.JSON(fiber.Map{"value": v, "snapped": true})
}

type snapAngleRequest struct {
	Fixed point `json:"fixed"`
	Point point `json:"point"`
}

func SnapAngle(c fiber.Ctx) error {
	var req snapAngleRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	return c.JSON(fiber.Map{"point": fromR2(snap.Angle(req.Fixed.r2(), req.Point.r2()))})
}

// ============================================================
// Stateless Topology Handlers
// ============================================================

type splitRequest struct {
	Active   models.Segment   `json:"active"`
	Segments []models.Segment `json:"segments"`
}

// SplitWalls возвращает правку, разрезающую стены вокруг active.
func SplitWalls(c fiber.Ctx) error {
	var req splitRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}

	if err := assignIDs(req.Segments); err != nil {
		return badRequest(c, err)
	}
	if req.Active.ID == "" {
		req.Active.ID = models.NewID()
	}

	edit := topology.Split(req.Active, req.Segments)
	log.Printf("[TOPOLOGY] split around %s: %d updated, %d inserted", req.Active.ID, len(edit.Updated), len(edit.Inserted))
	return c.JSON(edit)
}

type mergeRequest struct {
	Segments  []models.Segment `json:"segments"`
	Selection []string         `json:"selection"`
	Scale     float64          `json:"scale"`
}

// MergeWalls возвращает правку, сливающую соосные стены.
func MergeWalls(c fiber.Ctx) error {
	var req mergeRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}

	if err := assignIDs(req.Segments); err != nil {
		return badRequest(c, err)
	}

	edit, selection, changed := topology.Merge(req.Segments, models.NewIDSet(req.Selection...), req.Scale)
	if !changed {
		selection = req.Selection
	}
	log.Printf("[TOPOLOGY] merge: %d removed, %d inserted", len(edit.Removed), len(edit.Inserted))
	return c.JSON(fiber.Map{
		"edit":             edit,
		"selection":        nonNil(selection),
		"selectionChanged": changed,
	})
}

type normalizeRequest struct {
	Segments []models.Segment `json:"segments"`
	Scale    float64          `json:"scale"`
}

// NormalizeWalls прогоняет разрезание и слияние стен над всем списком.
func NormalizeWalls(c fiber.Ctx) error {
	var req normalizeRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}

	if err := assignIDs(req.Segments); err != nil {
		return badRequest(c, err)
	}

	col := models.NewCollection(req.Segments...)
	if err := topology.Normalize(col, req.Scale); err != nil {
		log.Printf("[TOPOLOGY] normalize error: %v", err)
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"segments": col.All()})
}
