package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"talenthub-backend/internal/domain"
	"talenthub-backend/internal/middleware"
	"talenthub-backend/internal/service/fanout"
)

// DispatchHandler exposes the engine's two trigger inputs: the periodic
// tick (also driven by the in-process ticker; exposed here with an
// optional explicit now for operability and testing) and the once-per-post
// content event fired by the application layer.
type DispatchHandler struct {
	fanoutService fanout.Service
}

func NewDispatchHandler(fanoutService fanout.Service) *DispatchHandler {
	return &DispatchHandler{fanoutService: fanoutService}
}

type tickRequest struct {
	Now *time.Time `json:"now"`
}

func (h *DispatchHandler) RunTick(c *fiber.Ctx) error {
	var req tickRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return middleware.BadRequest("Invalid tick request body")
		}
	}

	now := time.Now().UTC()
	if req.Now != nil {
		now = req.Now.UTC()
	}

	result, err := h.fanoutService.RunTick(c.Context(), now)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *DispatchHandler) PublishContent(c *fiber.Ctx) error {
	var event domain.ContentEvent
	if err := c.BodyParser(&event); err != nil {
		return middleware.BadRequest("Invalid content event body")
	}
	if err := event.Validate(); err != nil {
		return middleware.BadRequest(err.Error())
	}

	written, err := h.fanoutService.PublishContent(c.Context(), event)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"notifications_written": written,
	})
}
