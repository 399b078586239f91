package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sweet-shop-service/internal/api/dto"
	"github.com/spec-kit/sweet-shop-service/internal/auth"
	"github.com/spec-kit/sweet-shop-service/internal/events"
	"github.com/spec-kit/sweet-shop-service/internal/service"
	apperrors "github.com/spec-kit/sweet-shop-service/pkg/util"
)

// SweetsHandler manages catalog endpoints.
type SweetsHandler struct {
	service *service.SweetService
}

// NewSweetsHandler constructs handler.
func NewSweetsHandler(sweetService *service.SweetService) *SweetsHandler {
	return &SweetsHandler{service: sweetService}
}

// Create POST /api/sweets (admin).
func (h *SweetsHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateSweetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	input := service.SweetCreateInput{
		Name:     req.Name,
		Category: req.Category,
		Price:    *req.Price,
	}
	if req.Quantity != nil {
		input.Quantity = *req.Quantity
	}

	sweet, err := h.service.Create(c.Context(), actor, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewSweetResponse(sweet))
}

// List GET /api/sweets.
func (h *SweetsHandler) List(c *fiber.Ctx) error {
	sweets, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSweetResponses(sweets))
}

// Search GET /api/sweets/search?q=term.
func (h *SweetsHandler) Search(c *fiber.Ctx) error {
	sweets, err := h.service.Search(c.Context(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSweetResponses(sweets))
}

// Update PUT /api/sweets/:id (admin).
func (h *SweetsHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateSweetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	sweet, err := h.service.Update(c.Context(), actor, c.Params("id"), service.SweetUpdateInput{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSweetResponse(sweet))
}

// Delete DELETE /api/sweets/:id (admin).
func (h *SweetsHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Sweet deleted"})
}

// Purchase POST /api/sweets/:id/purchase.
func (h *SweetsHandler) Purchase(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	sweet, err := h.service.Purchase(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.PurchaseResponse{
		Message:           "Purchase successful",
		RemainingQuantity: sweet.Quantity,
	})
}

func actorFromContext(c *fiber.Ctx) (events.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return events.Actor{}, apperrors.NewUnauthenticated("authentication required")
	}
	return events.Actor{UserID: principal.UserID, Role: principal.Role}, nil
}
