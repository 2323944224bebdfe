package handlers

import (
	"fmt"

	"foodspot/internal/middleware"
	"foodspot/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CartHandler handles HTTP requests for the authenticated user's cart.
type CartHandler struct {
	service *services.CartService
	lg      *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, lg *zap.Logger) *CartHandler {
	return &CartHandler{service: service, lg: lg}
}

// RegisterRoutes registers the cart routes. The router must be authenticated.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cart := router.Group("/cart")
	cart.Get("/", h.HandleView)
	cart.Post("/items", h.HandleAdd)
	cart.Post("/items/:id/increase", h.HandleIncrease)
	cart.Post("/items/:id/decrease", h.HandleDecrease)
	cart.Delete("/items/:id", h.HandleDelete)
}

// HandleView returns the cart lines and total.
func (h *CartHandler) HandleView(c *fiber.Ctx) error {
	view, err := h.service.View(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.lg, err, "retrieve cart")
	}
	return c.JSON(view)
}

type addToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// HandleAdd puts a product in the cart.
func (h *CartHandler) HandleAdd(c *fiber.Ctx) error {
	var req addToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if req.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "product_id is required",
		})
	}

	line, err := h.service.Add(c.UserContext(), middleware.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, h.lg, err, "add to cart")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Item(s) added to cart!",
		"line":    line,
	})
}

// HandleIncrease adds one unit. Running out of stock is a warning, not a
// failure.
func (h *CartHandler) HandleIncrease(c *fiber.Ctx) error {
	line, err := h.service.Increase(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if stockErr, ok := services.IsInsufficientStock(err); ok {
		return c.JSON(fiber.Map{
			"line":    line,
			"warning": fmt.Sprintf("Only %d units available.", stockErr.Available),
		})
	}
	if err != nil {
		return respondError(c, h.lg, err, "update cart")
	}
	return c.JSON(fiber.Map{"line": line})
}

// HandleDecrease removes one unit, dropping the line at zero.
func (h *CartHandler) HandleDecrease(c *fiber.Ctx) error {
	line, err := h.service.Decrease(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.lg, err, "update cart")
	}
	if line == nil {
		return c.JSON(fiber.Map{"message": "Item removed from cart", "removed": true})
	}
	return c.JSON(fiber.Map{"line": line})
}

// HandleDelete removes a line.
func (h *CartHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return respondError(c, h.lg, err, "update cart")
	}
	return c.JSON(fiber.Map{"message": "Item removed from cart"})
}
