package handlers

import (
	"foodspot/internal/middleware"
	"foodspot/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for placing, tracking and reviewing
// orders.
type OrderHandler struct {
	checkout *services.CheckoutService
	orders   *services.OrderService
	reviews  *services.ReviewService
	lg       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(checkout *services.CheckoutService, orders *services.OrderService, reviews *services.ReviewService, lg *zap.Logger) *OrderHandler {
	return &OrderHandler{
		checkout: checkout,
		orders:   orders,
		reviews:  reviews,
		lg:       lg,
	}
}

// RegisterRoutes registers the customer order routes. The router must be
// authenticated.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/checkout", h.HandleCheckout)
	router.Post("/buy/:productId", h.HandleBuyNow)
	router.Get("/orders", h.HandleListOrders)
	router.Get("/orders/:trackingNo", h.HandleGetByTrackingNo)
	router.Post("/orders/:id/review", h.HandleAddReview)
}

// RegisterAdminRoutes registers order management routes.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/orders", h.HandleAdminListOrders)
	router.Patch("/orders/:id/status", h.HandleUpdateOrderStatus)
}

func placed(c *fiber.Ctx, result *services.CheckoutResult) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Order placed successfully",
		"tracking_no": result.TrackingNo,
		"total":       result.Total,
		"orders":      result.Orders,
	})
}

// HandleCheckout turns the cart into orders.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	result, err := h.checkout.Checkout(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.lg, err, "place order")
	}
	return placed(c, result)
}

type buyNowRequest struct {
	Quantity int `json:"quantity"`
}

// HandleBuyNow orders a single product. The quantity comes from the body or
// the qty query parameter and defaults to one.
func (h *OrderHandler) HandleBuyNow(c *fiber.Ctx) error {
	var req buyNowRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badBody(c, err)
		}
	}
	if req.Quantity == 0 {
		req.Quantity = c.QueryInt("qty", 1)
	}

	result, err := h.checkout.BuyNow(c.UserContext(), middleware.UserID(c), c.Params("productId"), req.Quantity)
	if err != nil {
		return respondError(c, h.lg, err, "place order")
	}
	return placed(c, result)
}

// HandleListOrders returns the user's order history.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.orders.ListForUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.lg, err, "retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetByTrackingNo returns the lines of one checkout.
func (h *OrderHandler) HandleGetByTrackingNo(c *fiber.Ctx) error {
	orders, err := h.orders.GetByTrackingNo(c.UserContext(), middleware.UserID(c), c.Params("trackingNo"))
	if err != nil {
		return respondError(c, h.lg, err, "retrieve order")
	}
	return c.JSON(fiber.Map{
		"tracking_no": c.Params("trackingNo"),
		"orders":      orders,
	})
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// HandleAddReview attaches feedback to a delivered order.
func (h *OrderHandler) HandleAddReview(c *fiber.Ctx) error {
	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	review, err := h.reviews.AddReview(c.UserContext(), middleware.UserID(c), c.Params("id"), req.Rating, req.Comment)
	if err != nil {
		return respondError(c, h.lg, err, "save review")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Thank you for your feedback!",
		"review":  review,
	})
}

// HandleAdminListOrders lists all orders, optionally filtered by ?status=.
func (h *OrderHandler) HandleAdminListOrders(c *fiber.Ctx) error {
	orders, err := h.orders.List(c.UserContext(), c.Query("status"))
	if err != nil {
		return respondError(c, h.lg, err, "retrieve orders")
	}
	return c.JSON(orders)
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	order, err := h.orders.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, h.lg, err, "update order status")
	}
	return c.JSON(order)
}
