package handlers

import (
	"errors"
	"fmt"

	"foodspot/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError maps service errors to HTTP responses. Anything unknown is
// logged and reported as a 500 "Could not <action>".
func respondError(c *fiber.Ctx, lg *zap.Logger, err error, action string) error {
	var stockErr *services.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":    fmt.Sprintf("Not enough stock for %s. Only %d available.", stockErr.ProductName, stockErr.Available),
			"product_id": stockErr.ProductID,
			"requested":  stockErr.Requested,
			"available":  stockErr.Available,
		})
	case errors.Is(err, services.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":  "Your cart is empty.",
			"redirect": "/",
		})
	case errors.Is(err, services.ErrCheckoutInProgress):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"message": "A checkout is already in progress",
		})
	case errors.Is(err, services.ErrOrderNotDelivered):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "You can only review delivered orders.",
		})
	case errors.Is(err, services.ErrDuplicateReview):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "You have already reviewed this order.",
		})
	case errors.Is(err, services.ErrInvalidReview):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Invalid feedback submission.",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrUsernameTaken), errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Registration failed",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
			"error":   err.Error(),
		})
	}

	lg.Error("request failed", zap.String("action", action), zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not " + action,
	})
}

func badBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// validationFailed reports struct validation errors per field.
func validationFailed(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return badBody(c, err)
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
