package handlers

import (
	"foodspot/internal/middleware"
	"foodspot/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProfileHandler handles the authenticated user's account.
type ProfileHandler struct {
	authService *services.AuthService
	lg          *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(authService *services.AuthService, lg *zap.Logger) *ProfileHandler {
	return &ProfileHandler{authService: authService, lg: lg}
}

// RegisterRoutes registers the account routes. The router must be
// authenticated.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/profile", h.HandleGetProfile)
	router.Put("/profile", h.HandleUpdateProfile)
	router.Delete("/account", h.HandleDeleteAccount)
}

// HandleGetProfile returns the user with its profile.
func (h *ProfileHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.authService.GetProfile(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.lg, err, "retrieve profile")
	}
	return c.JSON(user)
}

// HandleUpdateProfile applies the supplied fields.
func (h *ProfileHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req services.ProfileInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	user, err := h.authService.UpdateProfile(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, h.lg, err, "update profile")
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully!",
		"user":    user,
	})
}

// HandleDeleteAccount permanently removes the user.
func (h *ProfileHandler) HandleDeleteAccount(c *fiber.Ctx) error {
	if err := h.authService.DeleteAccount(c.UserContext(), middleware.UserID(c)); err != nil {
		return respondError(c, h.lg, err, "delete account")
	}
	return c.JSON(fiber.Map{
		"message": "Your account has been deleted permanently.",
	})
}
