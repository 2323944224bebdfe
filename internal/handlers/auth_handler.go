package handlers

import (
	"foodspot/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	lg          *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, lg *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		lg:          lg,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/password-reset", h.HandlePasswordReset)
	authRoutes.Post("/password-reset/confirm", h.HandlePasswordResetConfirm)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	user, err := h.authService.RegisterUser(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.lg, err, "register user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login. Username may also be
// the account's e-mail address.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	token, err := h.authService.LoginUser(c.UserContext(), req.Username, req.Password)
	if err != nil {
		h.lg.Info("login failed", zap.String("username", req.Username), zap.Error(err))
		return respondError(c, h.lg, err, "log in")
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}

type passwordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandlePasswordReset mails a reset link. The response is the same whether
// or not the address is registered.
func (h *AuthHandler) HandlePasswordReset(c *fiber.Ctx) error {
	var req passwordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.authService.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return respondError(c, h.lg, err, "request password reset")
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "If the address is registered, a reset link has been sent.",
	})
}

type passwordResetConfirmRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// HandlePasswordResetConfirm sets a new password from a reset token.
func (h *AuthHandler) HandlePasswordResetConfirm(c *fiber.Ctx) error {
	var req passwordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.authService.ResetPassword(c.UserContext(), req.Token, req.Password); err != nil {
		return respondError(c, h.lg, err, "reset password")
	}
	return c.JSON(fiber.Map{
		"message": "Password updated successfully",
	})
}
