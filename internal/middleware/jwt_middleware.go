package middleware

import (
	"strings"

	"foodspot/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TokenValidator checks a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (jwt.MapClaims, error)
}

var _ TokenValidator = (*services.AuthService)(nil)

const (
	localUserID   = "user_id"
	localUsername = "username"
	localIsAdmin  = "is_admin"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(validator TokenValidator, lg *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			lg.Debug("JWT validation failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		userID, _ := claims["user_id"].(string)
		username, _ := claims["username"].(string)
		isAdmin, _ := claims["is_admin"].(bool)
		c.Locals(localUserID, userID)
		c.Locals(localUsername, username)
		c.Locals(localIsAdmin, isAdmin)

		return c.Next()
	}
}

// AdminRequired rejects authenticated users without the admin flag. It must
// run after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isAdmin, _ := c.Locals(localIsAdmin).(bool); !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Administrator access required",
			})
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's ID stored by AuthRequired.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}
