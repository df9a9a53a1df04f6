package middleware

import (
	"strconv"
	"strings"

	"mystical-alchemist/backend-api/internal/services/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	// UserIDKey is the key used to store the user ID in Fiber's locals.
	UserIDKey = "user_id"
	// ClaimsKey is the key used to store JWT claims in Fiber's locals.
	ClaimsKey = "claims"
)

// AuthMiddleware creates a middleware that validates bearer tokens. Every
// authenticated operation passes through here, so tokens are re-verified on
// each request with no caching of validation results.
func AuthMiddleware(authService auth.Service, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.Debug("missing Authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "No token provided",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			logger.Debug("malformed Authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "No token provided",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			logger.Debug("token validation failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid token",
			})
		}

		userID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			logger.Debug("invalid user ID in token", zap.String("subject", claims.Subject), zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid token",
			})
		}

		c.Locals(UserIDKey, userID)
		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

// GetUserID retrieves the authenticated user ID from Fiber's locals.
func GetUserID(c *fiber.Ctx) (int64, bool) {
	userID, ok := c.Locals(UserIDKey).(int64)
	return userID, ok
}

// GetClaims retrieves JWT claims from Fiber's locals.
func GetClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(ClaimsKey).(*auth.Claims)
	return claims, ok
}
