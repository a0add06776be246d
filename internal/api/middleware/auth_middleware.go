package middleware

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/maheshrc27/influence-api/internal/api/handlers"
	"github.com/maheshrc27/influence-api/internal/transfer"
	"github.com/maheshrc27/influence-api/pkg/utils"
)

type AuthMiddleware struct {
	secretKey string
}

func NewAuthMiddleware(secretKey string) *AuthMiddleware {
	return &AuthMiddleware{secretKey: secretKey}
}

// AuthMiddleware requires an "Authorization: Bearer <jwt>" header and stores
// the token's user id in the request locals.
func (m *AuthMiddleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(transfer.ErrorResponse{
				Error: "missing bearer token",
			})
		}

		claims, err := utils.ValidateToken(m.secretKey, strings.TrimSpace(tokenString))
		if err != nil {
			slog.Debug("token validation failed", "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(transfer.ErrorResponse{
				Error: "invalid or expired token",
			})
		}

		c.Locals(handlers.UserIDKey, claims.UserID)
		return c.Next()
	}
}

// RequireSelf rejects requests whose :userID path parameter names a user
// other than the authenticated one.
func (m *AuthMiddleware) RequireSelf() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := strconv.ParseInt(c.Params("userID"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(transfer.ErrorResponse{
				Error: "validation_error", Message: "userID must be a positive integer",
			})
		}
		if userID != handlers.GetUserID(c) {
			return c.Status(fiber.StatusForbidden).JSON(transfer.ErrorResponse{
				Error: "forbidden",
			})
		}
		return c.Next()
	}
}
