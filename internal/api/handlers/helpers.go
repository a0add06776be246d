package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/maheshrc27/influence-api/internal/analytics"
	"github.com/maheshrc27/influence-api/internal/service"
	"github.com/maheshrc27/influence-api/internal/transfer"
)

// UserIDKey is the fiber local holding the authenticated user id.
const UserIDKey = "user_id"

func GetUserID(c *fiber.Ctx) int64 {
	userID, _ := c.Locals(UserIDKey).(int64)
	return userID
}

func paramInt64(c *fiber.Ctx, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || v <= 0 {
		return 0, &service.ValidationError{Field: name, Message: fmt.Sprintf("%s must be a positive integer", name)}
	}
	return v, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatHour(h int) string {
	return fmt.Sprintf("%d:00", h)
}

func errorJSON(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(transfer.ErrorResponse{Error: code, Message: message})
}

// handleError writes the response for a service error.
func handleError(c *fiber.Ctx, err error) error {
	var (
		validationErr *service.ValidationError
		credentialErr *service.CredentialExpiredError
		fetchErr      *service.UpstreamFetchError
	)

	switch {
	case errors.As(err, &validationErr):
		return errorJSON(c, fiber.StatusBadRequest, "validation_error", validationErr.Error())
	case errors.As(err, &credentialErr):
		return errorJSON(c, fiber.StatusUnauthorized, "reconnect_required", credentialErr.Error())
	case errors.As(err, &fetchErr):
		return errorJSON(c, fiber.StatusBadGateway, "upstream_error", fetchErr.Error())
	case errors.Is(err, analytics.ErrNoAnalyticsData):
		return errorJSON(c, fiber.StatusNotFound, analytics.ErrNoAnalyticsData.Error(), "")
	case errors.Is(err, service.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return errorJSON(c, fiber.StatusUnauthorized, "invalid_credentials", err.Error())
	default:
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "internal_error", "")
	}
}

// ErrorHandler is the fiber fallback for errors returned by handlers and
// middleware.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return errorJSON(c, fe.Code, fe.Message, "")
	}
	return handleError(c, err)
}
