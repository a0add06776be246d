package handlers

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/maheshrc27/influence-api/internal/service"
	"github.com/maheshrc27/influence-api/internal/transfer"
)

type PlatformHandler struct {
	ps          service.PlatformService
	frontendURL string
}

func NewPlatformHandler(ps service.PlatformService, frontendURL string) *PlatformHandler {
	return &PlatformHandler{
		ps:          ps,
		frontendURL: frontendURL,
	}
}

// AuthURL returns the provider consent URL for the authenticated user.
func (h *PlatformHandler) AuthURL(c *fiber.Ctx) error {
	authURL, err := h.ps.GetAuthURL(c.UserContext(), GetUserID(c), c.Params("platform"))
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(transfer.AuthURLResponse{AuthURL: authURL})
}

func (h *PlatformHandler) CallbackHandler(c *fiber.Ctx) error {
	platform := c.Params("platform")

	if denied := c.Query("error"); denied != "" {
		slog.Info("oauth consent denied", "platform", platform, "error", denied)
		return errorJSON(c, fiber.StatusBadRequest, "validation_error", "authorization was denied")
	}

	account, err := h.ps.Callback(c.UserContext(), platform, c.Query("code"), c.Query("state"))
	if err != nil {
		return handleError(c, err)
	}

	slog.Info("social account connected", "platform", platform, "user_id", account.UserID)

	redirectURL := fmt.Sprintf("%s/dashboard/accounts?connected=%s", h.frontendURL, url.QueryEscape(platform))
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}

func (h *PlatformHandler) ListSocialAccounts(c *fiber.Ctx) error {
	accounts, err := h.ps.List(c.UserContext(), GetUserID(c))
	if err != nil {
		return handleError(c, err)
	}

	resp := make([]transfer.AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		item := transfer.AccountResponse{
			ID:          acc.ID,
			Platform:    acc.Platform,
			AccountID:   acc.AccountID,
			AccountName: acc.AccountName,
		}
		if acc.TokenExpiresAt != nil {
			expires := formatTime(*acc.TokenExpiresAt)
			item.TokenExpiresAt = &expires
		}
		resp = append(resp, item)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
