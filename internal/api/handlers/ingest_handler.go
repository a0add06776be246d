package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maheshrc27/influence-api/internal/queue"
	"github.com/maheshrc27/influence-api/internal/service"
	"github.com/maheshrc27/influence-api/internal/transfer"
)

type IngestHandler struct {
	s        service.IngestService
	enqueuer queue.TaskEnqueuer
}

// NewIngestHandler builds the ingestion trigger. enqueuer may be nil, in
// which case async requests are refused.
func NewIngestHandler(s service.IngestService, enqueuer queue.TaskEnqueuer) *IngestHandler {
	return &IngestHandler{s: s, enqueuer: enqueuer}
}

// Ingest runs ingestion for one platform or, with "all", every connected
// account. A single-platform run reports its failure as the response status;
// an "all" run always answers 200 with per-account results.
func (h *IngestHandler) Ingest(c *fiber.Ctx) error {
	userID, err := paramInt64(c, "userID")
	if err != nil {
		return handleError(c, err)
	}

	platform, err := service.ParsePlatform(c.Params("platform"), true)
	if err != nil {
		return handleError(c, err)
	}

	if c.QueryBool("async") {
		if h.enqueuer == nil {
			return errorJSON(c, fiber.StatusServiceUnavailable, "queue_unavailable", "async ingestion is not configured")
		}
		taskID, err := queue.EnqueueIngest(c.UserContext(), h.enqueuer, queue.IngestUserPayload{UserID: userID, Platform: c.Params("platform")})
		if err != nil {
			return handleError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(transfer.IngestQueuedResponse{Queued: true, TaskID: taskID})
	}

	results, err := h.s.IngestUser(c.UserContext(), userID, platform)
	if err != nil {
		return handleError(c, err)
	}

	if platform != "" && len(results) == 1 && results[0].Err != nil {
		return handleError(c, results[0].Err)
	}

	resp := transfer.IngestResponse{Results: make([]transfer.AccountIngestResult, 0, len(results))}
	for _, r := range results {
		resp.Results = append(resp.Results, transfer.AccountIngestResult{
			Platform:          r.Platform,
			AccountID:         r.AccountID,
			PostsIngested:     r.PostsIngested,
			NewPosts:          r.NewPosts,
			Error:             r.Error,
			ReconnectRequired: r.ReconnectRequired,
		})
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
