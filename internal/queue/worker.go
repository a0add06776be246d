package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"

	"github.com/maheshrc27/influence-api/internal/service"
)

// HandleIngestUserTask runs a queued ingestion. Per-account failures are only
// logged; the task is retried when the run as a whole could not start.
func (q *Queue) HandleIngestUserTask(ctx context.Context, task *asynq.Task) error {
	var payload IngestUserPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}

	results, err := q.ingest.IngestUser(ctx, payload.UserID, payload.Platform)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) || errors.Is(err, service.ErrNotFound) {
			slog.Warn("dropping ingestion task", "user_id", payload.UserID, "platform", payload.Platform, "error", err)
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	slog.Info("queued ingestion finished", "user_id", payload.UserID, "platform", payload.Platform,
		"accounts", len(results), "failed", failed)

	return nil
}
