package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
)

const (
	ingestMaxRetry = 3
	ingestTimeout  = 5 * time.Minute
)

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func NewIngestTask(payload IngestUserPayload) (*asynq.Task, error) {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeIngestUser, taskPayload), nil
}

// EnqueueIngest schedules an ingestion run for the user and returns the task id.
func EnqueueIngest(ctx context.Context, client TaskEnqueuer, payload IngestUserPayload) (string, error) {
	task, err := NewIngestTask(payload)
	if err != nil {
		return "", err
	}

	info, err := client.EnqueueContext(ctx, task, asynq.MaxRetry(ingestMaxRetry), asynq.Timeout(ingestTimeout))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	slog.Info("ingestion task queued", "task_id", info.ID, "user_id", payload.UserID, "platform", payload.Platform)
	return info.ID, nil
}
