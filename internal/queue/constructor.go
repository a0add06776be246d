package queue

import (
	"github.com/maheshrc27/influence-api/internal/service"
)

type Queue struct {
	ingest service.IngestService
}

func NewQueue(ingest service.IngestService) *Queue {
	return &Queue{
		ingest: ingest,
	}
}

const TaskTypeIngestUser = "ingest:user"

type IngestUserPayload struct {
	UserID   int64  `json:"user_id"`
	Platform string `json:"platform"`
}
