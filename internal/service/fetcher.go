package service

import (
	"context"
	"errors"

	"github.com/maheshrc27/influence-api/internal/models"
	"github.com/maheshrc27/influence-api/internal/transfer"
)

// PlatformFetcher reads posts and their counters from one platform API.
type PlatformFetcher interface {
	ListRecentPosts(ctx context.Context, account *models.SocialAccount, token string) ([]transfer.RawPost, error)
	FetchEngagement(ctx context.Context, account *models.SocialAccount, token string, postIDs []string) (map[string]transfer.RawCounters, error)
}

func errMissingKey(key string) error {
	return errors.New("response has no " + key + " field")
}
