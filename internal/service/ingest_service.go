package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/influence-api/internal/metrics"
	"github.com/maheshrc27/influence-api/internal/models"
	"github.com/maheshrc27/influence-api/internal/repository"
	"github.com/maheshrc27/influence-api/internal/transfer"
)

type IngestResult struct {
	PostsIngested     int
	NewPosts          int
	SnapshotsAppended int
}

// AccountResult is the outcome of ingesting one account in a batch.
type AccountResult struct {
	Platform          string
	AccountID         string
	PostsIngested     int
	NewPosts          int
	Error             string
	ReconnectRequired bool
	// Err is the failure behind Error, kept for status mapping.
	Err error
}

type IngestService interface {
	// Ingest pulls the recent posts of one account and appends a snapshot
	// of their counters. Writes are not transactional: posts stored before
	// a failure stay stored.
	Ingest(ctx context.Context, account *models.SocialAccount) (*IngestResult, error)
	// IngestUser ingests the user's account on platform, or every connected
	// account when platform is "" or "all". Per-account failures are
	// reported in the results and never stop the remaining accounts.
	IngestUser(ctx context.Context, userID int64, platform string) ([]AccountResult, error)
}

type ingestService struct {
	store     TokenStore
	refresher TokenRefresher
	fetchers  map[string]PlatformFetcher
	posts     repository.PostRepository
	snapshots repository.PostAnalyticsRepository
	archiver  Archiver
	now       func() time.Time
}

func NewIngestService(
	store TokenStore,
	refresher TokenRefresher,
	fetchers map[string]PlatformFetcher,
	posts repository.PostRepository,
	snapshots repository.PostAnalyticsRepository,
	archiver Archiver,
) IngestService {
	if archiver == nil {
		archiver = NewNoopArchiver()
	}
	return &ingestService{
		store:     store,
		refresher: refresher,
		fetchers:  fetchers,
		posts:     posts,
		snapshots: snapshots,
		archiver:  archiver,
		now:       time.Now,
	}
}

type rawIngestPayload struct {
	AccountID string                          `json:"account_id"`
	FetchedAt time.Time                       `json:"fetched_at"`
	Posts     []transfer.RawPost              `json:"posts"`
	Counters  map[string]transfer.RawCounters `json:"counters"`
}

func (s *ingestService) Ingest(ctx context.Context, account *models.SocialAccount) (*IngestResult, error) {
	fetcher, ok := s.fetchers[account.Platform]
	if !ok {
		return nil, newValidationError("platform", fmt.Sprintf("ingestion is not supported for %s", account.Platform))
	}

	token, err := s.refresher.EnsureValid(ctx, account)
	if err != nil {
		return nil, err
	}

	rawPosts, err := fetcher.ListRecentPosts(ctx, account, token)
	if err != nil {
		return nil, err
	}

	result := &IngestResult{}
	postIDs := make(map[string]int64, len(rawPosts))
	platformIDs := make([]string, 0, len(rawPosts))

	for _, raw := range rawPosts {
		id, inserted, err := s.posts.Upsert(ctx, &models.Post{
			AccountID:      account.ID,
			PlatformPostID: raw.PlatformPostID,
			Title:          raw.Title,
			Caption:        raw.Caption,
			MediaType:      raw.MediaType,
			PostedAt:       raw.PostedAt,
		})
		if err != nil {
			return result, fmt.Errorf("store post %s: %w", raw.PlatformPostID, err)
		}

		if _, seen := postIDs[raw.PlatformPostID]; !seen {
			platformIDs = append(platformIDs, raw.PlatformPostID)
			result.PostsIngested++
			if inserted {
				result.NewPosts++
			}
		}
		postIDs[raw.PlatformPostID] = id
	}

	counters, err := fetcher.FetchEngagement(ctx, account, token, platformIDs)
	if err != nil {
		return result, err
	}

	now := s.now().UTC()
	for _, platformID := range platformIDs {
		c, ok := counters[platformID]
		if !ok {
			slog.Warn("platform returned no counters for post", "platform", account.Platform, "post", platformID)
			continue
		}

		_, err := s.snapshots.Create(ctx, &models.PostAnalytics{
			PostID:     postIDs[platformID],
			Views:      c.Views,
			Likes:      c.Likes,
			Dislikes:   c.Dislikes,
			Comments:   c.Comments,
			Shares:     c.Shares,
			SnapshotAt: now,
		})
		if err != nil {
			return result, fmt.Errorf("store snapshot for post %s: %w", platformID, err)
		}
		result.SnapshotsAppended++
	}

	payload := rawIngestPayload{AccountID: account.AccountID, FetchedAt: now, Posts: rawPosts, Counters: counters}
	if key, err := s.archiver.Archive(ctx, account.Platform, account.AccountID, now, payload); err != nil {
		slog.Warn("failed to archive raw payload", "platform", account.Platform, "account_id", account.AccountID, "error", err)
	} else if key != "" {
		slog.Debug("archived raw payload", "key", key)
	}

	return result, nil
}

func (s *ingestService) IngestUser(ctx context.Context, userID int64, platform string) ([]AccountResult, error) {
	platform, err := ParsePlatform(platform, true)
	if err != nil {
		return nil, err
	}

	var accounts []*models.SocialAccount
	if platform == "" {
		accounts, err = s.store.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
	} else {
		account, err := s.store.Get(ctx, userID, platform)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, fmt.Errorf("no %s account connected: %w", platform, ErrNotFound)
		}
		accounts = []*models.SocialAccount{account}
	}

	results := make([]AccountResult, 0, len(accounts))
	for _, account := range accounts {
		res, err := s.Ingest(ctx, account)

		r := AccountResult{Platform: account.Platform, AccountID: account.AccountID}
		if res != nil {
			r.PostsIngested = res.PostsIngested
			r.NewPosts = res.NewPosts
		}

		status := "ok"
		if err != nil {
			r.Err = err
			r.Error = err.Error()
			r.ReconnectRequired = IsReconnectRequired(err)
			status = ingestStatus(err)
			slog.Warn("ingestion failed", "user_id", userID, "platform", account.Platform, "account_id", account.AccountID, "error", err)
		} else {
			slog.Info("ingestion finished", "user_id", userID, "platform", account.Platform, "account_id", account.AccountID,
				"posts", res.PostsIngested, "new_posts", res.NewPosts, "snapshots", res.SnapshotsAppended)
		}
		metrics.RecordIngest(account.Platform, status, r.PostsIngested)

		results = append(results, r)
	}

	return results, nil
}

func ingestStatus(err error) string {
	var fetchErr *UpstreamFetchError
	var validationErr *ValidationError
	switch {
	case IsReconnectRequired(err):
		return "reconnect_required"
	case errors.As(err, &fetchErr):
		return "upstream_error"
	case errors.As(err, &validationErr):
		return "unsupported"
	default:
		return "error"
	}
}
