package service

import (
	"context"
	"fmt"

	"github.com/maheshrc27/influence-api/internal/analytics"
	"github.com/maheshrc27/influence-api/internal/models"
	"github.com/maheshrc27/influence-api/internal/repository"
)

// AnalyticsService loads a user's posts with their latest snapshot and runs
// the aggregation functions over them. It never calls platform APIs.
type AnalyticsService interface {
	Overview(ctx context.Context, userID int64) (analytics.Overview, error)
	Timeseries(ctx context.Context, userID int64) (analytics.Timeseries, error)
	Performance(ctx context.Context, userID int64) (*analytics.Insights, error)
	BestTime(ctx context.Context, userID int64) (*analytics.Prediction, error)
	PostHistory(ctx context.Context, userID, postID int64) (*PostHistory, error)
}

// PostHistory is one post with every snapshot taken of it, oldest first.
type PostHistory struct {
	Post      *models.Post
	Snapshots []*models.PostAnalytics
}

type analyticsService struct {
	posts     repository.PostRepository
	snapshots repository.PostAnalyticsRepository
}

func NewAnalyticsService(posts repository.PostRepository, snapshots repository.PostAnalyticsRepository) AnalyticsService {
	return &analyticsService{posts: posts, snapshots: snapshots}
}

func (s *analyticsService) load(ctx context.Context, userID int64) ([]analytics.PostMetrics, error) {
	rows, err := s.snapshots.ListLatestByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	posts := make([]analytics.PostMetrics, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, analytics.PostMetrics{
			PostID:   row.ID,
			Platform: row.Platform,
			Title:    deref(row.Title),
			Caption:  deref(row.Caption),
			PostedAt: row.PostedAt,
			Views:    row.Latest.Views,
			Likes:    row.Latest.Likes,
			Comments: row.Latest.Comments,
			Shares:   row.Latest.Shares,
			Dislikes: row.Latest.Dislikes,
		})
	}
	return posts, nil
}

func (s *analyticsService) Overview(ctx context.Context, userID int64) (analytics.Overview, error) {
	posts, err := s.load(ctx, userID)
	if err != nil {
		return analytics.Overview{}, err
	}
	return analytics.ComputeOverview(posts), nil
}

func (s *analyticsService) Timeseries(ctx context.Context, userID int64) (analytics.Timeseries, error) {
	posts, err := s.load(ctx, userID)
	if err != nil {
		return analytics.Timeseries{}, err
	}
	return analytics.ComputeTimeseries(posts), nil
}

func (s *analyticsService) Performance(ctx context.Context, userID int64) (*analytics.Insights, error) {
	posts, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analytics.ComputeInsights(posts)
}

func (s *analyticsService) BestTime(ctx context.Context, userID int64) (*analytics.Prediction, error) {
	posts, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analytics.PredictBestTime(posts)
}

func (s *analyticsService) PostHistory(ctx context.Context, userID, postID int64) (*PostHistory, error) {
	owned, err := s.posts.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, fmt.Errorf("post %d: %w", postID, ErrNotFound)
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("post %d: %w", postID, ErrNotFound)
	}

	snapshots, err := s.snapshots.ListByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &PostHistory{Post: post, Snapshots: snapshots}, nil
}
