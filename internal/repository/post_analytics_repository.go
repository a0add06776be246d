package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/influence-api/internal/models"
)

type PostAnalyticsRepository interface {
	Create(ctx context.Context, pa *models.PostAnalytics) (int64, error)
	ListLatestByUserID(ctx context.Context, userID int64) ([]*models.PostWithLatestAnalytics, error)
	ListByPostID(ctx context.Context, postID int64) ([]*models.PostAnalytics, error)
}

type postAnalyticsRepository struct {
	db *sql.DB
}

func NewPostAnalyticsRepository(db *sql.DB) PostAnalyticsRepository {
	return &postAnalyticsRepository{db: db}
}

func (r *postAnalyticsRepository) Create(ctx context.Context, pa *models.PostAnalytics) (int64, error) {
	query := `
		INSERT INTO post_analytics (post_id, views, likes, dislikes, comments, shares, snapshot_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		pa.PostID, pa.Views, pa.Likes, pa.Dislikes, pa.Comments, pa.Shares, pa.SnapshotAt,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

// ListLatestByUserID joins every post of every account the user owns with
// that post's most recent snapshot. Posts without any snapshot are skipped.
// Rows come back ordered by post id so callers get a stable input order.
func (r *postAnalyticsRepository) ListLatestByUserID(ctx context.Context, userID int64) ([]*models.PostWithLatestAnalytics, error) {
	query := `
		SELECT
			p.id, p.account_id, p.platform_post_id, p.title, p.caption, p.media_type, p.posted_at, p.created_at,
			sa.platform,
			pa.id, pa.post_id, pa.views, pa.likes, pa.dislikes, pa.comments, pa.shares, pa.snapshot_at
		FROM posts p
		JOIN social_accounts sa ON sa.id = p.account_id
		JOIN LATERAL (
			SELECT id, post_id, views, likes, dislikes, comments, shares, snapshot_at
			FROM post_analytics
			WHERE post_id = p.id
			ORDER BY snapshot_at DESC, id DESC
			LIMIT 1
		) pa ON TRUE
		WHERE sa.user_id = $1
		ORDER BY p.id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var result []*models.PostWithLatestAnalytics
	for rows.Next() {
		var row models.PostWithLatestAnalytics
		err := rows.Scan(
			&row.ID, &row.AccountID, &row.PlatformPostID, &row.Title, &row.Caption, &row.MediaType, &row.PostedAt, &row.CreatedAt,
			&row.Platform,
			&row.Latest.ID, &row.Latest.PostID, &row.Latest.Views, &row.Latest.Likes, &row.Latest.Dislikes,
			&row.Latest.Comments, &row.Latest.Shares, &row.Latest.SnapshotAt,
		)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		result = append(result, &row)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return result, nil
}

func (r *postAnalyticsRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.PostAnalytics, error) {
	query := `
		SELECT id, post_id, views, likes, dislikes, comments, shares, snapshot_at
		FROM post_analytics
		WHERE post_id = $1
		ORDER BY snapshot_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var snapshots []*models.PostAnalytics
	for rows.Next() {
		var pa models.PostAnalytics
		if err := rows.Scan(&pa.ID, &pa.PostID, &pa.Views, &pa.Likes, &pa.Dislikes, &pa.Comments, &pa.Shares, &pa.SnapshotAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		snapshots = append(snapshots, &pa)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return snapshots, nil
}
