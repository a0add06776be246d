package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/maheshrc27/influence-api/internal/models"
)

type PostRepository interface {
	Upsert(ctx context.Context, post *models.Post) (id int64, inserted bool, err error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	CheckByUserID(ctx context.Context, postID, userID int64) (bool, error)
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

// Upsert inserts a post the first time its platform id is seen for the
// account. On conflict the stored identity fields are left untouched and the
// existing id is returned.
func (r *postRepository) Upsert(ctx context.Context, post *models.Post) (int64, bool, error) {
	query := `
		INSERT INTO posts (account_id, platform_post_id, title, caption, media_type, posted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (account_id, platform_post_id) DO UPDATE
		SET account_id = posts.account_id
		RETURNING id, (xmax = 0) AS inserted
	`

	var id int64
	var inserted bool
	err := r.db.QueryRowContext(ctx, query,
		post.AccountID,
		post.PlatformPostID,
		post.Title,
		post.Caption,
		post.MediaType,
		post.PostedAt,
	).Scan(&id, &inserted)
	if err != nil {
		slog.Info(err.Error())
		return 0, false, err
	}

	return id, inserted, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT id, account_id, platform_post_id, title, caption, media_type, posted_at, created_at FROM posts WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var post models.Post
	err := row.Scan(&post.ID, &post.AccountID, &post.PlatformPostID, &post.Title, &post.Caption, &post.MediaType, &post.PostedAt, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &post, nil
}

func (r *postRepository) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	query := `
		SELECT 1 FROM posts p
		JOIN social_accounts sa ON sa.id = p.account_id
		WHERE p.id = $1 AND sa.user_id = $2
	`

	var result int
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}
