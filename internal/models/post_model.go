package models

import "time"

type Post struct {
	ID             int64     `db:"id" json:"id"`
	AccountID      int64     `db:"account_id" json:"account_id"`
	PlatformPostID string    `db:"platform_post_id" json:"platform_post_id"`
	Title          *string   `db:"title" json:"title,omitempty"`
	Caption        *string   `db:"caption" json:"caption,omitempty"`
	MediaType      string    `db:"media_type" json:"media_type"`
	PostedAt       time.Time `db:"posted_at" json:"posted_at"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

const (
	MediaTypeVideo    = "VIDEO"
	MediaTypeImage    = "IMAGE"
	MediaTypeCarousel = "CAROUSEL_ALBUM"
)
