package models

import "time"

// PostAnalytics is one point-in-time snapshot of a post's counters.
// Snapshots are append-only; a post accumulates one per ingestion run.
type PostAnalytics struct {
	ID         int64     `db:"id" json:"id"`
	PostID     int64     `db:"post_id" json:"post_id"`
	Views      int64     `db:"views" json:"views"`
	Likes      int64     `db:"likes" json:"likes"`
	Dislikes   int64     `db:"dislikes" json:"dislikes"`
	Comments   int64     `db:"comments" json:"comments"`
	Shares     int64     `db:"shares" json:"shares"`
	SnapshotAt time.Time `db:"snapshot_at" json:"snapshot_at"`
}

// PostWithLatestAnalytics joins a post with its most recent snapshot.
type PostWithLatestAnalytics struct {
	Post
	Platform string `db:"platform" json:"platform"`
	Latest   PostAnalytics
}
