// Package analytics derives overview totals, engagement timeseries and
// best-day / best-hour insights from posts paired with their latest
// analytics snapshot.
//
// Every function here is pure: it takes the rows already loaded from the
// store and never performs I/O. Input order matters only for tie-breaking,
// and callers are expected to pass rows ordered by ascending post id.
package analytics

import (
	"errors"
	"time"
)

// ErrNoAnalyticsData is returned by computations that need at least one post
// with analytics to produce a meaningful answer.
var ErrNoAnalyticsData = errors.New("no analytics data")

// PostMetrics is a post joined with the counters of its latest snapshot.
type PostMetrics struct {
	PostID   int64
	Platform string
	Title    string
	Caption  string
	PostedAt time.Time
	Views    int64
	Likes    int64
	Comments int64
	Shares   int64
	Dislikes int64
}

// Engagement returns (likes + comments) / max(views, 1).
func Engagement(likes, comments, views int64) float64 {
	denominator := views
	if denominator < 1 {
		denominator = 1
	}
	return float64(likes+comments) / float64(denominator)
}

// Engagement returns the engagement score of the post.
func (p PostMetrics) Engagement() float64 {
	return Engagement(p.Likes, p.Comments, p.Views)
}

// Label is the display name of the post: the title when present, the caption otherwise.
func (p PostMetrics) Label() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Caption
}
