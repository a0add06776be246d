package transfer

import "time"

// RawPost is a post as listed by a platform, before it is stored.
type RawPost struct {
	PlatformPostID string
	Title          *string
	Caption        *string
	MediaType      string
	PostedAt       time.Time
}

// RawCounters are the engagement counters a platform reports for one post.
type RawCounters struct {
	Views    int64
	Likes    int64
	Dislikes int64
	Comments int64
	Shares   int64
}

type GoogleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}
