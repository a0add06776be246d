package transfer

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type TopPostResponse struct {
	Caption         string   `json:"caption"`
	Views           int64    `json:"views"`
	Likes           int64    `json:"likes"`
	PostedAt        string   `json:"posted_at"`
	EngagementScore *float64 `json:"engagement_score,omitempty"`
}

type OverviewResponse struct {
	TotalPosts    int             `json:"total_posts"`
	TotalViews    int64           `json:"total_views"`
	TotalLikes    int64           `json:"total_likes"`
	TotalComments int64           `json:"total_comments"`
	TopPost       TopPostResponse `json:"top_post"`
}

type TimelinePoint struct {
	PostedAt        string  `json:"posted_at"`
	Views           int64   `json:"views"`
	Likes           int64   `json:"likes"`
	Comments        int64   `json:"comments"`
	EngagementScore float64 `json:"engagement_score"`
}

type TimeseriesResponse struct {
	Timeline []TimelinePoint `json:"timeline"`
}

type WeekdayTrendItem struct {
	Day           string  `json:"day"`
	AvgEngagement float64 `json:"avg_engagement"`
}

type HourlyTrendItem struct {
	Hour          int     `json:"hour"`
	AvgEngagement float64 `json:"avg_engagement"`
}

type PerformanceResponse struct {
	BestDay       string             `json:"best_day"`
	BestHour      string             `json:"best_hour"`
	TopPost       TopPostResponse    `json:"top_post"`
	WeekdayTrend  []WeekdayTrendItem `json:"weekday_trend"`
	HourlyTrend   []HourlyTrendItem  `json:"hourly_trend"`
	AvgEngagement float64            `json:"avg_engagement"`
}

type BestTimeResponse struct {
	BestDay            string  `json:"best_day"`
	BestHour           string  `json:"best_hour"`
	ExpectedEngagement float64 `json:"expected_engagement"`
}

type SnapshotResponse struct {
	Views      int64  `json:"views"`
	Likes      int64  `json:"likes"`
	Dislikes   int64  `json:"dislikes"`
	Comments   int64  `json:"comments"`
	Shares     int64  `json:"shares"`
	SnapshotAt string `json:"snapshot_at"`
}

type PostHistoryResponse struct {
	PostID         int64              `json:"post_id"`
	PlatformPostID string             `json:"platform_post_id"`
	Title          *string            `json:"title"`
	Caption        *string            `json:"caption"`
	MediaType      string             `json:"media_type"`
	PostedAt       string             `json:"posted_at"`
	Snapshots      []SnapshotResponse `json:"snapshots"`
}

type AccountIngestResult struct {
	Platform          string `json:"platform"`
	AccountID         string `json:"account_id"`
	PostsIngested     int    `json:"posts_ingested"`
	NewPosts          int    `json:"new_posts"`
	Error             string `json:"error,omitempty"`
	ReconnectRequired bool   `json:"reconnect_required,omitempty"`
}

type IngestResponse struct {
	Results []AccountIngestResult `json:"results"`
}

type IngestQueuedResponse struct {
	Queued bool   `json:"queued"`
	TaskID string `json:"task_id"`
}
