package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maheshrc27/influence-api/internal/analytics"
	"github.com/maheshrc27/influence-api/internal/service"
	"github.com/maheshrc27/influence-api/internal/transfer"
)

// AnalyticsHandler serves the read-only analytics queries.
//
// Overview and timeseries answer 200 with a {"message":"no analytics data"}
// marker when the user has no data; performance and best-time answer 404.
type AnalyticsHandler struct {
	s service.AnalyticsService
}

func NewAnalyticsHandler(s service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{s: s}
}

func noDataMarker(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(transfer.MessageResponse{Message: analytics.ErrNoAnalyticsData.Error()})
}

func topPostResponse(p analytics.PostMetrics) transfer.TopPostResponse {
	return transfer.TopPostResponse{
		Caption:  p.Label(),
		Views:    p.Views,
		Likes:    p.Likes,
		PostedAt: formatTime(p.PostedAt),
	}
}

func (h *AnalyticsHandler) Overview(c *fiber.Ctx) error {
	userID, err := paramInt64(c, "userID")
	if err != nil {
		return handleError(c, err)
	}

	ov, err := h.s.Overview(c.UserContext(), userID)
	if err != nil {
		return handleError(c, err)
	}
	if !ov.HasData {
		return noDataMarker(c)
	}

	return c.Status(fiber.StatusOK).JSON(transfer.OverviewResponse{
		TotalPosts:    ov.TotalPosts,
		TotalViews:    ov.TotalViews,
		TotalLikes:    ov.TotalLikes,
		TotalComments: ov.TotalComments,
		TopPost:       topPostResponse(*ov.TopPost),
	})
}

func (h *AnalyticsHandler) Timeseries(c *fiber.Ctx) error {
	userID, err := paramInt64(c, "userID")
	if err != nil {
		return handleError(c, err)
	}

	ts, err := h.s.Timeseries(c.UserContext(), userID)
	if err != nil {
		return handleError(c, err)
	}
	if !ts.HasData {
		return noDataMarker(c)
	}

	timeline := make([]transfer.TimelinePoint, 0, len(ts.Points))
	for _, p := range ts.Points {
		timeline = append(timeline, transfer.TimelinePoint{
			PostedAt:        formatTime(p.PostedAt),
			Views:           p.Views,
			Likes:           p.Likes,
			Comments:        p.Comments,
			EngagementScore: round(p.Engagement, 4),
		})
	}

	return c.Status(fiber.StatusOK).JSON(transfer.TimeseriesResponse{Timeline: timeline})
}

func (h *AnalyticsHandler) Performance(c *fiber.Ctx) error {
	userID, err := paramInt64(c, "userID")
	if err != nil {
		return handleError(c, err)
	}

	insights, err := h.s.Performance(c.UserContext(), userID)
	if err != nil {
		return handleError(c, err)
	}

	top := topPostResponse(insights.TopPost)
	score := round(insights.TopPostEngagement, 4)
	top.EngagementScore = &score

	weekdays := make([]transfer.WeekdayTrendItem, 0, len(insights.WeekdayTrend))
	for _, d := range insights.WeekdayTrend {
		weekdays = append(weekdays, transfer.WeekdayTrendItem{Day: d.Day, AvgEngagement: round(d.AvgEngagement, 4)})
	}
	hours := make([]transfer.HourlyTrendItem, 0, len(insights.HourlyTrend))
	for _, hr := range insights.HourlyTrend {
		hours = append(hours, transfer.HourlyTrendItem{Hour: hr.Hour, AvgEngagement: round(hr.AvgEngagement, 4)})
	}

	return c.Status(fiber.StatusOK).JSON(transfer.PerformanceResponse{
		BestDay:       insights.BestDay,
		BestHour:      formatHour(insights.BestHour),
		TopPost:       top,
		WeekdayTrend:  weekdays,
		HourlyTrend:   hours,
		AvgEngagement: round(insights.AvgEngagement, 4),
	})
}

func (h *AnalyticsHandler) BestTime(c *fiber.Ctx) error {
	userID, err := paramInt64(c, "userID")
	if err != nil {
		return handleError(c, err)
	}

	prediction, err := h.s.BestTime(c.UserContext(), userID)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(transfer.BestTimeResponse{
		BestDay:            prediction.BestDay,
		BestHour:           formatHour(prediction.BestHour),
		ExpectedEngagement: round(prediction.ExpectedEngagement, 2),
	})
}

func (h *AnalyticsHandler) PostHistory(c *fiber.Ctx) error {
	userID, err := paramInt64(c, "userID")
	if err != nil {
		return handleError(c, err)
	}
	postID, err := paramInt64(c, "postID")
	if err != nil {
		return handleError(c, err)
	}

	history, err := h.s.PostHistory(c.UserContext(), userID, postID)
	if err != nil {
		return handleError(c, err)
	}

	post := history.Post
	resp := transfer.PostHistoryResponse{
		PostID:         post.ID,
		PlatformPostID: post.PlatformPostID,
		Title:          post.Title,
		Caption:        post.Caption,
		MediaType:      post.MediaType,
		PostedAt:       formatTime(post.PostedAt),
		Snapshots:      make([]transfer.SnapshotResponse, 0, len(history.Snapshots)),
	}
	for _, s := range history.Snapshots {
		resp.Snapshots = append(resp.Snapshots, transfer.SnapshotResponse{
			Views:      s.Views,
			Likes:      s.Likes,
			Dislikes:   s.Dislikes,
			Comments:   s.Comments,
			Shares:     s.Shares,
			SnapshotAt: formatTime(s.SnapshotAt),
		})
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
