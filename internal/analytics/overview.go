package analytics

import (
	"sort"
	"time"
)

type Overview struct {
	HasData       bool
	TotalPosts    int
	TotalViews    int64
	TotalLikes    int64
	TotalComments int64
	// TopPost is the post with the most raw views.
	TopPost *PostMetrics
}

// ComputeOverview sums the counters of all posts and picks the post with the
// highest view count. On ties the first post in input order wins.
func ComputeOverview(posts []PostMetrics) Overview {
	if len(posts) == 0 {
		return Overview{}
	}

	o := Overview{HasData: true, TotalPosts: len(posts)}
	top := 0
	for i, p := range posts {
		o.TotalViews += p.Views
		o.TotalLikes += p.Likes
		o.TotalComments += p.Comments
		if p.Views > posts[top].Views {
			top = i
		}
	}

	topPost := posts[top]
	o.TopPost = &topPost
	return o
}

type Point struct {
	PostID     int64
	PostedAt   time.Time
	Views      int64
	Likes      int64
	Comments   int64
	Engagement float64
}

type Timeseries struct {
	HasData bool
	Points  []Point
}

// ComputeTimeseries returns one point per post ordered by posting time.
// The sort is stable, so posts sharing a timestamp keep their input order.
func ComputeTimeseries(posts []PostMetrics) Timeseries {
	if len(posts) == 0 {
		return Timeseries{}
	}

	points := make([]Point, 0, len(posts))
	for _, p := range posts {
		points = append(points, Point{
			PostID:     p.PostID,
			PostedAt:   p.PostedAt,
			Views:      p.Views,
			Likes:      p.Likes,
			Comments:   p.Comments,
			Engagement: p.Engagement(),
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].PostedAt.Before(points[j].PostedAt)
	})

	return Timeseries{HasData: true, Points: points}
}
