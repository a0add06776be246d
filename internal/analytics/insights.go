package analytics

import (
	"sort"
)

type DayTrend struct {
	Day           string
	AvgEngagement float64
}

type HourTrend struct {
	Hour          int
	AvgEngagement float64
}

type Insights struct {
	BestDay  string
	BestHour int
	// TopPost is the post with the highest engagement score, which is not
	// necessarily the most viewed one.
	TopPost           PostMetrics
	TopPostEngagement float64
	WeekdayTrend      []DayTrend
	HourlyTrend       []HourTrend
	AvgEngagement     float64
}

// ComputeInsights groups engagement scores by UTC weekday and hour of day.
//
// The best day and best hour are the groups with the highest mean
// engagement; ties go to the group that first appeared in the input. Trends
// are sorted by key: weekday names alphabetically, hours numerically.
// It returns ErrNoAnalyticsData when posts is empty.
func ComputeInsights(posts []PostMetrics) (*Insights, error) {
	if len(posts) == 0 {
		return nil, ErrNoAnalyticsData
	}

	days := newMeanGroups[string]()
	hours := newMeanGroups[int]()

	var total float64
	top := 0
	topScore := posts[0].Engagement()

	for i, p := range posts {
		score := p.Engagement()
		total += score
		if score > topScore {
			top, topScore = i, score
		}

		posted := p.PostedAt.UTC()
		days.add(posted.Weekday().String(), score)
		hours.add(posted.Hour(), score)
	}

	bestDay, _ := days.best()
	bestHour, _ := hours.best()

	weekdayTrend := make([]DayTrend, 0, len(days.order))
	for _, day := range days.order {
		weekdayTrend = append(weekdayTrend, DayTrend{Day: day, AvgEngagement: days.mean(day)})
	}
	sort.Slice(weekdayTrend, func(i, j int) bool {
		return weekdayTrend[i].Day < weekdayTrend[j].Day
	})

	hourlyTrend := make([]HourTrend, 0, len(hours.order))
	for _, hour := range hours.order {
		hourlyTrend = append(hourlyTrend, HourTrend{Hour: hour, AvgEngagement: hours.mean(hour)})
	}
	sort.Slice(hourlyTrend, func(i, j int) bool {
		return hourlyTrend[i].Hour < hourlyTrend[j].Hour
	})

	return &Insights{
		BestDay:           bestDay,
		BestHour:          bestHour,
		TopPost:           posts[top],
		TopPostEngagement: topScore,
		WeekdayTrend:      weekdayTrend,
		HourlyTrend:       hourlyTrend,
		AvgEngagement:     total / float64(len(posts)),
	}, nil
}
