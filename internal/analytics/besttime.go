package analytics

import "time"

// weekOrder is the scan order used when picking the best slot.
var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

type Prediction struct {
	BestDay            string
	BestHour           int
	ExpectedEngagement float64
}

// PredictBestTime scores every weekday and hour slot with an additive
// main-effects model
//
//	expected(d, h) = mean + (dayMean(d) - mean) + (hourMean(h) - mean)
//
// where the means are engagement averages over the posts published in that
// weekday or hour (UTC). Slots never posted in contribute a zero effect.
// Candidates are scanned Monday..Sunday and 0..23; the first maximum wins.
// Expected engagement is never negative.
func PredictBestTime(posts []PostMetrics) (*Prediction, error) {
	if len(posts) == 0 {
		return nil, ErrNoAnalyticsData
	}

	days := newMeanGroups[time.Weekday]()
	hours := newMeanGroups[int]()
	var total float64
	for _, p := range posts {
		score := p.Engagement()
		posted := p.PostedAt.UTC()
		days.add(posted.Weekday(), score)
		hours.add(posted.Hour(), score)
		total += score
	}
	mean := total / float64(len(posts))

	effect := func(seen bool, groupMean float64) float64 {
		if !seen {
			return 0
		}
		return groupMean - mean
	}

	var best Prediction
	bestScore := 0.0
	first := true
	for _, d := range weekOrder {
		_, daySeen := days.count[d]
		dayEffect := effect(daySeen, days.mean(d))
		for h := 0; h < 24; h++ {
			_, hourSeen := hours.count[h]
			expected := mean + dayEffect + effect(hourSeen, hours.mean(h))
			if first || expected > bestScore {
				best.BestDay, best.BestHour = d.String(), h
				bestScore = expected
				first = false
			}
		}
	}

	if bestScore < 0 {
		bestScore = 0
	}
	best.ExpectedEngagement = bestScore
	return &best, nil
}
