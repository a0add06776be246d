// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IngestRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_runs_total",
			Help: "Per-account ingestion runs by outcome",
		},
		[]string{"platform", "status"}, // "ok", "reconnect_required", "upstream_error", "error"
	)

	PostsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "posts_ingested_total",
			Help: "Posts for which an analytics snapshot was stored",
		},
		[]string{"platform"},
	)

	TokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_refreshes_total",
			Help: "OAuth token refresh attempts by outcome",
		},
		[]string{"platform", "status"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of calls to platform APIs",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"platform", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

func RecordIngest(platform, status string, posts int) {
	IngestRuns.WithLabelValues(platform, status).Inc()
	if posts > 0 {
		PostsIngested.WithLabelValues(platform).Add(float64(posts))
	}
}

func RecordTokenRefresh(platform string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	TokenRefreshes.WithLabelValues(platform, status).Inc()
}

func RecordUpstream(platform, status string, d time.Duration) {
	UpstreamRequestDuration.WithLabelValues(platform, status).Observe(d.Seconds())
}

func RecordHTTPRequest(method, route, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}
