package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordIngest(t *testing.T) {
	runs := testutil.ToFloat64(IngestRuns.WithLabelValues("youtube", "ok"))
	posts := testutil.ToFloat64(PostsIngested.WithLabelValues("youtube"))

	RecordIngest("youtube", "ok", 3)
	RecordIngest("youtube", "ok", 0)

	assert.Equal(t, runs+2, testutil.ToFloat64(IngestRuns.WithLabelValues("youtube", "ok")))
	assert.Equal(t, posts+3, testutil.ToFloat64(PostsIngested.WithLabelValues("youtube")))
}

func TestRecordTokenRefresh(t *testing.T) {
	before := testutil.ToFloat64(TokenRefreshes.WithLabelValues("youtube", "error"))
	RecordTokenRefresh("youtube", errors.New("invalid_grant"))
	assert.Equal(t, before+1, testutil.ToFloat64(TokenRefreshes.WithLabelValues("youtube", "error")))
}

func TestRecordUpstream(t *testing.T) {
	RecordUpstream("instagram", "200", 120*time.Millisecond)
	assert.Positive(t, testutil.CollectAndCount(UpstreamRequestDuration))
}
