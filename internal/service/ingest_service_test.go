package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maheshrc27/influence-api/internal/models"
	"github.com/maheshrc27/influence-api/internal/transfer"
)

var ingestNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

type recordingArchiver struct {
	err      error
	payloads []any
}

func (a *recordingArchiver) Archive(ctx context.Context, platform, accountID string, at time.Time, payload any) (string, error) {
	a.payloads = append(a.payloads, payload)
	if a.err != nil {
		return "", a.err
	}
	return "raw/key.json", nil
}

type ingestFixture struct {
	store     *mockTokenStore
	refresher *stubRefresher
	youtube   *stubFetcher
	instagram *stubFetcher
	posts     *mockPostRepository
	snapshots *mockPostAnalyticsRepository
	archiver  *recordingArchiver
	svc       IngestService
}

func newIngestFixture() *ingestFixture {
	f := &ingestFixture{
		store:     new(mockTokenStore),
		refresher: &stubRefresher{token: "tok"},
		youtube:   &stubFetcher{},
		instagram: &stubFetcher{},
		posts:     new(mockPostRepository),
		snapshots: new(mockPostAnalyticsRepository),
		archiver:  &recordingArchiver{},
	}
	svc := NewIngestService(f.store, f.refresher, map[string]PlatformFetcher{
		models.PlatformYoutube:   f.youtube,
		models.PlatformInstagram: f.instagram,
	}, f.posts, f.snapshots, f.archiver)
	svc.(*ingestService).now = func() time.Time { return ingestNow }
	f.svc = svc
	return f
}

var (
	ingestYT = &models.SocialAccount{ID: 1, UserID: 7, Platform: models.PlatformYoutube, AccountID: "UC1"}
	ingestIG = &models.SocialAccount{ID: 2, UserID: 7, Platform: models.PlatformInstagram, AccountID: "17841"}
)

func TestIngest_StoresPostsAndSnapshots(t *testing.T) {
	f := newIngestFixture()
	posted := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f.youtube.posts = []transfer.RawPost{
		{PlatformPostID: "v1", Title: strPtr("one"), MediaType: models.MediaTypeVideo, PostedAt: posted},
		{PlatformPostID: "v2", Title: strPtr("two"), MediaType: models.MediaTypeVideo, PostedAt: posted.Add(time.Hour)},
	}
	f.youtube.counters = map[string]transfer.RawCounters{
		"v1": {Views: 100, Likes: 10, Comments: 2},
		"v2": {Views: 50, Likes: 1, Dislikes: 1},
	}

	f.posts.On("Upsert", mock.Anything, mock.MatchedBy(func(p *models.Post) bool { return p.PlatformPostID == "v1" })).
		Return(int64(11), false, nil).Once()
	f.posts.On("Upsert", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
		return p.PlatformPostID == "v2" && p.AccountID == 1 && *p.Title == "two"
	})).Return(int64(12), true, nil).Once()
	f.snapshots.On("Create", mock.Anything, mock.MatchedBy(func(pa *models.PostAnalytics) bool {
		return pa.PostID == 11 && pa.Views == 100 && pa.Likes == 10 && pa.Comments == 2 && pa.SnapshotAt.Equal(ingestNow)
	})).Return(int64(1), nil).Once()
	f.snapshots.On("Create", mock.Anything, mock.MatchedBy(func(pa *models.PostAnalytics) bool {
		return pa.PostID == 12 && pa.Dislikes == 1
	})).Return(int64(2), nil).Once()

	res, err := f.svc.Ingest(context.Background(), ingestYT)
	require.NoError(t, err)

	assert.Equal(t, &IngestResult{PostsIngested: 2, NewPosts: 1, SnapshotsAppended: 2}, res)
	assert.Equal(t, []string{"v1", "v2"}, f.youtube.fetchIDs)
	assert.Len(t, f.archiver.payloads, 1)
	f.posts.AssertExpectations(t)
	f.snapshots.AssertExpectations(t)
}

func TestIngest_SkipsPostsWithoutCounters(t *testing.T) {
	f := newIngestFixture()
	f.instagram.posts = []transfer.RawPost{
		{PlatformPostID: "m1", MediaType: models.MediaTypeImage, PostedAt: ingestNow},
		{PlatformPostID: "m2", MediaType: models.MediaTypeImage, PostedAt: ingestNow},
	}
	f.instagram.counters = map[string]transfer.RawCounters{"m1": {Views: 5}}

	f.posts.On("Upsert", mock.Anything, mock.Anything).Return(int64(3), true, nil).Twice()
	f.snapshots.On("Create", mock.Anything, mock.Anything).Return(int64(1), nil).Once()

	res, err := f.svc.Ingest(context.Background(), ingestIG)
	require.NoError(t, err)
	assert.Equal(t, 2, res.PostsIngested)
	assert.Equal(t, 1, res.SnapshotsAppended)
	f.snapshots.AssertNumberOfCalls(t, "Create", 1)
}

func TestIngest_DuplicatePostIDsCountOnce(t *testing.T) {
	f := newIngestFixture()
	f.youtube.posts = []transfer.RawPost{
		{PlatformPostID: "v1", PostedAt: ingestNow},
		{PlatformPostID: "v1", PostedAt: ingestNow},
		{PlatformPostID: "v2", PostedAt: ingestNow},
	}
	f.youtube.counters = map[string]transfer.RawCounters{"v1": {Views: 3}, "v2": {Views: 4}}

	f.posts.On("Upsert", mock.Anything, mock.MatchedBy(func(p *models.Post) bool { return p.PlatformPostID == "v1" })).
		Return(int64(11), true, nil).Once()
	f.posts.On("Upsert", mock.Anything, mock.MatchedBy(func(p *models.Post) bool { return p.PlatformPostID == "v1" })).
		Return(int64(11), false, nil).Once()
	f.posts.On("Upsert", mock.Anything, mock.MatchedBy(func(p *models.Post) bool { return p.PlatformPostID == "v2" })).
		Return(int64(12), true, nil).Once()
	f.snapshots.On("Create", mock.Anything, mock.Anything).Return(int64(1), nil).Twice()

	res, err := f.svc.Ingest(context.Background(), ingestYT)
	require.NoError(t, err)

	assert.Equal(t, &IngestResult{PostsIngested: 2, NewPosts: 2, SnapshotsAppended: 2}, res)
	assert.Equal(t, []string{"v1", "v2"}, f.youtube.fetchIDs)
	f.snapshots.AssertNumberOfCalls(t, "Create", 2)
}

func TestIngest_ArchiveFailureIsNotFatal(t *testing.T) {
	f := newIngestFixture()
	f.archiver.err = errors.New("bucket unavailable")
	f.youtube.posts = []transfer.RawPost{{PlatformPostID: "v1", PostedAt: ingestNow}}
	f.youtube.counters = map[string]transfer.RawCounters{"v1": {Views: 1}}
	f.posts.On("Upsert", mock.Anything, mock.Anything).Return(int64(11), true, nil)
	f.snapshots.On("Create", mock.Anything, mock.Anything).Return(int64(1), nil)

	res, err := f.svc.Ingest(context.Background(), ingestYT)
	require.NoError(t, err)
	assert.Equal(t, 1, res.SnapshotsAppended)
}

func TestIngest_CredentialFailureStopsBeforeFetching(t *testing.T) {
	f := newIngestFixture()
	f.refresher.err = &CredentialExpiredError{Platform: models.PlatformYoutube, Reason: "refresh rejected"}

	_, err := f.svc.Ingest(context.Background(), ingestYT)
	assert.True(t, IsReconnectRequired(err))
	assert.Zero(t, f.youtube.listCalls)
}

func TestIngest_UnsupportedPlatform(t *testing.T) {
	f := newIngestFixture()
	twitter := &models.SocialAccount{ID: 3, Platform: models.PlatformTwitter, AccountID: "tw"}

	_, err := f.svc.Ingest(context.Background(), twitter)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Zero(t, f.refresher.calls)
}

func TestIngestUser_UnknownPlatform(t *testing.T) {
	f := newIngestFixture()

	_, err := f.svc.IngestUser(context.Background(), 7, "myspace")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	f.store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
}

func TestIngestUser_PlatformNotConnected(t *testing.T) {
	f := newIngestFixture()
	f.store.On("Get", mock.Anything, int64(7), models.PlatformInstagram).Return(nil, nil)

	_, err := f.svc.IngestUser(context.Background(), 7, models.PlatformInstagram)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIngestUser_AllContinuesPastFailures(t *testing.T) {
	f := newIngestFixture()
	twitter := &models.SocialAccount{ID: 3, UserID: 7, Platform: models.PlatformTwitter, AccountID: "tw"}
	f.store.On("ListByUser", mock.Anything, int64(7)).
		Return([]*models.SocialAccount{ingestYT, twitter, ingestIG}, nil)

	f.youtube.listErr = &UpstreamFetchError{Platform: models.PlatformYoutube, Op: "search.list", Err: errors.New("boom")}
	f.instagram.posts = []transfer.RawPost{{PlatformPostID: "m1", PostedAt: ingestNow}}
	f.instagram.counters = map[string]transfer.RawCounters{"m1": {Views: 9, Likes: 1}}
	f.posts.On("Upsert", mock.Anything, mock.Anything).Return(int64(21), true, nil)
	f.snapshots.On("Create", mock.Anything, mock.Anything).Return(int64(1), nil)

	results, err := f.svc.IngestUser(context.Background(), 7, "all")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, models.PlatformYoutube, results[0].Platform)
	assert.Contains(t, results[0].Error, "boom")
	assert.False(t, results[0].ReconnectRequired)

	assert.Equal(t, models.PlatformTwitter, results[1].Platform)
	assert.NotEmpty(t, results[1].Error)

	assert.Equal(t, models.PlatformInstagram, results[2].Platform)
	assert.Empty(t, results[2].Error)
	assert.Equal(t, 1, results[2].PostsIngested)
	assert.Equal(t, 1, results[2].NewPosts)
}

func TestIngestUser_FlagsReconnect(t *testing.T) {
	f := newIngestFixture()
	f.store.On("Get", mock.Anything, int64(7), models.PlatformYoutube).Return(ingestYT, nil)
	f.refresher.err = &CredentialExpiredError{Platform: models.PlatformYoutube, Reason: "no refresh token"}

	results, err := f.svc.IngestUser(context.Background(), 7, models.PlatformYoutube)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].ReconnectRequired)
}

func TestIngestStatus(t *testing.T) {
	assert.Equal(t, "reconnect_required", ingestStatus(&CredentialExpiredError{Platform: "youtube"}))
	assert.Equal(t, "upstream_error", ingestStatus(&UpstreamFetchError{Platform: "youtube", Err: errors.New("x")}))
	assert.Equal(t, "unsupported", ingestStatus(newValidationError("platform", "no")))
	assert.Equal(t, "error", ingestStatus(errors.New("db down")))
}
