package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maheshrc27/influence-api/internal/models"
	"github.com/maheshrc27/influence-api/internal/upstream"
)

type graphStub struct {
	srv           *httptest.Server
	media         string
	insights      map[string]string
	pages         string
	insightsCalls atomic.Int32
}

func newGraphStub(t *testing.T) *graphStub {
	t.Helper()
	g := &graphStub{
		media:    `{"data":[]}`,
		insights: map[string]string{},
		pages:    `{"data":[]}`,
	}
	g.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		path := strings.Trim(r.URL.Path, "/")

		switch {
		case path == "oauth/access_token":
			if q.Get("code") != "ig-code" || q.Get("client_secret") != "app-secret" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"message":"bad code"}}`))
				return
			}
			_, _ = w.Write([]byte(`{"access_token":"user-token","token_type":"bearer"}`))
		case path == "me/accounts":
			_, _ = w.Write([]byte(g.pages))
		case strings.HasSuffix(path, "/media"):
			if q.Get("access_token") != "ig-token" || q.Get("fields") != instagramMediaField {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(g.media))
		case strings.HasSuffix(path, "/insights"):
			g.insightsCalls.Add(1)
			body, ok := g.insights[strings.TrimSuffix(path, "/insights")]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(body))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(g.srv.Close)
	return g
}

func (g *graphStub) service(store TokenStore) InstagramService {
	client := upstream.New(models.PlatformInstagram, upstream.Options{Timeout: 5 * time.Second, RatePerSecond: 100, Burst: 10})
	return NewInstagramService(InstagramConfig{
		AppID:       "app",
		AppSecret:   "app-secret",
		RedirectURI: "http://localhost:3000/auth/instagram/callback",
		GraphURL:    g.srv.URL,
	}, client, store)
}

var igAccount = &models.SocialAccount{ID: 2, Platform: models.PlatformInstagram, AccountID: "17841"}

func TestInstagram_ListRecentPosts(t *testing.T) {
	g := newGraphStub(t)
	g.media = `{"data":[
		{"id":"m1","caption":"sunset","media_type":"IMAGE","timestamp":"2026-03-02T18:00:00+0000"},
		{"id":"m2","media_type":"CAROUSEL_ALBUM","timestamp":"2026-03-03T07:15:00+0200"},
		{"id":"m3","media_type":"VIDEO","timestamp":"2026-03-04T10:00:00Z"}
	]}`

	posts, err := g.service(nil).ListRecentPosts(context.Background(), igAccount, "ig-token")
	require.NoError(t, err)
	require.Len(t, posts, 3)

	assert.Equal(t, "m1", posts[0].PlatformPostID)
	assert.Equal(t, "sunset", *posts[0].Caption)
	assert.Nil(t, posts[0].Title)
	assert.Equal(t, models.MediaTypeImage, posts[0].MediaType)
	assert.Nil(t, posts[1].Caption)
	assert.Equal(t, models.MediaTypeCarousel, posts[1].MediaType)
	assert.True(t, posts[1].PostedAt.Equal(time.Date(2026, 3, 3, 5, 15, 0, 0, time.UTC)))
	assert.Equal(t, models.MediaTypeVideo, posts[2].MediaType)
}

func TestInstagram_ListRecentPostsMissingData(t *testing.T) {
	g := newGraphStub(t)
	g.media = `{"paging":{}}`

	_, err := g.service(nil).ListRecentPosts(context.Background(), igAccount, "ig-token")

	var fetchErr *UpstreamFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, models.PlatformInstagram, fetchErr.Platform)
}

func TestInstagram_ListRecentPostsBadTimestamp(t *testing.T) {
	g := newGraphStub(t)
	g.media = `{"data":[{"id":"m1","media_type":"IMAGE","timestamp":"yesterday"}]}`

	_, err := g.service(nil).ListRecentPosts(context.Background(), igAccount, "ig-token")
	var fetchErr *UpstreamFetchError
	assert.True(t, errors.As(err, &fetchErr))
}

func TestInstagram_FetchEngagement(t *testing.T) {
	g := newGraphStub(t)
	g.insights["m1"] = `{"data":[
		{"name":"likes","period":"lifetime","values":[{"value":12}]},
		{"name":"comments","values":[{"value":3}]},
		{"name":"impressions","values":[{"value":400}]},
		{"name":"shares","values":[{"value":2}]},
		{"name":"saved","values":[{"value":9}]},
		{"name":"reach","values":[]}
	]}`
	g.insights["m2"] = `{"data":[]}`

	counters, err := g.service(nil).FetchEngagement(context.Background(), igAccount, "ig-token", []string{"m1", "m2"})
	require.NoError(t, err)

	assert.Equal(t, int64(400), counters["m1"].Views)
	assert.Equal(t, int64(12), counters["m1"].Likes)
	assert.Equal(t, int64(3), counters["m1"].Comments)
	assert.Equal(t, int64(2), counters["m1"].Shares)
	assert.Zero(t, counters["m1"].Dislikes)
	assert.Zero(t, counters["m2"].Views)
	assert.Equal(t, int32(2), g.insightsCalls.Load())
}

func TestInstagram_FetchEngagementMissingData(t *testing.T) {
	g := newGraphStub(t)
	g.insights["m1"] = `{"error_free":true}`

	_, err := g.service(nil).FetchEngagement(context.Background(), igAccount, "ig-token", []string{"m1"})
	var fetchErr *UpstreamFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "insights", fetchErr.Op)
}

func TestInstagram_Connect(t *testing.T) {
	g := newGraphStub(t)
	g.pages = `{"data":[
		{"id":"p1","name":"No IG page","access_token":"p1-token"},
		{"id":"p2","name":"Creator Page","access_token":"p2-token","instagram_business_account":{"id":"17841"}}
	]}`

	store := new(mockTokenStore)
	store.On("Put", mock.Anything, mock.MatchedBy(func(sa *models.SocialAccount) bool {
		return sa.UserID == 8 && sa.AccountID == "17841" && sa.AccessToken == "p2-token" &&
			sa.RefreshToken == nil && sa.TokenExpiresAt != nil &&
			sa.TokenExpiresAt.Sub(time.Now()) > 59*24*time.Hour
	})).Return(int64(30), nil).Once()

	account, err := g.service(store).Connect(context.Background(), 8, "ig-code", "")
	require.NoError(t, err)
	assert.Equal(t, int64(30), account.ID)
	assert.Equal(t, "Creator Page", account.AccountName)
	store.AssertExpectations(t)
}

func TestInstagram_ConnectWithoutBusinessAccount(t *testing.T) {
	g := newGraphStub(t)
	g.pages = `{"data":[{"id":"p1","name":"Plain page","access_token":"p1-token"}]}`

	_, err := g.service(new(mockTokenStore)).Connect(context.Background(), 8, "ig-code", "")
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestInstagram_ConnectBadCode(t *testing.T) {
	g := newGraphStub(t)

	_, err := g.service(new(mockTokenStore)).Connect(context.Background(), 8, "wrong", "")
	var fetchErr *UpstreamFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "token exchange", fetchErr.Op)
}

func TestInstagram_AuthURL(t *testing.T) {
	g := newGraphStub(t)
	u := g.service(nil).AuthURL("st", "ignored")

	assert.True(t, strings.HasPrefix(u, DefaultFBDialogURL+"?"))
	assert.Contains(t, u, "state=st")
	assert.Contains(t, u, "client_id=app")
}
