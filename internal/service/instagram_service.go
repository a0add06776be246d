package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/maheshrc27/influence-api/internal/models"
	"github.com/maheshrc27/influence-api/internal/transfer"
	"github.com/maheshrc27/influence-api/internal/upstream"
)

const (
	DefaultGraphURL     = "https://graph.facebook.com/v18.0"
	DefaultFBDialogURL  = "https://www.facebook.com/v18.0/dialog/oauth"
	instagramTokenTTL   = 60 * 24 * time.Hour
	instagramTimeLayout = "2006-01-02T15:04:05-0700"
	instagramScopes     = "instagram_basic,instagram_manage_insights,pages_show_list,pages_read_engagement"
	instagramMediaField = "id,caption,media_type,timestamp"
	instagramMetrics    = "likes,comments,impressions,shares,saved,reach"
)

type InstagramConfig struct {
	AppID       string
	AppSecret   string
	RedirectURI string
	GraphURL    string
	DialogURL   string
}

type InstagramService interface {
	PlatformFetcher
	AuthURL(state, verifier string) string
	Connect(ctx context.Context, userID int64, code, verifier string) (*models.SocialAccount, error)
}

type instagramService struct {
	cfg    InstagramConfig
	client *upstream.Client
	store  TokenStore
	now    func() time.Time
}

// NewInstagramService builds the Instagram fetcher. Requests go through
// client, whose rate limit throttles the per-post insights calls.
func NewInstagramService(cfg InstagramConfig, client *upstream.Client, store TokenStore) InstagramService {
	if cfg.GraphURL == "" {
		cfg.GraphURL = DefaultGraphURL
	}
	if cfg.DialogURL == "" {
		cfg.DialogURL = DefaultFBDialogURL
	}
	cfg.GraphURL = strings.TrimRight(cfg.GraphURL, "/")

	return &instagramService{
		cfg:    cfg,
		client: client,
		store:  store,
		now:    time.Now,
	}
}

func (ig *instagramService) fetchError(op string, err error) error {
	return &UpstreamFetchError{Platform: models.PlatformInstagram, Op: op, Err: err}
}

func (ig *instagramService) graphURL(path string, params url.Values) string {
	return fmt.Sprintf("%s/%s?%s", ig.cfg.GraphURL, strings.TrimLeft(path, "/"), params.Encode())
}

func (ig *instagramService) ListRecentPosts(ctx context.Context, account *models.SocialAccount, token string) ([]transfer.RawPost, error) {
	params := url.Values{}
	params.Set("fields", instagramMediaField)
	params.Set("access_token", token)

	var resp transfer.InstagramMediaResponse
	if err := ig.client.GetJSON(ctx, ig.graphURL(account.AccountID+"/media", params), &resp); err != nil {
		return nil, ig.fetchError("media", err)
	}
	if resp.Data == nil {
		return nil, ig.fetchError("media", errMissingKey("data"))
	}

	posts := make([]transfer.RawPost, 0, len(*resp.Data))
	for _, media := range *resp.Data {
		postedAt, err := parseInstagramTime(media.Timestamp)
		if err != nil {
			return nil, ig.fetchError("media", fmt.Errorf("media %s: %w", media.ID, err))
		}

		posts = append(posts, transfer.RawPost{
			PlatformPostID: media.ID,
			Caption:        stringPtr(media.Caption),
			MediaType:      instagramMediaType(media.MediaType),
			PostedAt:       postedAt,
		})
	}

	return posts, nil
}

func (ig *instagramService) FetchEngagement(ctx context.Context, account *models.SocialAccount, token string, postIDs []string) (map[string]transfer.RawCounters, error) {
	counters := make(map[string]transfer.RawCounters, len(postIDs))

	for _, id := range postIDs {
		params := url.Values{}
		params.Set("metric", instagramMetrics)
		params.Set("access_token", token)

		var resp transfer.InstagramInsightsResponse
		if err := ig.client.GetJSON(ctx, ig.graphURL(id+"/insights", params), &resp); err != nil {
			return nil, ig.fetchError("insights", fmt.Errorf("media %s: %w", id, err))
		}
		if resp.Data == nil {
			return nil, ig.fetchError("insights", fmt.Errorf("media %s: %w", id, errMissingKey("data")))
		}

		var c transfer.RawCounters
		for _, insight := range *resp.Data {
			if len(insight.Values) == 0 {
				continue
			}
			value := insight.Values[0].Value
			switch insight.Name {
			case "impressions":
				c.Views = value
			case "likes":
				c.Likes = value
			case "comments":
				c.Comments = value
			case "shares":
				c.Shares = value
			}
		}
		counters[id] = c
	}

	return counters, nil
}

// AuthURL ignores verifier; the Facebook login dialog is used without PKCE.
func (ig *instagramService) AuthURL(state, _ string) string {
	params := url.Values{}
	params.Set("client_id", ig.cfg.AppID)
	params.Set("redirect_uri", ig.cfg.RedirectURI)
	params.Set("state", state)
	params.Set("scope", instagramScopes)
	params.Set("response_type", "code")

	return fmt.Sprintf("%s?%s", ig.cfg.DialogURL, params.Encode())
}

// Connect exchanges the authorization code for a user token and stores the
// first Facebook page that has an Instagram business account attached.
func (ig *instagramService) Connect(ctx context.Context, userID int64, code, _ string) (*models.SocialAccount, error) {
	if code == "" {
		return nil, newValidationError("code", "code is required")
	}

	params := url.Values{}
	params.Set("client_id", ig.cfg.AppID)
	params.Set("client_secret", ig.cfg.AppSecret)
	params.Set("redirect_uri", ig.cfg.RedirectURI)
	params.Set("code", code)

	var token transfer.FacebookTokenResponse
	if err := ig.client.GetJSON(ctx, ig.graphURL("oauth/access_token", params), &token); err != nil {
		slog.Info(err.Error())
		return nil, ig.fetchError("token exchange", err)
	}
	if token.AccessToken == "" {
		return nil, ig.fetchError("token exchange", errMissingKey("access_token"))
	}

	pageParams := url.Values{}
	pageParams.Set("fields", "id,name,access_token,instagram_business_account")
	pageParams.Set("access_token", token.AccessToken)

	var pages transfer.FacebookPagesResponse
	if err := ig.client.GetJSON(ctx, ig.graphURL("me/accounts", pageParams), &pages); err != nil {
		return nil, ig.fetchError("accounts", err)
	}
	if pages.Data == nil {
		return nil, ig.fetchError("accounts", errMissingKey("data"))
	}

	var page *transfer.FacebookPage
	for i := range *pages.Data {
		if (*pages.Data)[i].InstagramBusinessAccount != nil {
			page = &(*pages.Data)[i]
			break
		}
	}
	if page == nil {
		return nil, newValidationError("code", "no Instagram business account is connected to the user's pages")
	}

	accessToken := page.AccessToken
	if accessToken == "" {
		accessToken = token.AccessToken
	}

	expiresAt := GetExpiresAt(ig.now(), token.ExpiresIn, instagramTokenTTL)
	account := &models.SocialAccount{
		UserID:         userID,
		Platform:       models.PlatformInstagram,
		AccountID:      page.InstagramBusinessAccount.ID,
		AccountName:    page.Name,
		AccessToken:    accessToken,
		TokenExpiresAt: &expiresAt,
	}

	id, err := ig.store.Put(ctx, account)
	if err != nil {
		return nil, err
	}
	account.ID = id

	slog.Info("connected instagram account", "user_id", userID, "ig_user_id", account.AccountID)
	return account, nil
}

func parseInstagramTime(s string) (time.Time, error) {
	t, err := time.Parse(instagramTimeLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return t.UTC(), nil
}

func instagramMediaType(t string) string {
	switch strings.ToUpper(t) {
	case "VIDEO", "REELS":
		return models.MediaTypeVideo
	case "CAROUSEL_ALBUM":
		return models.MediaTypeCarousel
	default:
		return models.MediaTypeImage
	}
}
