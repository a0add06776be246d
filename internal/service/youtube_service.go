package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	config "github.com/maheshrc27/influence-api/configs"
	"github.com/maheshrc27/influence-api/internal/models"
	"github.com/maheshrc27/influence-api/internal/transfer"
	"github.com/maheshrc27/influence-api/internal/upstream"
)

const (
	youtubeSearchPageSize = 50
	youtubeVideosBatch    = 50
)

type YoutubeService interface {
	PlatformFetcher
	AuthURL(state, verifier string) string
	Connect(ctx context.Context, userID int64, code, verifier string) (*models.SocialAccount, error)
}

type youtubeService struct {
	oauth   *oauth2.Config
	client  *upstream.Client
	store   TokenStore
	apiOpts []option.ClientOption
	now     func() time.Time
}

// NewGoogleOAuthConfig returns the OAuth client used for the YouTube
// connection flow and token refresh.
func NewGoogleOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURI,
		Scopes: []string{
			youtube.YoutubeReadonlyScope,
			"https://www.googleapis.com/auth/yt-analytics.readonly",
		},
		Endpoint: google.Endpoint,
	}
}

// NewYoutubeService builds the YouTube fetcher. apiOpts are appended when
// creating the Data API client, e.g. to point it at another endpoint.
func NewYoutubeService(oauth *oauth2.Config, client *upstream.Client, store TokenStore, apiOpts ...option.ClientOption) YoutubeService {
	return &youtubeService{
		oauth:   oauth,
		client:  client,
		store:   store,
		apiOpts: apiOpts,
		now:     time.Now,
	}
}

func (s *youtubeService) api(ctx context.Context, token string) (*youtube.Service, error) {
	opts := append([]option.ClientOption{option.WithHTTPClient(s.client.WithBearer(token))}, s.apiOpts...)
	return youtube.NewService(ctx, opts...)
}

func (s *youtubeService) fetchError(op string, err error) error {
	return &UpstreamFetchError{Platform: models.PlatformYoutube, Op: op, Err: err}
}

func (s *youtubeService) ListRecentPosts(ctx context.Context, account *models.SocialAccount, token string) ([]transfer.RawPost, error) {
	svc, err := s.api(ctx, token)
	if err != nil {
		return nil, s.fetchError("search.list", err)
	}

	resp, err := svc.Search.List([]string{"snippet"}).
		ChannelId(account.AccountID).
		MaxResults(youtubeSearchPageSize).
		Order("date").
		Type("video").
		Context(ctx).
		Do()
	if err != nil {
		return nil, s.fetchError("search.list", err)
	}
	if resp.Items == nil {
		return nil, s.fetchError("search.list", errMissingKey("items"))
	}

	posts := make([]transfer.RawPost, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}

		postedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		if err != nil {
			return nil, s.fetchError("search.list", fmt.Errorf("video %s: %w", item.Id.VideoId, err))
		}

		posts = append(posts, transfer.RawPost{
			PlatformPostID: item.Id.VideoId,
			Title:          stringPtr(item.Snippet.Title),
			Caption:        stringPtr(item.Snippet.Description),
			MediaType:      models.MediaTypeVideo,
			PostedAt:       postedAt.UTC(),
		})
	}

	return posts, nil
}

func (s *youtubeService) FetchEngagement(ctx context.Context, account *models.SocialAccount, token string, postIDs []string) (map[string]transfer.RawCounters, error) {
	counters := make(map[string]transfer.RawCounters, len(postIDs))
	if len(postIDs) == 0 {
		return counters, nil
	}

	svc, err := s.api(ctx, token)
	if err != nil {
		return nil, s.fetchError("videos.list", err)
	}

	for start := 0; start < len(postIDs); start += youtubeVideosBatch {
		end := min(start+youtubeVideosBatch, len(postIDs))

		resp, err := svc.Videos.List([]string{"statistics"}).
			Id(postIDs[start:end]...).
			Context(ctx).
			Do()
		if err != nil {
			return nil, s.fetchError("videos.list", err)
		}
		if resp.Items == nil {
			return nil, s.fetchError("videos.list", errMissingKey("items"))
		}

		for _, video := range resp.Items {
			stats := video.Statistics
			if stats == nil {
				counters[video.Id] = transfer.RawCounters{}
				continue
			}
			counters[video.Id] = transfer.RawCounters{
				Views:    int64(stats.ViewCount),
				Likes:    int64(stats.LikeCount),
				Dislikes: int64(stats.DislikeCount),
				Comments: int64(stats.CommentCount),
			}
		}
	}

	return counters, nil
}

func (s *youtubeService) AuthURL(state, verifier string) string {
	opts := []oauth2.AuthCodeOption{oauth2.AccessTypeOffline, oauth2.ApprovalForce}
	if verifier != "" {
		opts = append(opts, oauth2.S256ChallengeOption(verifier))
	}
	return s.oauth.AuthCodeURL(state, opts...)
}

func (s *youtubeService) Connect(ctx context.Context, userID int64, code, verifier string) (*models.SocialAccount, error) {
	if code == "" {
		return nil, newValidationError("code", "code is required")
	}

	var opts []oauth2.AuthCodeOption
	if verifier != "" {
		opts = append(opts, oauth2.VerifierOption(verifier))
	}

	exchangeCtx := context.WithValue(ctx, oauth2.HTTPClient, s.client.HTTPClient())
	token, err := s.oauth.Exchange(exchangeCtx, code, opts...)
	if err != nil {
		slog.Info(err.Error())
		return nil, s.fetchError("token exchange", err)
	}

	svc, err := s.api(ctx, token.AccessToken)
	if err != nil {
		return nil, s.fetchError("channels.list", err)
	}

	resp, err := svc.Channels.List([]string{"id", "snippet"}).Mine(true).Context(ctx).Do()
	if err != nil {
		return nil, s.fetchError("channels.list", err)
	}
	if len(resp.Items) == 0 {
		return nil, newValidationError("code", "no YouTube channel found for this Google account")
	}

	channel := resp.Items[0]
	name := ""
	if channel.Snippet != nil {
		name = channel.Snippet.Title
	}

	expiresAt := GetExpiresAt(s.now(), token.ExpiresIn, youtubeTokenTTL)
	account := &models.SocialAccount{
		UserID:         userID,
		Platform:       models.PlatformYoutube,
		AccountID:      channel.Id,
		AccountName:    name,
		AccessToken:    token.AccessToken,
		RefreshToken:   stringPtr(token.RefreshToken),
		TokenExpiresAt: &expiresAt,
	}

	id, err := s.store.Put(ctx, account)
	if err != nil {
		return nil, err
	}
	account.ID = id

	slog.Info("connected youtube channel", "user_id", userID, "channel_id", channel.Id)
	return account, nil
}
