package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/oauth2"

	config "github.com/maheshrc27/influence-api/configs"
	"github.com/maheshrc27/influence-api/internal/models"
	"github.com/maheshrc27/influence-api/internal/transfer"
	"github.com/maheshrc27/influence-api/internal/upstream"
)

const (
	DefaultTwitterAPIURL = "https://api.twitter.com/2"
	twitterTokenTTL      = 2 * time.Hour
)

var twitterEndpoint = oauth2.Endpoint{
	AuthURL:   "https://twitter.com/i/oauth2/authorize",
	TokenURL:  "https://api.twitter.com/2/oauth2/token",
	AuthStyle: oauth2.AuthStyleInHeader,
}

// NewTwitterOAuthConfig returns the OAuth 2.0 client for connecting X
// accounts. The flow is authorization code with PKCE.
func NewTwitterOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.TwitterClientID,
		ClientSecret: cfg.TwitterClientSecret,
		RedirectURL:  cfg.TwitterRedirectURI,
		Scopes:       []string{"tweet.read", "users.read", "offline.access"},
		Endpoint:     twitterEndpoint,
	}
}

// TwitterService connects X accounts. Ingestion from X is not supported, so
// unlike the other platforms it is not a PlatformFetcher.
type TwitterService interface {
	AuthURL(state, verifier string) string
	Connect(ctx context.Context, userID int64, code, verifier string) (*models.SocialAccount, error)
}

type twitterService struct {
	oauth  *oauth2.Config
	client *upstream.Client
	store  TokenStore
	apiURL string
	now    func() time.Time
}

func NewTwitterService(oauth *oauth2.Config, client *upstream.Client, store TokenStore, apiURL string) TwitterService {
	if apiURL == "" {
		apiURL = DefaultTwitterAPIURL
	}

	return &twitterService{
		oauth:  oauth,
		client: client,
		store:  store,
		apiURL: strings.TrimRight(apiURL, "/"),
		now:    time.Now,
	}
}

func (s *twitterService) fetchError(op string, err error) error {
	return &UpstreamFetchError{Platform: models.PlatformTwitter, Op: op, Err: err}
}

func (s *twitterService) AuthURL(state, verifier string) string {
	return s.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

func (s *twitterService) Connect(ctx context.Context, userID int64, code, verifier string) (*models.SocialAccount, error) {
	if code == "" {
		return nil, newValidationError("code", "code is required")
	}
	if verifier == "" {
		return nil, newValidationError("state", "state carries no code verifier")
	}

	exchangeCtx := context.WithValue(ctx, oauth2.HTTPClient, s.client.HTTPClient())
	token, err := s.oauth.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		slog.Info(err.Error())
		return nil, s.fetchError("token exchange", err)
	}

	var me transfer.TwitterUserResponse
	if err := s.client.GetJSONWithBearer(ctx, s.apiURL+"/users/me", token.AccessToken, &me); err != nil {
		return nil, s.fetchError("users/me", err)
	}
	if me.Data == nil || me.Data.ID == "" {
		return nil, s.fetchError("users/me", errMissingKey("data"))
	}

	name := me.Data.Username
	if name == "" {
		name = me.Data.Name
	}

	expiresAt := GetExpiresAt(s.now(), token.ExpiresIn, twitterTokenTTL)
	account := &models.SocialAccount{
		UserID:         userID,
		Platform:       models.PlatformTwitter,
		AccountID:      me.Data.ID,
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

	slog.Info("connected x account", "user_id", userID, "account_id", me.Data.ID)
	return account, nil
}
