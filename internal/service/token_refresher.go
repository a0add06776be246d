package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/oauth2"

	"github.com/maheshrc27/influence-api/internal/metrics"
	"github.com/maheshrc27/influence-api/internal/models"
	"github.com/maheshrc27/influence-api/internal/upstream"
)

const (
	// TokenSafetyMargin is how long before expiry a token stops being used.
	TokenSafetyMargin = 5 * time.Minute
	youtubeTokenTTL   = time.Hour
)

type TokenRefresher interface {
	// EnsureValid returns a usable access token for the account, refreshing
	// and persisting it first when it is about to expire.
	EnsureValid(ctx context.Context, account *models.SocialAccount) (string, error)
	// Refresh refreshes the token regardless of its expiry.
	Refresh(ctx context.Context, account *models.SocialAccount) (string, error)
}

type tokenRefresher struct {
	store  TokenStore
	google *oauth2.Config
	client *upstream.Client
	now    func() time.Time
}

type RefresherOption func(*tokenRefresher)

func WithClock(now func() time.Time) RefresherOption {
	return func(r *tokenRefresher) {
		r.now = now
	}
}

func NewTokenRefresher(store TokenStore, google *oauth2.Config, client *upstream.Client, opts ...RefresherOption) TokenRefresher {
	r := &tokenRefresher{
		store:  store,
		google: google,
		client: client,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *tokenRefresher) EnsureValid(ctx context.Context, account *models.SocialAccount) (string, error) {
	if account.TokenUsable(r.now(), TokenSafetyMargin) {
		return account.AccessToken, nil
	}
	return r.Refresh(ctx, account)
}

func (r *tokenRefresher) Refresh(ctx context.Context, account *models.SocialAccount) (string, error) {
	switch account.Platform {
	case models.PlatformYoutube:
		token, err := r.refreshYoutube(ctx, account)
		metrics.RecordTokenRefresh(account.Platform, err)
		return token, err
	default:
		return "", &CredentialExpiredError{Platform: account.Platform, Reason: "token expired and platform has no refresh flow"}
	}
}

func (r *tokenRefresher) refreshYoutube(ctx context.Context, account *models.SocialAccount) (string, error) {
	if account.RefreshToken == nil || *account.RefreshToken == "" {
		return "", &CredentialExpiredError{Platform: account.Platform, Reason: "no refresh token stored"}
	}

	if r.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, r.client.HTTPClient())
	}

	token, err := r.google.TokenSource(ctx, &oauth2.Token{RefreshToken: *account.RefreshToken}).Token()
	if err != nil {
		slog.Info(err.Error())
		return "", &CredentialExpiredError{Platform: account.Platform, Reason: "refresh rejected", Err: err}
	}

	expiresAt := GetExpiresAt(r.now(), token.ExpiresIn, youtubeTokenTTL)

	var rotated *string
	if token.RefreshToken != "" && token.RefreshToken != *account.RefreshToken {
		rotated = &token.RefreshToken
	}

	if err := r.store.UpdateToken(ctx, account.ID, token.AccessToken, rotated, &expiresAt); err != nil {
		return "", err
	}

	account.AccessToken = token.AccessToken
	account.TokenExpiresAt = &expiresAt
	if rotated != nil {
		account.RefreshToken = rotated
	}

	slog.Info("refreshed access token", "platform", account.Platform, "account_id", account.ID, "expires_at", expiresAt)
	return token.AccessToken, nil
}
