// Package app wires repositories, platform clients and services from the
// configuration. The server and influencectl build the same graph.
package app

import (
	"context"
	"database/sql"
	"log/slog"

	config "github.com/maheshrc27/influence-api/configs"
	"github.com/maheshrc27/influence-api/internal/models"
	"github.com/maheshrc27/influence-api/internal/repository"
	"github.com/maheshrc27/influence-api/internal/service"
	"github.com/maheshrc27/influence-api/internal/upstream"
	"github.com/maheshrc27/influence-api/pkg/utils"
)

type App struct {
	Config *config.Config
	DB     *sql.DB

	Users     repository.UserRepository
	Posts     repository.PostRepository
	Snapshots repository.PostAnalyticsRepository
	Store     service.TokenStore

	Refresher service.TokenRefresher
	Youtube   service.YoutubeService
	Instagram service.InstagramService
	Twitter   service.TwitterService
	Ingest    service.IngestService
	Analytics service.AnalyticsService
	Auth      service.AuthService
	Platforms service.PlatformService
}

func New(ctx context.Context, cfg *config.Config, db *sql.DB) (*App, error) {
	cipher := utils.NewTokenCipher(cfg.TokenEncryptionKey)
	if !cipher.Enabled() {
		slog.Warn("TOKEN_ENCRYPTION_KEY is not set, platform tokens are stored in plaintext")
	}

	a := &App{
		Config:    cfg,
		DB:        db,
		Users:     repository.NewUserRepository(db),
		Posts:     repository.NewPostRepository(db),
		Snapshots: repository.NewPostAnalyticsRepository(db),
	}
	a.Store = service.NewTokenStore(repository.NewSocialAccountRepository(db), cipher)

	googleClient := upstream.New(models.PlatformYoutube, upstream.Options{Timeout: cfg.UpstreamTimeout})
	instagramClient := upstream.New(models.PlatformInstagram, upstream.Options{
		Timeout:       cfg.UpstreamTimeout,
		RatePerSecond: cfg.InstagramRatePerSec,
		Burst:         1,
	})

	twitterClient := upstream.New(models.PlatformTwitter, upstream.Options{Timeout: cfg.UpstreamTimeout})

	googleOAuth := service.NewGoogleOAuthConfig(cfg)
	a.Refresher = service.NewTokenRefresher(a.Store, googleOAuth, googleClient)
	a.Youtube = service.NewYoutubeService(googleOAuth, googleClient, a.Store)
	a.Instagram = service.NewInstagramService(service.InstagramConfig{
		AppID:       cfg.FacebookAppID,
		AppSecret:   cfg.FacebookAppSecret,
		RedirectURI: cfg.InstagramRedirectURI,
	}, instagramClient, a.Store)
	a.Twitter = service.NewTwitterService(service.NewTwitterOAuthConfig(cfg), twitterClient, a.Store, "")

	archiver, err := newArchiver(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a.Ingest = service.NewIngestService(a.Store, a.Refresher, map[string]service.PlatformFetcher{
		models.PlatformYoutube:   a.Youtube,
		models.PlatformInstagram: a.Instagram,
	}, a.Posts, a.Snapshots, archiver)
	a.Analytics = service.NewAnalyticsService(a.Posts, a.Snapshots)
	a.Auth = service.NewAuthService(cfg.SecretKey, a.Users)
	a.Platforms = service.NewPlatformService(cfg.SecretKey, map[string]service.Connector{
		models.PlatformYoutube:   a.Youtube,
		models.PlatformInstagram: a.Instagram,
		models.PlatformTwitter:   a.Twitter,
	}, a.Store)

	return a, nil
}

func newArchiver(ctx context.Context, cfg *config.Config) (service.Archiver, error) {
	if !cfg.R2.Enabled() {
		return service.NewNoopArchiver(), nil
	}

	client, err := service.NewR2Client(ctx, cfg.R2)
	if err != nil {
		return nil, err
	}
	slog.Info("archiving raw platform payloads", "bucket", cfg.R2.BucketName)
	return service.NewArchiver(client, cfg.R2.BucketName), nil
}
