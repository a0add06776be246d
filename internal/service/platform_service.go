package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/maheshrc27/influence-api/internal/models"
	"github.com/maheshrc27/influence-api/pkg/utils"
)

const oauthStateTTL = 15 * time.Minute

// Connector runs the OAuth connection flow of one platform. verifier is the
// PKCE code verifier issued with the state; connectors without PKCE ignore it.
type Connector interface {
	AuthURL(state, verifier string) string
	Connect(ctx context.Context, userID int64, code, verifier string) (*models.SocialAccount, error)
}

type PlatformService interface {
	GetAuthURL(ctx context.Context, userID int64, platform string) (string, error)
	Callback(ctx context.Context, platform, code, state string) (*models.SocialAccount, error)
	List(ctx context.Context, userID int64) ([]*models.SocialAccount, error)
}

type platformService struct {
	secretKey  string
	connectors map[string]Connector
	store      TokenStore
}

func NewPlatformService(secretKey string, connectors map[string]Connector, store TokenStore) PlatformService {
	return &platformService{
		secretKey:  secretKey,
		connectors: connectors,
		store:      store,
	}
}

func (s *platformService) connector(platform string) (Connector, error) {
	if _, err := ParsePlatform(platform, false); err != nil {
		return nil, err
	}
	c, ok := s.connectors[platform]
	if !ok {
		return nil, newValidationError("platform", fmt.Sprintf("connecting %s accounts is not supported", platform))
	}
	return c, nil
}

func (s *platformService) GetAuthURL(ctx context.Context, userID int64, platform string) (string, error) {
	c, err := s.connector(platform)
	if err != nil {
		return "", err
	}

	verifier := oauth2.GenerateVerifier()
	state, err := utils.GenerateStateToken(s.secretKey, userID, platform, verifier, oauthStateTTL)
	if err != nil {
		return "", err
	}
	return c.AuthURL(state, verifier), nil
}

func (s *platformService) Callback(ctx context.Context, platform, code, state string) (*models.SocialAccount, error) {
	c, err := s.connector(platform)
	if err != nil {
		return nil, err
	}

	claims, err := utils.ValidateStateToken(s.secretKey, state, platform)
	if err != nil {
		return nil, newValidationError("state", "invalid or expired state")
	}

	return c.Connect(ctx, claims.UserID, code, claims.Verifier)
}

func (s *platformService) List(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	return s.store.ListByUser(ctx, userID)
}
