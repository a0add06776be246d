package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/maheshrc27/influence-api/internal/models"
	"github.com/maheshrc27/influence-api/internal/repository"
	"github.com/maheshrc27/influence-api/pkg/utils"
)

// TokenStore persists social accounts and their credentials. Tokens are
// sealed on the way in and opened on the way out, so callers only ever see
// plaintext.
type TokenStore interface {
	Get(ctx context.Context, userID int64, platform string) (*models.SocialAccount, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.SocialAccount, error)
	Put(ctx context.Context, account *models.SocialAccount) (int64, error)
	UpdateToken(ctx context.Context, accountID int64, accessToken string, refreshToken *string, expiresAt *time.Time) error
	ListExpiring(ctx context.Context, platform string, before time.Time) ([]*models.SocialAccount, error)
}

type tokenStore struct {
	sa     repository.SocialAccountRepository
	cipher *utils.TokenCipher
}

func NewTokenStore(sa repository.SocialAccountRepository, cipher *utils.TokenCipher) TokenStore {
	return &tokenStore{sa: sa, cipher: cipher}
}

func (s *tokenStore) Get(ctx context.Context, userID int64, platform string) (*models.SocialAccount, error) {
	account, err := s.sa.GetByUserAndPlatform(ctx, userID, platform)
	if err != nil || account == nil {
		return nil, err
	}
	return s.open(account)
}

func (s *tokenStore) ListByUser(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	accounts, err := s.sa.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.openAll(accounts)
}

func (s *tokenStore) Put(ctx context.Context, account *models.SocialAccount) (int64, error) {
	sealed := *account

	accessToken, err := s.cipher.Seal(account.AccessToken)
	if err != nil {
		return 0, fmt.Errorf("seal access token: %w", err)
	}
	sealed.AccessToken = accessToken

	if account.RefreshToken != nil {
		refreshToken, err := s.cipher.Seal(*account.RefreshToken)
		if err != nil {
			return 0, fmt.Errorf("seal refresh token: %w", err)
		}
		sealed.RefreshToken = &refreshToken
	}

	return s.sa.Upsert(ctx, &sealed)
}

func (s *tokenStore) UpdateToken(ctx context.Context, accountID int64, accessToken string, refreshToken *string, expiresAt *time.Time) error {
	sealedAccess, err := s.cipher.Seal(accessToken)
	if err != nil {
		return fmt.Errorf("seal access token: %w", err)
	}

	var sealedRefresh *string
	if refreshToken != nil {
		sr, err := s.cipher.Seal(*refreshToken)
		if err != nil {
			return fmt.Errorf("seal refresh token: %w", err)
		}
		sealedRefresh = &sr
	}

	err = s.sa.SetToken(ctx, accountID, sealedAccess, sealedRefresh, expiresAt)
	if errors.Is(err, repository.ErrNoRowsAffected) {
		return fmt.Errorf("social account %d: %w", accountID, ErrNotFound)
	}
	return err
}

func (s *tokenStore) ListExpiring(ctx context.Context, platform string, before time.Time) ([]*models.SocialAccount, error) {
	accounts, err := s.sa.ListExpiring(ctx, platform, before)
	if err != nil {
		return nil, err
	}
	return s.openAll(accounts)
}

func (s *tokenStore) open(account *models.SocialAccount) (*models.SocialAccount, error) {
	accessToken, err := s.cipher.Open(account.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("open access token of account %d: %w", account.ID, err)
	}
	account.AccessToken = accessToken

	if account.RefreshToken != nil {
		refreshToken, err := s.cipher.Open(*account.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("open refresh token of account %d: %w", account.ID, err)
		}
		account.RefreshToken = &refreshToken
	}
	return account, nil
}

func (s *tokenStore) openAll(accounts []*models.SocialAccount) ([]*models.SocialAccount, error) {
	for _, account := range accounts {
		if _, err := s.open(account); err != nil {
			return nil, err
		}
	}
	return accounts, nil
}
