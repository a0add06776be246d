package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/maheshrc27/influence-api/internal/models"
	"github.com/maheshrc27/influence-api/internal/transfer"
)

type mockTokenStore struct {
	mock.Mock
}

func (m *mockTokenStore) Get(ctx context.Context, userID int64, platform string) (*models.SocialAccount, error) {
	args := m.Called(ctx, userID, platform)
	account, _ := args.Get(0).(*models.SocialAccount)
	return account, args.Error(1)
}

func (m *mockTokenStore) ListByUser(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	args := m.Called(ctx, userID)
	accounts, _ := args.Get(0).([]*models.SocialAccount)
	return accounts, args.Error(1)
}

func (m *mockTokenStore) Put(ctx context.Context, account *models.SocialAccount) (int64, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTokenStore) UpdateToken(ctx context.Context, accountID int64, accessToken string, refreshToken *string, expiresAt *time.Time) error {
	args := m.Called(ctx, accountID, accessToken, refreshToken, expiresAt)
	return args.Error(0)
}

func (m *mockTokenStore) ListExpiring(ctx context.Context, platform string, before time.Time) ([]*models.SocialAccount, error) {
	args := m.Called(ctx, platform, before)
	accounts, _ := args.Get(0).([]*models.SocialAccount)
	return accounts, args.Error(1)
}

type mockSocialAccountRepository struct {
	mock.Mock
}

func (m *mockSocialAccountRepository) Upsert(ctx context.Context, sa *models.SocialAccount) (int64, error) {
	args := m.Called(ctx, sa)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSocialAccountRepository) GetByUserAndPlatform(ctx context.Context, userID int64, platform string) (*models.SocialAccount, error) {
	args := m.Called(ctx, userID, platform)
	sa, _ := args.Get(0).(*models.SocialAccount)
	return sa, args.Error(1)
}

func (m *mockSocialAccountRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	args := m.Called(ctx, userID)
	accounts, _ := args.Get(0).([]*models.SocialAccount)
	return accounts, args.Error(1)
}

func (m *mockSocialAccountRepository) ListExpiring(ctx context.Context, platform string, before time.Time) ([]*models.SocialAccount, error) {
	args := m.Called(ctx, platform, before)
	accounts, _ := args.Get(0).([]*models.SocialAccount)
	return accounts, args.Error(1)
}

func (m *mockSocialAccountRepository) SetToken(ctx context.Context, id int64, accessToken string, refreshToken *string, expiresAt *time.Time) error {
	args := m.Called(ctx, id, accessToken, refreshToken, expiresAt)
	return args.Error(0)
}

type mockPostRepository struct {
	mock.Mock
}

func (m *mockPostRepository) Upsert(ctx context.Context, post *models.Post) (int64, bool, error) {
	args := m.Called(ctx, post)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *mockPostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	args := m.Called(ctx, id)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *mockPostRepository) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

type mockPostAnalyticsRepository struct {
	mock.Mock
}

func (m *mockPostAnalyticsRepository) Create(ctx context.Context, pa *models.PostAnalytics) (int64, error) {
	args := m.Called(ctx, pa)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPostAnalyticsRepository) ListLatestByUserID(ctx context.Context, userID int64) ([]*models.PostWithLatestAnalytics, error) {
	args := m.Called(ctx, userID)
	rows, _ := args.Get(0).([]*models.PostWithLatestAnalytics)
	return rows, args.Error(1)
}

func (m *mockPostAnalyticsRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.PostAnalytics, error) {
	args := m.Called(ctx, postID)
	rows, _ := args.Get(0).([]*models.PostAnalytics)
	return rows, args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Bool(1), args.Error(2)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Bool(1), args.Error(2)
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

// stubFetcher serves canned posts and counters and records what it was asked.
type stubFetcher struct {
	posts     []transfer.RawPost
	counters  map[string]transfer.RawCounters
	listErr   error
	fetchErr  error
	listCalls int
	fetchIDs  []string
}

func (f *stubFetcher) ListRecentPosts(ctx context.Context, account *models.SocialAccount, token string) ([]transfer.RawPost, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.posts, nil
}

func (f *stubFetcher) FetchEngagement(ctx context.Context, account *models.SocialAccount, token string, postIDs []string) (map[string]transfer.RawCounters, error) {
	f.fetchIDs = postIDs
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.counters, nil
}

type stubRefresher struct {
	token string
	err   error
	calls int
}

func (r *stubRefresher) EnsureValid(ctx context.Context, account *models.SocialAccount) (string, error) {
	r.calls++
	return r.token, r.err
}

func (r *stubRefresher) Refresh(ctx context.Context, account *models.SocialAccount) (string, error) {
	return r.EnsureValid(ctx, account)
}

func strPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}
