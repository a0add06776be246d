package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/maheshrc27/influence-api/internal/models"
	"github.com/maheshrc27/influence-api/internal/transfer"
	"github.com/maheshrc27/influence-api/pkg/utils"
)

const testSecret = "test-secret"

func TestAuthService_Register(t *testing.T) {
	users := new(mockUserRepository)
	users.On("GetByEmail", mock.Anything, "creator@example.com").Return(nil, false, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "creator@example.com" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
	})).Return(int64(5), nil)

	resp, err := NewAuthService(testSecret, users).Register(context.Background(), &transfer.RegisterRequest{
		Username: "creator",
		Email:    "Creator@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.User.ID)

	claims, err := utils.ValidateToken(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(5), claims.UserID)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	users := new(mockUserRepository)

	_, err := NewAuthService(testSecret, users).Register(context.Background(), &transfer.RegisterRequest{
		Username: "creator",
		Email:    "not-an-email",
		Password: "password123",
	})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "email", ve.Field)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	users := new(mockUserRepository)
	users.On("GetByEmail", mock.Anything, "creator@example.com").Return(&models.User{ID: 1}, true, nil)

	_, err := NewAuthService(testSecret, users).Register(context.Background(), &transfer.RegisterRequest{
		Username: "creator",
		Email:    "creator@example.com",
		Password: "password123",
	})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	users := new(mockUserRepository)
	users.On("GetByEmail", mock.Anything, "creator@example.com").
		Return(&models.User{ID: 5, Username: "creator", Email: "creator@example.com", PasswordHash: string(hash)}, true, nil)
	users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, false, nil)

	svc := NewAuthService(testSecret, users)

	resp, err := svc.Login(context.Background(), &transfer.LoginRequest{Email: "creator@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "creator", resp.User.Username)

	_, err = svc.Login(context.Background(), &transfer.LoginRequest{Email: "creator@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &transfer.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Me(t *testing.T) {
	users := new(mockUserRepository)
	users.On("GetByID", mock.Anything, int64(5)).
		Return(&models.User{ID: 5, Username: "creator", Email: "creator@example.com", PasswordHash: "hash"}, true, nil)
	users.On("GetByID", mock.Anything, int64(6)).Return(nil, false, nil)

	svc := NewAuthService(testSecret, users)

	me, err := svc.Me(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, &transfer.UserResponse{ID: 5, Username: "creator", Email: "creator@example.com"}, me)

	_, err = svc.Me(context.Background(), 6)
	assert.ErrorIs(t, err, ErrNotFound)
}
