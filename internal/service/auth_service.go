package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/maheshrc27/influence-api/internal/models"
	"github.com/maheshrc27/influence-api/internal/repository"
	"github.com/maheshrc27/influence-api/internal/transfer"
	"github.com/maheshrc27/influence-api/pkg/utils"
)

const SessionTokenTTL = 24 * time.Hour

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService interface {
	Register(ctx context.Context, req *transfer.RegisterRequest) (*transfer.AuthResponse, error)
	Login(ctx context.Context, req *transfer.LoginRequest) (*transfer.AuthResponse, error)
	Me(ctx context.Context, userID int64) (*transfer.UserResponse, error)
}

type authService struct {
	secretKey string
	u         repository.UserRepository
}

func NewAuthService(secretKey string, u repository.UserRepository) AuthService {
	return &authService{
		secretKey: secretKey,
		u:         u,
	}
}

func (s *authService) Register(ctx context.Context, req *transfer.RegisterRequest) (*transfer.AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	_, exists, err := s.u.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, newValidationError("email", "email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	user := &models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		PasswordHash: string(hash),
	}
	id, err := s.u.Create(ctx, user)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, newValidationError("username", "username or email is already taken")
		}
		return nil, err
	}
	user.ID = id

	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, req *transfer.LoginRequest) (*transfer.AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, exists, err := s.u.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Me returns the profile of the user a session token was issued to.
func (s *authService) Me(ctx context.Context, userID int64) (*transfer.UserResponse, error) {
	user, exists, err := s.u.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func toUserResponse(user *models.User) transfer.UserResponse {
	return transfer.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

func (s *authService) issue(user *models.User) (*transfer.AuthResponse, error) {
	token, err := utils.GenerateToken(s.secretKey, user.ID, SessionTokenTTL)
	if err != nil {
		return nil, err
	}

	return &transfer.AuthResponse{
		Token: token,
		User:  toUserResponse(user),
	}, nil
}
