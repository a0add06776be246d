package transfer

import "github.com/golang-jwt/jwt/v5"

type CustomClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// StateClaims travel through the OAuth provider as the state parameter.
type StateClaims struct {
	UserID   int64  `json:"user_id"`
	Platform string `json:"platform"`
	Verifier string `json:"cv,omitempty"`
	jwt.RegisteredClaims
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type AuthURLResponse struct {
	AuthURL string `json:"auth_url"`
}

type AccountResponse struct {
	ID             int64   `json:"id"`
	Platform       string  `json:"platform"`
	AccountID      string  `json:"account_id"`
	AccountName    string  `json:"account_name"`
	TokenExpiresAt *string `json:"token_expires_at"`
}
