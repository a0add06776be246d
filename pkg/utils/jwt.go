package utils

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/maheshrc27/influence-api/internal/transfer"
)

const (
	issuer = "influence-api"

	// Session and OAuth state tokens share a key, so each kind carries its
	// own audience and is rejected where the other is expected.
	sessionAudience = "session"
	stateAudience   = "oauth-state"
)

func GenerateToken(secretKey string, userID int64, tokenDuration time.Duration) (string, error) {
	now := time.Now()
	claims := transfer.CustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{sessionAudience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(secretKey))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return signedToken, nil
}

func ValidateToken(secretKey, tokenString string) (*transfer.CustomClaims, error) {
	claims := &transfer.CustomClaims{}
	if err := parse(secretKey, tokenString, sessionAudience, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// GenerateStateToken signs the OAuth state parameter so the callback can
// recover which user started the connection and the PKCE code verifier, if
// the flow uses one.
func GenerateStateToken(secretKey string, userID int64, platform, verifier string, ttl time.Duration) (string, error) {
	nonce, err := NewID()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := transfer.StateClaims{
		UserID:   userID,
		Platform: platform,
		Verifier: verifier,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        nonce,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{stateAudience},
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
}

func ValidateStateToken(secretKey, state, platform string) (*transfer.StateClaims, error) {
	claims := &transfer.StateClaims{}
	if err := parse(secretKey, state, stateAudience, claims); err != nil {
		return nil, err
	}
	if claims.Platform != platform {
		return nil, errors.New("state was issued for a different platform")
	}
	return claims, nil
}

func parse(secretKey, tokenString, audience string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(issuer), jwt.WithAudience(audience))
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}
