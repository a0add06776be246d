package models

import (
	"time"
)

const (
	PlatformYoutube   = "youtube"
	PlatformInstagram = "instagram"
	PlatformTwitter   = "twitter"
)

// Platforms lists every platform a social account can be connected to.
var Platforms = []string{PlatformYoutube, PlatformInstagram, PlatformTwitter}

// IsPlatform reports whether p is one of the known platform tags.
func IsPlatform(p string) bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

type SocialAccount struct {
	ID             int64      `db:"id" json:"id"`
	UserID         int64      `db:"user_id" json:"user_id"`
	Platform       string     `db:"platform" json:"platform"`
	AccountID      string     `db:"account_id" json:"account_id"`
	AccountName    string     `db:"account_name" json:"account_name"`
	AccessToken    string     `db:"access_token" json:"-"`
	RefreshToken   *string    `db:"refresh_token" json:"-"`
	TokenExpiresAt *time.Time `db:"token_expires_at" json:"token_expires_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// TokenUsable reports whether the access token can be used without a refresh:
// either no expiry is recorded or the expiry lies more than margin after now.
func (sa *SocialAccount) TokenUsable(now time.Time, margin time.Duration) bool {
	if sa.TokenExpiresAt == nil {
		return true
	}
	return sa.TokenExpiresAt.Sub(now) > margin
}
