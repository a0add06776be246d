package service

import (
	"time"

	"github.com/maheshrc27/influence-api/internal/models"
)

var supportedPlatforms = models.Platforms

func GetExpiresAt(now time.Time, expiresIn int64, fallback time.Duration) time.Time {
	if expiresIn <= 0 {
		return now.Add(fallback)
	}
	return now.Add(time.Duration(expiresIn) * time.Second)
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
