package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
}

// Enabled reports whether raw payload archiving has enough configuration to run.
func (r R2) Enabled() bool {
	return r.AccountID != "" && r.AccessKey != "" && r.SecretKey != "" && r.BucketName != ""
}

type Config struct {
	HTTPAddr              string
	FacebookAppID         string
	FacebookAppSecret     string
	InstagramRedirectURI  string
	GoogleClientID        string
	GoogleClientSecret    string
	GoogleRedirectURI     string
	TwitterClientID       string
	TwitterClientSecret   string
	TwitterRedirectURI    string
	PostgresURI           string
	RedisURI              string
	FrontendURL           string
	R2                    R2
	SecretKey             string
	TokenEncryptionKey    string
	UpstreamTimeout       time.Duration
	InstagramRatePerSec   float64
	TokenRefreshInterval  time.Duration
	IngestQueueConcurrent int
	LogLevel              string
	LogFormat             string
}

func LoadConfig() *Config {
	return &Config{
		HTTPAddr:             getEnv("HTTP_ADDR", ":3000"),
		FacebookAppID:        getEnv("FACEBOOK_APP_ID", ""),
		FacebookAppSecret:    getEnv("FACEBOOK_APP_SECRET", ""),
		InstagramRedirectURI: getEnv("INSTAGRAM_REDIRECT_URI", ""),
		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:    getEnv("GOOGLE_REDIRECT_URI", ""),
		TwitterClientID:      getEnv("TWITTER_CLIENT_ID", ""),
		TwitterClientSecret:  getEnv("TWITTER_CLIENT_SECRET", ""),
		TwitterRedirectURI:   getEnv("TWITTER_REDIRECT_URI", ""),
		PostgresURI:          getEnv("POSTGRES_URI", ""),
		RedisURI:             getEnv("REDIS_URI", ""),
		FrontendURL:          getEnv("FRONTEND_URL", "http://localhost:5173"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
		},
		SecretKey:             getEnv("SECRET_KEY", ""),
		TokenEncryptionKey:    getEnv("TOKEN_ENCRYPTION_KEY", ""),
		UpstreamTimeout:       getEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second),
		InstagramRatePerSec:   getEnvFloat("INSTAGRAM_RATE_PER_SECOND", 5),
		TokenRefreshInterval:  getEnvDuration("TOKEN_REFRESH_INTERVAL", 10*time.Minute),
		IngestQueueConcurrent: getEnvInt("INGEST_QUEUE_CONCURRENCY", 5),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "console"),
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.PostgresURI == "" {
		return errors.New("POSTGRES_URI is required")
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	switch len(c.TokenEncryptionKey) {
	case 0, 16, 24, 32:
	default:
		return fmt.Errorf("TOKEN_ENCRYPTION_KEY must be 16, 24 or 32 bytes, got %d", len(c.TokenEncryptionKey))
	}
	if c.UpstreamTimeout <= 0 {
		return errors.New("UPSTREAM_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
