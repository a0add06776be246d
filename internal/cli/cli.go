// Package cli holds the influencectl subcommands.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	config "github.com/maheshrc27/influence-api/configs"
	"github.com/maheshrc27/influence-api/internal/app"
	"github.com/maheshrc27/influence-api/internal/database"
	applog "github.com/maheshrc27/influence-api/internal/logger"
)

// loadConfig reads .env when present, installs the logger and validates the
// configuration.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg := config.LoadConfig()
	applog.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func openDB(ctx context.Context) (*config.Config, *sql.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Open(ctx, cfg.PostgresURI)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

// withApp opens the database, builds the service graph and runs fn.
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	cfg, db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	a, err := app.New(ctx, cfg, db)
	if err != nil {
		return err
	}
	return fn(a)
}
