package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/robfig/cron"

	config "github.com/maheshrc27/influence-api/configs"
	"github.com/maheshrc27/influence-api/internal/api"
	"github.com/maheshrc27/influence-api/internal/api/handlers"
	"github.com/maheshrc27/influence-api/internal/api/middleware"
	"github.com/maheshrc27/influence-api/internal/app"
	"github.com/maheshrc27/influence-api/internal/database"
	job "github.com/maheshrc27/influence-api/internal/jobs"
	applog "github.com/maheshrc27/influence-api/internal/logger"
	"github.com/maheshrc27/influence-api/internal/queue"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded", "error", err)
	}

	cfg := config.LoadConfig()
	applog.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		fatal("invalid configuration", err)
	}

	ctx := context.Background()

	db, err := database.Open(ctx, cfg.PostgresURI)
	if err != nil {
		fatal("failed to connect to database", err)
	}
	defer closeDB(db)

	if err := database.Migrate(db); err != nil {
		fatal("failed to apply migrations", err)
	}

	a, err := app.New(ctx, cfg, db)
	if err != nil {
		fatal("failed to build services", err)
	}

	var (
		asynqClient *asynq.Client
		asynqServer *asynq.Server
		enqueuer    queue.TaskEnqueuer
	)
	if cfg.RedisURI != "" {
		redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
		asynqClient = asynq.NewClient(redisConn)
		defer asynqClient.Close()
		enqueuer = asynqClient

		asynqServer = asynq.NewServer(redisConn, asynq.Config{
			Concurrency: cfg.IngestQueueConcurrent,
		})
		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeIngestUser, queue.NewQueue(a.Ingest).HandleIngestUserTask)

		go func() {
			slog.Info("starting the asynq server", "concurrency", cfg.IngestQueueConcurrent)
			if err := asynqServer.Run(mux); err != nil {
				fatal("could not start asynq server", err)
			}
		}()
	} else {
		slog.Warn("REDIS_URI is not set, async ingestion is disabled")
	}

	fiberApp := api.NewApp()
	fiberApp.Use(logger.New())
	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	api.RegisterRoutes(fiberApp, api.Handlers{
		Auth:      handlers.NewAuthHandler(a.Auth),
		Platform:  handlers.NewPlatformHandler(a.Platforms, cfg.FrontendURL),
		Ingest:    handlers.NewIngestHandler(a.Ingest, enqueuer),
		Analytics: handlers.NewAnalyticsHandler(a.Analytics),
	}, middleware.NewAuthMiddleware(cfg.SecretKey))

	// cron jobs
	refreshTokenJob := job.NewTokenRefreshJob(a.Store, a.Refresher)
	c := cron.New()
	if err := c.AddFunc("@every "+cfg.TokenRefreshInterval.String(), refreshTokenJob.RefreshTokens); err != nil {
		fatal("invalid token refresh interval", err)
	}
	c.Start()
	defer c.Stop()

	go func() {
		if err := fiberApp.Listen(cfg.HTTPAddr); err != nil {
			fatal("failed to start server", err)
		}
	}()
	slog.Info("server is running", "addr", cfg.HTTPAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	if err := fiberApp.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}
	if asynqServer != nil {
		asynqServer.Shutdown()
	}
	slog.Info("server shutdown complete")
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
		return
	}
	slog.Info("database connection closed")
}
