package api

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maheshrc27/influence-api/internal/api/handlers"
	"github.com/maheshrc27/influence-api/internal/api/middleware"
)

// NewApp returns a fiber app with the JSON codec, error handler and
// request metrics shared by the server and the handler tests.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
		BodyLimit:    1024 * 1024,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.Metrics())
	return app
}

type Handlers struct {
	Auth      *handlers.AuthHandler
	Platform  *handlers.PlatformHandler
	Ingest    *handlers.IngestHandler
	Analytics *handlers.AnalyticsHandler
}

// RegisterRoutes mounts the public auth routes, the OAuth flow and the
// authenticated /api group on app.
func RegisterRoutes(app *fiber.App, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	auth := app.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Get("/:platform/callback", h.Platform.CallbackHandler)
	auth.Get("/:platform", authMiddleware.AuthMiddleware(), h.Platform.AuthURL)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	api.Get("/me", h.Auth.Me)
	api.Get("/accounts", h.Platform.ListSocialAccounts)

	users := api.Group("/users/:userID", authMiddleware.RequireSelf())
	users.Post("/ingest/:platform", h.Ingest.Ingest)
	users.Get("/analytics/overview", h.Analytics.Overview)
	users.Get("/analytics/timeseries", h.Analytics.Timeseries)
	users.Get("/analytics/performance", h.Analytics.Performance)
	users.Get("/analytics/best-time", h.Analytics.BestTime)
	users.Get("/posts/:postID/history", h.Analytics.PostHistory)
}
