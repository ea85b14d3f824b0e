package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Config holds the HTTP server settings.
type Config struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	RateLimit    int // requests per minute per client, 0 disables
	AccessLog    bool
}

// New builds the Fiber app with middleware and routes.
func New(cfg Config, h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		StrictRouting: true,
		ServerHeader:  "financial-dashboard",
		AppName:       "financial-dashboard",
		ReadTimeout:   cfg.ReadTimeout,
		WriteTimeout:  cfg.WriteTimeout,
		BodyLimit:     1024 * 1024,
		ErrorHandler:  CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if cfg.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
		}))
	}
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       3600,
	}))
	if cfg.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit,
			Expiration: 1 * time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
					Error: "Rate limit exceeded. Please try again later.",
					Code:  fiber.StatusTooManyRequests,
				})
			},
		}))
	}

	app.Get("/health", h.Health)

	v1 := app.Group("/v1")
	v1.Get("/periods", h.Periods)
	v1.Get("/tickers", h.Tickers)
	v1.Get("/tickers/:symbol", h.Ticker)
	v1.Get("/analytics/:symbol", h.Analytics)
	v1.Get("/runs", h.Runs)

	return app
}
