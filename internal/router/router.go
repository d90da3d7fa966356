package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/campus-access-api/internal/config"
	"github.com/noah-isme/campus-access-api/internal/handler"
	"github.com/noah-isme/campus-access-api/internal/middleware"
	"github.com/noah-isme/campus-access-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	SessionHandler *handler.SessionHandler
	StudentHandler *handler.StudentHandler
	PaymentHandler *handler.PaymentHandler
	SponsorHandler *handler.SponsorHandler
	ClassHandler   *handler.ClassHandler
	ScanHandler    *handler.ScanHandler
	JWTMiddleware  fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.SessionHandler != nil {
		sessions := api.Group("/sessions", jwtMiddleware)
		deps.SessionHandler.Register(sessions)
	}

	if deps.StudentHandler != nil {
		students := api.Group("/students", jwtMiddleware)
		deps.StudentHandler.Register(students)
	}

	if deps.PaymentHandler != nil {
		payments := api.Group("/payments", jwtMiddleware)
		deps.PaymentHandler.Register(payments)
	}

	if deps.SponsorHandler != nil {
		sponsors := api.Group("/sponsors", jwtMiddleware)
		deps.SponsorHandler.Register(sponsors)
	}

	if deps.ClassHandler != nil {
		classes := api.Group("/classes", jwtMiddleware)
		deps.ClassHandler.Register(classes)
	}

	// Gate scanners authenticate with the same tokens but get a per-device
	// rate limit so a wedged scanner cannot flood the log.
	if deps.ScanHandler != nil {
		scans := api.Group("/scans", jwtMiddleware, middleware.RateLimit("scan", cfg.ScanRateMax, cfg.ScanRateWindow))
		deps.ScanHandler.Register(scans)
	}
}
