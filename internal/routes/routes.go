package routes

import (
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Complaint *handlers.ComplaintHandler
	Auth      *handlers.AuthHandler
	Health    *handlers.HealthHandler
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers) {
	// Images written by the disk asset store
	if cfg.AssetBackend == config.AssetBackendDisk {
		app.Static("/uploads", cfg.AssetDir, fiber.Static{
			ByteRange: true,
			MaxAge:    86400,
		})
	}

	api := app.Group(strings.TrimRight(cfg.APIPrefix, "/"))
	guard := middleware.AdminGuard(cfg)

	api.Get("/health", h.Health.Check)

	// Login: 10 req/min per IP
	api.Post("/login", perIPLimiter(10), h.Auth.Login)

	// Public read surface
	api.Get("/complaints", h.Complaint.List)
	api.Get("/complaints/stats", guard, h.Complaint.Stats)
	api.Get("/complaints/:id", h.Complaint.Get)
	api.Get("/complaints/:id/history", h.Complaint.History)

	// Citizen submission, rate limited per IP
	api.Post("/complaints", perIPLimiter(cfg.SubmitRateLimit), h.Complaint.Submit)

	// Officer transitions
	api.Put("/complaints/:id", guard, h.Complaint.Update)
	api.Put("/complaints/:id/reassign", guard, h.Complaint.Reassign)

	// Anything else
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Not found"})
	})
}

// perIPLimiter allows max requests per minute per client IP. A non-positive max
// disables the limit.
func perIPLimiter(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Error: "Too many requests",
			})
		},
	})
}
