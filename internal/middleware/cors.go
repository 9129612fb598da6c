package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/config"
	"github.com/gofiber/fiber/v2"
)

const (
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization"
)

// CORS stamps the allow headers on every response, including errors and unknown
// routes, and answers OPTIONS with 204 before routing. With a single configured
// origin (or "*") the value is sent as is; with a list the request Origin is echoed
// when it is allowed.
func CORS(cfg *config.Config) fiber.Handler {
	origins := parseCSV(cfg.CORSOrigins)
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	single := len(origins) == 1 || contains(origins, "*")
	fixed := origins[0]
	if contains(origins, "*") {
		fixed = "*"
	}

	return func(c *fiber.Ctx) error {
		if single {
			c.Set(fiber.HeaderAccessControlAllowOrigin, fixed)
		} else {
			c.Vary(fiber.HeaderOrigin)
			if origin := c.Get(fiber.HeaderOrigin); contains(origins, origin) {
				c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
			}
		}
		c.Set(fiber.HeaderAccessControlAllowMethods, corsAllowMethods)
		c.Set(fiber.HeaderAccessControlAllowHeaders, corsAllowHeaders)

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
