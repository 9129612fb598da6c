package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// RecordProbe is the part of the record store the health check needs.
type RecordProbe interface {
	Ping(ctx context.Context) error
	HasSchema(ctx context.Context) (bool, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthDeps describes what the process was started with. Nil probes are reported as
// missing bindings.
type HealthDeps struct {
	Records          RecordProbe
	ImageStoreReady  bool
	Cache            Pinger
	AdminUsernameSet bool
	AdminPasswordSet bool
}

type HealthHandler struct {
	deps    HealthDeps
	timeout time.Duration
}

func NewHealthHandler(deps HealthDeps) *HealthHandler {
	return &HealthHandler{deps: deps, timeout: 3 * time.Second}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	resp := dto.HealthResponse{
		API:       "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Bindings: map[string]string{
			"DB":         binding(h.deps.Records != nil),
			"ImageStore": binding(h.deps.ImageStoreReady),
			"Cache":      binding(h.deps.Cache != nil),
		},
		EnvVars: map[string]string{
			"ADMIN_USERNAME": envState(h.deps.AdminUsernameSet),
			"ADMIN_PASSWORD": envState(h.deps.AdminPasswordSet),
		},
	}

	healthy := h.deps.Records != nil && h.deps.ImageStoreReady
	if h.deps.Records != nil {
		if err := h.deps.Records.Ping(ctx); err != nil {
			slog.Error("health check: database unreachable", "action", "health", "error", err)
			resp.Database = "error: database unreachable"
			healthy = false
		} else {
			resp.Database = "connected"
			ok, err := h.deps.Records.HasSchema(ctx)
			switch {
			case err != nil:
				slog.Error("health check: schema lookup failed", "action", "health", "error", err)
				resp.ComplaintsTable = "unknown"
				healthy = false
			case ok:
				resp.ComplaintsTable = "exists"
			default:
				resp.ComplaintsTable = "missing - run migrations"
				healthy = false
			}
		}
	}

	if h.deps.Cache != nil {
		if err := h.deps.Cache.Ping(ctx); err != nil {
			slog.Warn("health check: cache unreachable", "error", err)
			resp.Bindings["Cache"] = "unreachable"
		}
	}

	if !healthy {
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}
	return c.JSON(resp)
}

func binding(ok bool) string {
	if ok {
		return "configured"
	}
	return "missing"
}

func envState(ok bool) string {
	if ok {
		return "set"
	}
	return "not set"
}
