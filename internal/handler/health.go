package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"collabboard-backend/internal/cache"
)

// HealthHandler reports process and dependency health.
type HealthHandler struct {
	hub       *BoardHub
	cache     *cache.RedisClient
	startedAt time.Time
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(hub *BoardHub, redisClient *cache.RedisClient) *HealthHandler {
	return &HealthHandler{hub: hub, cache: redisClient, startedAt: time.Now()}
}

// ComponentCheck is one dependency's status.
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is the full health report.
type HealthResponse struct {
	Status      string                    `json:"status"`
	Timestamp   string                    `json:"timestamp"`
	Uptime      string                    `json:"uptime"`
	Connections int                       `json:"connections"`
	Checks      map[string]ComponentCheck `json:"checks"`
}

// Check reports overall status including the optional Redis backend.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	response := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().Format(time.RFC3339),
		Uptime:      time.Since(h.startedAt).String(),
		Connections: h.hub.ClientCount(),
		Checks:      make(map[string]ComponentCheck),
	}

	if h.cache != nil {
		redisStart := time.Now()
		if err := h.cache.Health(c.Context()); err != nil {
			// History is an optional convenience; a dead Redis degrades
			// rather than fails the service.
			response.Status = "degraded"
			response.Checks["redis"] = ComponentCheck{
				Status: "unhealthy",
				Error:  "redis ping failed",
			}
		} else {
			response.Checks["redis"] = ComponentCheck{
				Status:  "healthy",
				Latency: time.Since(redisStart).String(),
			}
		}
	} else {
		response.Checks["redis"] = ComponentCheck{Status: "not_configured"}
	}

	return c.JSON(response)
}

// Liveness is the bare liveness probe.
func (h *HealthHandler) Liveness(c *fiber.Ctx) error {
	return c.SendString("OK")
}

// Readiness reports readiness to accept connections.
func (h *HealthHandler) Readiness(c *fiber.Ctx) error {
	return c.SendString("READY")
}
