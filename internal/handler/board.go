package handler

import (
	"github.com/gofiber/fiber/v2"

	"collabboard-backend/internal/cache"
)

// BoardHandler serves read-only REST views of the board.
type BoardHandler struct {
	hub   *BoardHub
	cache *cache.RedisClient
}

// NewBoardHandler creates a BoardHandler.
func NewBoardHandler(hub *BoardHub, redisClient *cache.RedisClient) *BoardHandler {
	return &BoardHandler{hub: hub, cache: redisClient}
}

// GetBoard returns the current board snapshot, the same payload a joining
// websocket client receives as init-board.
func (h *BoardHandler) GetBoard(c *fiber.Ctx) error {
	return c.JSON(h.hub.Snapshot())
}

// GetRecentChat returns the recorded chat history. 404 when no history
// backend is configured.
func (h *BoardHandler) GetRecentChat(c *fiber.Ctx) error {
	if h.cache == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "chat history not configured"})
	}

	count := c.QueryInt("count", 50)
	if count <= 0 || count > 200 {
		count = 50
	}

	messages, err := h.cache.RecentChatMessages(c.Context(), int64(count))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch chat history"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"messages": messages,
	})
}
