package handlers

import (
	"strconv"

	"mystical-alchemist/backend-api/internal/services/leaderboard"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type LeaderboardHandlers struct {
	service leaderboard.Service
	logger  *zap.Logger
}

func NewLeaderboardHandlers(service leaderboard.Service, logger *zap.Logger) *LeaderboardHandlers {
	return &LeaderboardHandlers{
		service: service,
		logger:  logger,
	}
}

type EntryResponse struct {
	Rank      int64  `json:"rank"`
	Username  string `json:"username"`
	Avatar    string `json:"avatar"`
	BestScore int64  `json:"bestScore"`
	Level     string `json:"level"`
}

// GetLeaderboard handles GET /api/leaderboard. The response body is the bare
// ranked array, not an envelope.
func (h *LeaderboardHandlers) GetLeaderboard(c *fiber.Ctx) error {
	limit := int64(leaderboard.DefaultLimit)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			limit = parsed
		}
	}

	entries, err := h.service.TopPlayers(c.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to load leaderboard", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error loading leaderboard",
		})
	}

	resp := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, EntryResponse{
			Rank:      e.Rank,
			Username:  e.Username,
			Avatar:    e.Avatar,
			BestScore: e.BestScore,
			Level:     e.Level,
		})
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}
