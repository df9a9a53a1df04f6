package handlers

import (
	"mystical-alchemist/backend-api/internal/services/puzzle"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type PuzzleHandlers struct {
	service puzzle.Service
	logger  *zap.Logger
}

func NewPuzzleHandlers(service puzzle.Service, logger *zap.Logger) *PuzzleHandlers {
	return &PuzzleHandlers{
		service: service,
		logger:  logger,
	}
}

// GetPuzzle handles GET /api/puzzle
func (h *PuzzleHandlers) GetPuzzle(c *fiber.Ctx) error {
	p, err := h.service.FetchPuzzle(c.Context(), c.Query("out"), c.Query("base64"))
	if err != nil {
		h.logger.Error("Failed to fetch puzzle", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch puzzle",
		})
	}

	resp := fiber.Map{
		"success":  true,
		"question": p.Question,
		"solution": p.Solution,
		"type":     p.Type,
		"format":   p.Format,
	}
	if p.Format == "json" {
		resp["isBase64"] = p.IsBase64
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}
