package handlers

import (
	"errors"

	"mystical-alchemist/backend-api/internal/middleware"
	"mystical-alchemist/backend-api/internal/services/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SessionHandlers struct {
	service session.Service
	logger  *zap.Logger
}

func NewSessionHandlers(service session.Service, logger *zap.Logger) *SessionHandlers {
	return &SessionHandlers{
		service: service,
		logger:  logger,
	}
}

type RecordSessionRequest struct {
	Score             int64 `json:"score"`
	RecipesDiscovered int64 `json:"recipesDiscovered"`
	QuestsCompleted   int64 `json:"questsCompleted"`
	GoldEarned        int64 `json:"goldEarned"`
	Duration          int64 `json:"duration"`
	Survived          bool  `json:"survived"`
	LivesRemaining    int64 `json:"livesRemaining"`
}

type StatsResponse struct {
	BestScore   int64  `json:"bestScore"`
	Level       string `json:"level"`
	GamesPlayed int64  `json:"gamesPlayed"`
	TotalGold   int64  `json:"totalGold"`
	TotalScore  int64  `json:"totalScore"`
}

// RecordSession handles POST /api/sessions
func (h *SessionHandlers) RecordSession(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid token",
		})
	}

	var req RecordSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.Score < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Score must be a non-negative number",
		})
	}

	outcome, err := h.service.RecordSession(c.Context(), userID, &session.Result{
		Score:             req.Score,
		RecipesDiscovered: req.RecipesDiscovered,
		QuestsCompleted:   req.QuestsCompleted,
		GoldEarned:        req.GoldEarned,
		Duration:          req.Duration,
		Survived:          req.Survived,
		LivesRemaining:    req.LivesRemaining,
	})
	if err != nil {
		if errors.Is(err, session.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "User not found",
			})
		}
		h.logger.Error("Failed to record session", zap.Error(err), zap.Int64("user_id", userID))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error saving session",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Session saved successfully",
		"stats": StatsResponse{
			BestScore:   outcome.Stats.BestScore,
			Level:       outcome.Stats.Level,
			GamesPlayed: outcome.Stats.GamesPlayed,
			TotalGold:   outcome.Stats.TotalGold,
			TotalScore:  outcome.Stats.TotalScore,
		},
		"sessionRank": outcome.SessionRank,
	})
}
