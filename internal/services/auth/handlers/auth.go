package handlers

import (
	"errors"
	"strings"

	"mystical-alchemist/backend-api/internal/db"
	"mystical-alchemist/backend-api/internal/db/types"
	"mystical-alchemist/backend-api/internal/services/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandlers struct {
	service auth.Service
	logger  *zap.Logger
}

func NewAuthHandlers(service auth.Service, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		service: service,
		logger:  logger,
	}
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Avatar    string `json:"avatar"`
	Specialty string `json:"specialty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type StatsResponse struct {
	BestScore   int64  `json:"bestScore"`
	Level       string `json:"level"`
	GamesPlayed int64  `json:"gamesPlayed"`
	TotalGold   int64  `json:"totalGold"`
	TotalScore  int64  `json:"totalScore"`
}

// UserResponse is the public account view. The password hash is never part
// of it.
type UserResponse struct {
	ID                int64           `json:"id"`
	Username          string          `json:"username"`
	Email             string          `json:"email"`
	Avatar            string          `json:"avatar"`
	Specialty         string          `json:"specialty"`
	TutorialCompleted bool            `json:"tutorialCompleted"`
	CreatedAt         types.Timestamp `json:"createdAt"`
	Stats             StatsResponse   `json:"stats"`
}

func NewUserResponse(user *db.User) UserResponse {
	return UserResponse{
		ID:                user.UserID,
		Username:          user.Username,
		Email:             user.Email,
		Avatar:            user.Avatar,
		Specialty:         user.Specialty,
		TutorialCompleted: user.TutorialCompleted != 0,
		CreatedAt:         user.CreatedAt,
		Stats: StatsResponse{
			BestScore:   user.BestScore,
			Level:       user.Level,
			GamesPlayed: user.GamesPlayed,
			TotalGold:   user.TotalGold,
			TotalScore:  user.TotalScore,
		},
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Username, email and password are required",
		})
	}
	if len(req.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Password must be at least 6 characters",
		})
	}

	user, err := h.service.RegisterUser(c.Context(), &auth.RegisterParams{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Avatar:    req.Avatar,
		Specialty: req.Specialty,
	})
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateUsername) || errors.Is(err, auth.ErrDuplicateEmail) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "User with this email or username already exists",
			})
		}
		h.logger.Error("Registration failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error during registration",
		})
	}

	token, err := h.service.GenerateToken(user.UserID, user.Username)
	if err != nil {
		h.logger.Error("Token generation failed", zap.Error(err), zap.Int64("user_id", user.UserID))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error during registration",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registration successful",
		"token":   token,
		"user":    NewUserResponse(user),
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Username and password are required",
		})
	}

	user, err := h.service.Authenticate(c.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid credentials",
			})
		}
		h.logger.Error("Login failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error during login",
		})
	}

	token, err := h.service.GenerateToken(user.UserID, user.Username)
	if err != nil {
		h.logger.Error("Token generation failed", zap.Error(err), zap.Int64("user_id", user.UserID))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error during login",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    NewUserResponse(user),
	})
}
