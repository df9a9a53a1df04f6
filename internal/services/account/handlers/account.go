package handlers

import (
	"errors"

	"mystical-alchemist/backend-api/internal/middleware"
	"mystical-alchemist/backend-api/internal/services/account"
	authhandlers "mystical-alchemist/backend-api/internal/services/auth/handlers"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AccountHandlers struct {
	service account.Service
	logger  *zap.Logger
}

func NewAccountHandlers(service account.Service, logger *zap.Logger) *AccountHandlers {
	return &AccountHandlers{
		service: service,
		logger:  logger,
	}
}

type UpdateProfileRequest struct {
	Username          string `json:"username"`
	Avatar            string `json:"avatar"`
	Specialty         string `json:"specialty"`
	TutorialCompleted *bool  `json:"tutorialCompleted"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// GetProfile handles GET /api/auth/profile
func (h *AccountHandlers) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid token",
		})
	}

	user, err := h.service.GetUser(c.Context(), userID)
	if err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "User not found",
			})
		}
		h.logger.Error("Failed to load profile", zap.Error(err), zap.Int64("user_id", userID))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	resp := fiber.Map{
		"success": true,
		"user":    authhandlers.NewUserResponse(user),
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// UpdateProfile handles PUT /api/auth/profile
func (h *AccountHandlers) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid token",
		})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	user, err := h.service.UpdateProfile(c.Context(), userID, &account.ProfileUpdate{
		Username:          req.Username,
		Avatar:            req.Avatar,
		Specialty:         req.Specialty,
		TutorialCompleted: req.TutorialCompleted,
	})
	if err != nil {
		switch {
		case errors.Is(err, account.ErrUsernameTaken):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Username already taken",
			})
		case errors.Is(err, account.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "User not found",
			})
		default:
			h.logger.Error("Failed to update profile", zap.Error(err), zap.Int64("user_id", userID))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Server error",
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Profile updated",
		"user":    authhandlers.NewUserResponse(user),
	})
}

// ChangePassword handles PUT /api/auth/change-password
func (h *AccountHandlers) ChangePassword(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid token",
		})
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Current and new password are required",
		})
	}
	if len(req.NewPassword) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Password must be at least 6 characters",
		})
	}

	if err := h.service.ChangePassword(c.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, account.ErrIncorrectPassword):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Current password is incorrect",
			})
		case errors.Is(err, account.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "User not found",
			})
		default:
			h.logger.Error("Failed to change password", zap.Error(err), zap.Int64("user_id", userID))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Server error",
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Password changed successfully",
	})
}

// DeleteAccount handles DELETE /api/auth/account
func (h *AccountHandlers) DeleteAccount(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid token",
		})
	}

	var req DeleteAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Password required to delete account",
		})
	}

	if err := h.service.DeleteAccount(c.Context(), userID, req.Password); err != nil {
		switch {
		case errors.Is(err, account.ErrIncorrectPassword):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Incorrect password",
			})
		case errors.Is(err, account.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "User not found",
			})
		default:
			h.logger.Error("Failed to delete account", zap.Error(err), zap.Int64("user_id", userID))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Server error",
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Account deleted successfully",
	})
}
