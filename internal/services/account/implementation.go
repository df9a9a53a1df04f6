package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"mystical-alchemist/backend-api/internal/db"
	"mystical-alchemist/backend-api/pkg/config"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type accountService struct {
	config  config.Config
	logger  *zap.Logger
	dbConn  db.DBTX
	queries *db.Queries
}

func NewAccountService(cfg config.Config, logger *zap.Logger, dbConn db.DBTX) Service {
	return &accountService{
		config:  cfg,
		logger:  logger,
		dbConn:  dbConn,
		queries: db.New(),
	}
}

func (s *accountService) GetUser(ctx context.Context, userID int64) (*db.User, error) {
	user, err := s.queries.GetUser(ctx, s.dbConn, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, userID int64, upd *ProfileUpdate) (*db.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	username := user.Username
	if requested := strings.TrimSpace(upd.Username); requested != "" && requested != user.Username {
		existing, err := s.queries.GetUserByUsername(ctx, s.dbConn, requested)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if existing != nil && existing.UserID != userID {
			return nil, ErrUsernameTaken
		}
		username = requested
	}

	avatar := user.Avatar
	if upd.Avatar != "" {
		avatar = upd.Avatar
	}
	specialty := user.Specialty
	if upd.Specialty != "" {
		specialty = upd.Specialty
	}
	tutorialCompleted := user.TutorialCompleted
	if upd.TutorialCompleted != nil {
		if *upd.TutorialCompleted {
			tutorialCompleted = 1
		} else {
			tutorialCompleted = 0
		}
	}

	err = s.queries.UpdateUserProfile(ctx, s.dbConn, &db.UpdateUserProfileParams{
		Username:          username,
		Avatar:            avatar,
		Specialty:         specialty,
		TutorialCompleted: tutorialCompleted,
		UserID:            userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	updated, err := s.queries.GetUser(ctx, s.dbConn, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve updated user: %w", err)
	}
	s.logger.Debug("Profile updated", zap.Int64("user_id", userID))
	return updated, nil
}

func (s *accountService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if !verifyPassword(user.PasswordHash, currentPassword) {
		return ErrIncorrectPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.queries.UpdateUserPassword(ctx, s.dbConn, &db.UpdateUserPasswordParams{
		PasswordHash: string(hash),
		UserID:       userID,
	})
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	s.logger.Info("Password changed", zap.Int64("user_id", userID))
	return nil
}

func (s *accountService) DeleteAccount(ctx context.Context, userID int64, password string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if !verifyPassword(user.PasswordHash, password) {
		return ErrIncorrectPassword
	}

	affected, err := s.queries.DeleteUser(ctx, s.dbConn, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	s.logger.Info("Account deleted", zap.Int64("user_id", userID), zap.String("username", user.Username))
	return nil
}

func verifyPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
