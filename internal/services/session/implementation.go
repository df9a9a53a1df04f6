package session

import (
	"context"
	"fmt"

	"mystical-alchemist/backend-api/internal/db"
	"mystical-alchemist/backend-api/pkg/config"

	"go.uber.org/zap"
)

type sessionService struct {
	config  config.Config
	logger  *zap.Logger
	dbConn  db.DBTX
	queries *db.Queries
}

func NewSessionService(cfg config.Config, logger *zap.Logger, dbConn db.DBTX) Service {
	return &sessionService{
		config:  cfg,
		logger:  logger,
		dbConn:  dbConn,
		queries: db.New(),
	}
}

func (s *sessionService) RecordSession(ctx context.Context, userID int64, result *Result) (*Outcome, error) {
	// Single statement with server-side arithmetic: concurrent sessions for
	// the same account cannot lose increments.
	affected, err := s.queries.ApplySessionResult(ctx, s.dbConn, &db.ApplySessionResultParams{
		Score:      result.Score,
		GoldEarned: result.GoldEarned,
		UserID:     userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply session result: %w", err)
	}
	if affected == 0 {
		return nil, ErrUserNotFound
	}

	user, err := s.queries.GetUser(ctx, s.dbConn, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user after session: %w", err)
	}

	// Recompute the persisted level from the current best score. best_score
	// only grows, so the label never downgrades.
	level := user.Level
	if rank, ok := RankForScore(user.BestScore); ok && rank != user.Level {
		err = s.queries.UpdateUserLevel(ctx, s.dbConn, &db.UpdateUserLevelParams{
			Level:  rank,
			UserID: userID,
		})
		if err != nil {
			s.logger.Warn("Failed to update level after session",
				zap.Int64("user_id", userID),
				zap.String("level", rank),
				zap.Error(err))
		} else {
			level = rank
		}
	}

	sessionRank, ok := RankForScore(result.Score)
	if !ok {
		sessionRank = s.config.Account.StartingLevel
	}

	s.logger.Info("Session recorded",
		zap.Int64("user_id", userID),
		zap.Int64("score", result.Score),
		zap.Int64("gold_earned", result.GoldEarned),
		zap.Bool("survived", result.Survived))

	return &Outcome{
		Stats: Stats{
			BestScore:   user.BestScore,
			Level:       level,
			GamesPlayed: user.GamesPlayed,
			TotalGold:   user.TotalGold,
			TotalScore:  user.TotalScore,
		},
		SessionRank: sessionRank,
	}, nil
}
