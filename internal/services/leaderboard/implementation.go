package leaderboard

import (
	"context"
	"fmt"

	"mystical-alchemist/backend-api/internal/db"
	"mystical-alchemist/backend-api/pkg/config"

	"go.uber.org/zap"
)

type leaderboardService struct {
	config  config.Config
	logger  *zap.Logger
	dbConn  db.DBTX
	queries *db.Queries
}

func NewLeaderboardService(cfg config.Config, logger *zap.Logger, dbConn db.DBTX) Service {
	return &leaderboardService{
		config:  cfg,
		logger:  logger,
		dbConn:  dbConn,
		queries: db.New(),
	}
}

func (s *leaderboardService) TopPlayers(ctx context.Context, limit int64) ([]*Entry, error) {
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}

	rows, err := s.queries.TopPlayersByBestScore(ctx, s.dbConn, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}

	entries := make([]*Entry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, &Entry{
			Rank:      int64(i + 1),
			Username:  row.Username,
			Avatar:    row.Avatar,
			BestScore: row.BestScore,
			Level:     row.Level,
		})
	}
	return entries, nil
}
