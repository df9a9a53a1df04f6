package session

import (
	"context"
	"errors"
)

var ErrUserNotFound = errors.New("user not found")

// Result is the outcome of one completed game round. It is consumed once to
// update the account's cumulative stats and is not persisted itself.
type Result struct {
	Score             int64
	RecipesDiscovered int64
	QuestsCompleted   int64
	GoldEarned        int64
	Duration          int64
	Survived          bool
	LivesRemaining    int64
}

// Stats is the cumulative view returned after a session has been folded in.
type Stats struct {
	BestScore   int64
	Level       string
	GamesPlayed int64
	TotalGold   int64
	TotalScore  int64
}

// Outcome pairs the updated cumulative stats with the transient rank label
// the single session's score earned on its own.
type Outcome struct {
	Stats       Stats
	SessionRank string
}

type Service interface {
	RecordSession(ctx context.Context, userID int64, result *Result) (*Outcome, error)
}

// Rank brackets, floor to label. One canonical table is used for both the
// persisted level and the transient per-session rank.
const (
	masterFloor     = 300
	expertFloor     = 150
	apprenticeFloor = 50
)

// RankForScore maps a score to its rank label. Scores below the lowest
// bracket floor report ok=false: the persisted level is left unchanged for
// them.
func RankForScore(score int64) (rank string, ok bool) {
	switch {
	case score >= masterFloor:
		return "Master", true
	case score >= expertFloor:
		return "Expert", true
	case score >= apprenticeFloor:
		return "Apprentice", true
	default:
		return "", false
	}
}
