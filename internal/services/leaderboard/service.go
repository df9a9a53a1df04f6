package leaderboard

import "context"

// DefaultLimit caps the leaderboard size; it is also the maximum a caller
// may request.
const DefaultLimit = 100

// Entry is one ranked leaderboard row projected for the client.
type Entry struct {
	Rank      int64
	Username  string
	Avatar    string
	BestScore int64
	Level     string
}

type Service interface {
	TopPlayers(ctx context.Context, limit int64) ([]*Entry, error)
}
