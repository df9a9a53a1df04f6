package puzzle

import (
	"context"
	"errors"
)

// ErrUpstream indicates the external puzzle provider failed or returned an
// unparseable body. Surfaced to clients as a generic 500; never retried.
var ErrUpstream = errors.New("puzzle provider unavailable")

// Puzzle is the normalized envelope for both upstream response shapes.
type Puzzle struct {
	Question string
	Solution int64
	Type     string
	Format   string
	IsBase64 bool
}

type Service interface {
	FetchPuzzle(ctx context.Context, out, base64 string) (*Puzzle, error)
}
