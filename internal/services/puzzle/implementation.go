package puzzle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"mystical-alchemist/backend-api/pkg/config"

	"go.uber.org/zap"
)

// puzzleType labels every response from this provider.
const puzzleType = "heart"

type puzzleService struct {
	config config.Config
	logger *zap.Logger
	client *http.Client
}

func NewPuzzleService(cfg config.Config, logger *zap.Logger) Service {
	return &puzzleService{
		config: cfg,
		logger: logger,
		client: &http.Client{Timeout: cfg.Puzzle.Timeout},
	}
}

func (s *puzzleService) FetchPuzzle(ctx context.Context, out, base64 string) (*Puzzle, error) {
	if out == "" {
		out = "json"
	}
	if base64 == "" {
		base64 = "no"
	}

	endpoint := fmt.Sprintf("%s?out=%s&base64=%s",
		s.config.Puzzle.BaseURL, url.QueryEscape(out), url.QueryEscape(base64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("Puzzle provider request failed", zap.String("url", endpoint), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("Puzzle provider returned non-200", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if out == "csv" {
		return s.parseCSV(body)
	}
	return s.parseJSON(body, base64)
}

// parseCSV handles the provider's comma-delimited two-field shape,
// e.g. "img.png,7".
func (s *puzzleService) parseCSV(body []byte) (*Puzzle, error) {
	parts := strings.SplitN(string(body), ",", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: malformed csv body", ErrUpstream)
	}
	solution, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: non-numeric csv solution", ErrUpstream)
	}
	return &Puzzle{
		Question: strings.TrimSpace(parts[0]),
		Solution: solution,
		Type:     puzzleType,
		Format:   "csv",
	}, nil
}

func (s *puzzleService) parseJSON(body []byte, base64 string) (*Puzzle, error) {
	var payload struct {
		Question string `json:"question"`
		Solution int64  `json:"solution"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed json body", ErrUpstream)
	}
	return &Puzzle{
		Question: payload.Question,
		Solution: payload.Solution,
		Type:     puzzleType,
		Format:   "json",
		IsBase64: base64 == "yes",
	}, nil
}
