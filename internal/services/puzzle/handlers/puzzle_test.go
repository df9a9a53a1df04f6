package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mystical-alchemist/backend-api/internal/services/puzzle"
	"mystical-alchemist/backend-api/internal/services/puzzle/handlers"
	"mystical-alchemist/backend-api/pkg/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap/zaptest"
)

func createTestServer(t *testing.T, upstreamURL string) *fiber.App {
	logger := zaptest.NewLogger(t)
	cfg := config.Config{
		Puzzle: config.PuzzleConfig{
			BaseURL: upstreamURL,
			Timeout: 2 * time.Second,
		},
	}
	puzzleService := puzzle.NewPuzzleService(cfg, logger)
	puzzleHandlers := handlers.NewPuzzleHandlers(puzzleService, logger)
	app := fiber.New()
	app.Get("/api/puzzle", puzzleHandlers.GetPuzzle)
	return app
}

func TestPuzzleHandlers_GetPuzzle(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"question":"img.png","solution":4}`))
	}))
	defer upstream.Close()

	app := createTestServer(t, upstream.URL)
	req := httptest.NewRequest(http.MethodGet, "/api/puzzle", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["success"] != true {
		t.Errorf("Expected success true, got %v", result["success"])
	}
	if result["question"] != "img.png" {
		t.Errorf("Expected question img.png, got %v", result["question"])
	}
	if result["solution"] != float64(4) {
		t.Errorf("Expected solution 4, got %v", result["solution"])
	}
	if result["type"] != "heart" {
		t.Errorf("Expected type heart, got %v", result["type"])
	}
	if result["format"] != "json" {
		t.Errorf("Expected format json, got %v", result["format"])
	}
}

func TestPuzzleHandlers_GetPuzzleCSV(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("img.png,7"))
	}))
	defer upstream.Close()

	app := createTestServer(t, upstream.URL)
	req := httptest.NewRequest(http.MethodGet, "/api/puzzle?out=csv", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["format"] != "csv" {
		t.Errorf("Expected format csv, got %v", result["format"])
	}
	if result["solution"] != float64(7) {
		t.Errorf("Expected solution 7, got %v", result["solution"])
	}
}

func TestPuzzleHandlers_UpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	app := createTestServer(t, upstream.URL)
	req := httptest.NewRequest(http.MethodGet, "/api/puzzle", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["success"] != false {
		t.Errorf("Expected success false, got %v", result["success"])
	}
	if result["message"] != "Failed to fetch puzzle" {
		t.Errorf("Unexpected message: %v", result["message"])
	}
}
