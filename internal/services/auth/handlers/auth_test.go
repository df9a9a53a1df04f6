package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mystical-alchemist/backend-api/internal/services/auth"
	"mystical-alchemist/backend-api/internal/services/auth/handlers"
	"mystical-alchemist/backend-api/internal/testutils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap/zaptest"
	_ "modernc.org/sqlite"
)

func createTestServer(t *testing.T, db *sql.DB) *fiber.App {
	logger := zaptest.NewLogger(t)
	cfg := testutils.GetTestConfig()
	authService := auth.NewAuthService(cfg, logger, db)
	authHandlers := handlers.NewAuthHandlers(authService, logger)
	app := fiber.New()
	authGroup := app.Group("/api/auth")
	authGroup.Post("/register", authHandlers.Register)
	authGroup.Post("/login", authHandlers.Login)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	return resp
}

func TestAuthHandlers_Register(t *testing.T) {
	db := testutils.SetupTestDB(t)
	defer db.Close()
	app := createTestServer(t, db)

	resp := postJSON(t, app, "/api/auth/register", map[string]string{
		"username": "merlin",
		"email":    "merlin@example.com",
		"password": "securepass123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", resp.StatusCode)
	}
	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["success"] != true {
		t.Errorf("Expected success true, got %v", result["success"])
	}
	if token, _ := result["token"].(string); token == "" {
		t.Error("Registration response missing token")
	}
	user, ok := result["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("Registration response missing user object: %v", result)
	}
	if user["username"] != "merlin" {
		t.Errorf("Expected username merlin, got %v", user["username"])
	}
	if user["avatar"] != "🧙‍♀️" {
		t.Errorf("Expected default avatar, got %v", user["avatar"])
	}
	if user["tutorialCompleted"] != false {
		t.Errorf("Expected tutorialCompleted false, got %v", user["tutorialCompleted"])
	}
	stats, ok := user["stats"].(map[string]interface{})
	if !ok {
		t.Fatalf("User missing stats object: %v", user)
	}
	if stats["level"] != "Apprentice" {
		t.Errorf("Expected starting level Apprentice, got %v", stats["level"])
	}
	if stats["bestScore"] != float64(0) {
		t.Errorf("Expected bestScore 0, got %v", stats["bestScore"])
	}
	if _, ok := user["passwordHash"]; ok {
		t.Error("Response must not expose the password hash")
	}
}

func TestAuthHandlers_RegisterValidation(t *testing.T) {
	db := testutils.SetupTestDB(t)
	defer db.Close()
	app := createTestServer(t, db)

	tests := []struct {
		name    string
		payload map[string]string
		message string
	}{
		{"missing username", map[string]string{"email": "a@b.com", "password": "secret1"}, "Username, email and password are required"},
		{"missing email", map[string]string{"username": "a", "password": "secret1"}, "Username, email and password are required"},
		{"missing password", map[string]string{"username": "a", "email": "a@b.com"}, "Username, email and password are required"},
		{"short password", map[string]string{"username": "a", "email": "a@b.com", "password": "12345"}, "Password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, app, "/api/auth/register", tt.payload)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", resp.StatusCode)
			}
			var result map[string]interface{}
			if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if result["success"] != false {
				t.Errorf("Expected success false, got %v", result["success"])
			}
			if result["message"] != tt.message {
				t.Errorf("Expected message %q, got %v", tt.message, result["message"])
			}
		})
	}
}

func TestAuthHandlers_RegisterDuplicate(t *testing.T) {
	db := testutils.SetupTestDB(t)
	defer db.Close()
	app := createTestServer(t, db)

	testutils.CreateTestUser(t, db, "taken", "taken@example.com", "password")

	resp := postJSON(t, app, "/api/auth/register", map[string]string{
		"username": "taken",
		"email":    "other@example.com",
		"password": "password",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for duplicate username, got %d", resp.StatusCode)
	}
	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["message"] != "User with this email or username already exists" {
		t.Errorf("Unexpected message: %v", result["message"])
	}

	resp = postJSON(t, app, "/api/auth/register", map[string]string{
		"username": "someoneelse",
		"email":    "Taken@Example.com",
		"password": "password",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for duplicate email regardless of casing, got %d", resp.StatusCode)
	}
}

func TestAuthHandlers_Login(t *testing.T) {
	db := testutils.SetupTestDB(t)
	defer db.Close()
	app := createTestServer(t, db)

	testutils.CreateTestUser(t, db, "morgana", "morgana@example.com", "password")

	resp := postJSON(t, app, "/api/auth/login", map[string]string{
		"username": "morgana",
		"password": "password",
	})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if token, _ := result["token"].(string); token == "" {
		t.Error("Login response missing token")
	}
	user, ok := result["user"].(map[string]interface{})
	if !ok || user["username"] != "morgana" {
		t.Errorf("Unexpected user payload: %v", result["user"])
	}
}

func TestAuthHandlers_LoginInvalidCredentials(t *testing.T) {
	db := testutils.SetupTestDB(t)
	defer db.Close()
	app := createTestServer(t, db)

	testutils.CreateTestUser(t, db, "morgana", "morgana@example.com", "password")

	// Unknown user and wrong password produce the same response
	for _, payload := range []map[string]string{
		{"username": "nobody", "password": "password"},
		{"username": "morgana", "password": "wrongpass"},
	} {
		resp := postJSON(t, app, "/api/auth/login", payload)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", resp.StatusCode)
		}
		var result map[string]interface{}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if result["message"] != "Invalid credentials" {
			t.Errorf("Expected message Invalid credentials, got %v", result["message"])
		}
	}
}

func TestAuthHandlers_LoginMissingFields(t *testing.T) {
	db := testutils.SetupTestDB(t)
	defer db.Close()
	app := createTestServer(t, db)

	resp := postJSON(t, app, "/api/auth/login", map[string]string{"username": "x"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}
