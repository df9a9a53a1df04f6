package testutils

import (
	"database/sql"
	"testing"
	"time"

	"mystical-alchemist/backend-api/internal/services/auth"
	"mystical-alchemist/backend-api/pkg/config"

	"go.uber.org/zap/zaptest"
	_ "modernc.org/sqlite"
	"golang.org/x/crypto/bcrypt"
)

func GetTestConfig() config.Config {
	return config.Config{
		Database: config.DatabaseConfig{
			Path:           ":memory:",
			MigrationsPath: "./migrations",
		},
		Server: config.ServerConfig{
			Host:              "localhost",
			Port:              5000,
			RateLimitMax:      1000,
			RateLimitDuration: time.Minute,
		},
		JWT: config.JWTConfig{
			Secret:     "test-secret",
			Expiration: 7 * 24 * time.Hour,
		},
		Puzzle: config.PuzzleConfig{
			BaseURL: "http://localhost/api.php",
			Timeout: 5 * time.Second,
		},
		Account: config.AccountConfig{
			DefaultAvatar:    "🧙‍♀️",
			DefaultSpecialty: "Potion Master",
			StartingLevel:    "Apprentice",
		},
		CORS: config.CORSConfig{
			AllowOrigins: "http://localhost:3000",
		},
	}
}

func SetupTestDB(t *testing.T) *sql.DB {
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}
	// Create tables (simplified for test utility, in a real app use migrations)
	createTableSQL := `CREATE TABLE users (
    user_id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    avatar TEXT NOT NULL DEFAULT '🧙‍♀️',
    specialty TEXT NOT NULL DEFAULT 'Potion Master',
    tutorial_completed INTEGER NOT NULL DEFAULT 0,
    best_score INTEGER NOT NULL DEFAULT 0,
    level TEXT NOT NULL DEFAULT 'Apprentice',
    games_played INTEGER NOT NULL DEFAULT 0,
    total_gold INTEGER NOT NULL DEFAULT 0,
    total_score INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
    updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
);`
	if _, err := conn.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create users table: %v", err)
	}
	return conn
}

// CreateTestUser inserts a user with a real bcrypt hash and returns its id.
func CreateTestUser(t *testing.T, conn *sql.DB, username, email, password string) int64 {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	_, err = conn.Exec(`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		username, email, string(hash))
	if err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}
	var userID int64
	err = conn.QueryRow(`SELECT user_id FROM users WHERE username = ?`, username).Scan(&userID)
	if err != nil {
		t.Fatalf("Failed to query user id: %v", err)
	}
	return userID
}

// CreateTestToken issues a bearer token for an existing user using the
// test config's JWT settings.
func CreateTestToken(t *testing.T, conn *sql.DB, userID int64, username string) string {
	cfg := GetTestConfig()
	logger := zaptest.NewLogger(t)
	svc := auth.NewAuthService(cfg, logger, conn)
	token, err := svc.GenerateToken(userID, username)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return token
}

// SetUserStats overwrites the stats columns for a user directly.
func SetUserStats(t *testing.T, conn *sql.DB, userID, bestScore int64, level string) {
	_, err := conn.Exec(`UPDATE users SET best_score = ?, level = ? WHERE user_id = ?`,
		bestScore, level, userID)
	if err != nil {
		t.Fatalf("Failed to set user stats: %v", err)
	}
}
