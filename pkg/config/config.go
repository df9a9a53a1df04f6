package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	JWT      JWTConfig
	Puzzle   PuzzleConfig
	Account  AccountConfig
	CORS     CORSConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrationsPath  string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string
	Port              int
	RateLimitMax      int
	RateLimitDuration time.Duration
}

// JWTConfig holds JWT token generation and validation settings.
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// PuzzleConfig holds settings for the external heart puzzle provider.
type PuzzleConfig struct {
	BaseURL string
	Timeout time.Duration
}

// AccountConfig is the single table of defaults applied at account creation.
type AccountConfig struct {
	DefaultAvatar    string
	DefaultSpecialty string
	StartingLevel    string
}

// CORSConfig holds cross-origin settings for the browser client.
type CORSConfig struct {
	AllowOrigins string
}

// LoadConfig loads configuration from environment variables and defaults.
// Environment variables should be uppercase with underscores, e.g., DB_PATH.
// Uses viper for automatic env binding.
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)
	bindEnv(v)
	v.AutomaticEnv()

	if err := validateRequired(v); err != nil {
		return nil, err
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Path:            v.GetString("db_path"),
			MaxOpenConns:    v.GetInt("db_max_open_conns"),
			MaxIdleConns:    v.GetInt("db_max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("db_conn_max_lifetime"),
			ConnMaxIdleTime: v.GetDuration("db_conn_max_idle_time"),
			MigrationsPath:  v.GetString("db_migrations_path"),
		},
		Server: ServerConfig{
			Host:              v.GetString("server_host"),
			Port:              v.GetInt("server_port"),
			RateLimitMax:      v.GetInt("server_rate_limit_max"),
			RateLimitDuration: v.GetDuration("server_rate_limit_duration"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt_secret"),
			Expiration: v.GetDuration("jwt_expiration"),
		},
		Puzzle: PuzzleConfig{
			BaseURL: v.GetString("puzzle_base_url"),
			Timeout: v.GetDuration("puzzle_timeout"),
		},
		Account: AccountConfig{
			DefaultAvatar:    v.GetString("account_default_avatar"),
			DefaultSpecialty: v.GetString("account_default_specialty"),
			StartingLevel:    v.GetString("account_starting_level"),
		},
		CORS: CORSConfig{
			AllowOrigins: v.GetString("cors_allow_origins"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("db_path", "./data.db")
	v.SetDefault("db_max_open_conns", 5)
	v.SetDefault("db_max_idle_conns", 2)
	v.SetDefault("db_conn_max_lifetime", 5*time.Minute)
	v.SetDefault("db_conn_max_idle_time", 2*time.Minute)
	v.SetDefault("db_migrations_path", "./migrations")

	// Server defaults
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", 5000)
	v.SetDefault("server_rate_limit_max", 100)
	v.SetDefault("server_rate_limit_duration", time.Minute)

	// JWT defaults
	v.SetDefault("jwt_expiration", 7*24*time.Hour) // 7 days

	// Puzzle provider defaults
	v.SetDefault("puzzle_base_url", "http://marcconrad.com/uob/heart/api.php")
	v.SetDefault("puzzle_timeout", 10*time.Second)

	// Account creation defaults
	v.SetDefault("account_default_avatar", "🧙‍♀️")
	v.SetDefault("account_default_specialty", "Potion Master")
	v.SetDefault("account_starting_level", "Apprentice")

	// CORS defaults
	v.SetDefault("cors_allow_origins", "http://localhost:3000")
}

func bindEnv(v *viper.Viper) {
	// Database
	_ = v.BindEnv("db_path", "DB_PATH")
	_ = v.BindEnv("db_max_open_conns", "DB_MAX_OPEN_CONNS")
	_ = v.BindEnv("db_max_idle_conns", "DB_MAX_IDLE_CONNS")
	_ = v.BindEnv("db_conn_max_lifetime", "DB_CONN_MAX_LIFETIME")
	_ = v.BindEnv("db_conn_max_idle_time", "DB_CONN_MAX_IDLE_TIME")
	_ = v.BindEnv("db_migrations_path", "DB_MIGRATIONS_PATH")

	// Server
	_ = v.BindEnv("server_host", "SERVER_HOST")
	_ = v.BindEnv("server_port", "SERVER_PORT")
	_ = v.BindEnv("server_rate_limit_max", "SERVER_RATE_LIMIT_MAX")
	_ = v.BindEnv("server_rate_limit_duration", "SERVER_RATE_LIMIT_DURATION")

	// JWT
	_ = v.BindEnv("jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("jwt_expiration", "JWT_EXPIRATION")

	// Puzzle provider
	_ = v.BindEnv("puzzle_base_url", "PUZZLE_BASE_URL")
	_ = v.BindEnv("puzzle_timeout", "PUZZLE_TIMEOUT")

	// Account defaults
	_ = v.BindEnv("account_default_avatar", "ACCOUNT_DEFAULT_AVATAR")
	_ = v.BindEnv("account_default_specialty", "ACCOUNT_DEFAULT_SPECIALTY")
	_ = v.BindEnv("account_starting_level", "ACCOUNT_STARTING_LEVEL")

	// CORS
	_ = v.BindEnv("cors_allow_origins", "CORS_ALLOW_ORIGINS")
}

func validateRequired(v *viper.Viper) error {
	// JWT secret is required
	if v.GetString("jwt_secret") == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	return nil
}
