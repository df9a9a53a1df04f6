package auth

import (
	"context"
	"errors"

	"mystical-alchemist/backend-api/internal/db"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidCredentials covers both unknown username and wrong password,
	// so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidToken       = errors.New("invalid token")
)

// Claims binds the subject account id and username into the bearer token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// RegisterParams carries the validated registration input. Empty Avatar or
// Specialty fall back to the configured account defaults.
type RegisterParams struct {
	Username  string
	Email     string
	Password  string
	Avatar    string
	Specialty string
}

type Service interface {
	RegisterUser(ctx context.Context, params *RegisterParams) (*db.User, error)
	Authenticate(ctx context.Context, username, password string) (*db.User, error)
	GenerateToken(userID int64, username string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}
