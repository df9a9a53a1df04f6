package account

import (
	"context"
	"errors"

	"mystical-alchemist/backend-api/internal/db"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrIncorrectPassword = errors.New("incorrect password")
)

// ProfileUpdate carries the optional profile fields. Empty strings leave the
// stored value untouched; TutorialCompleted is applied only when non-nil.
type ProfileUpdate struct {
	Username          string
	Avatar            string
	Specialty         string
	TutorialCompleted *bool
}

type Service interface {
	GetUser(ctx context.Context, userID int64) (*db.User, error)
	UpdateProfile(ctx context.Context, userID int64, upd *ProfileUpdate) (*db.User, error)
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
	DeleteAccount(ctx context.Context, userID int64, password string) error
}
