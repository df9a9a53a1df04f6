package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mystical-alchemist/backend-api/internal/db"
	"mystical-alchemist/backend-api/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	config  config.Config
	logger  *zap.Logger
	dbConn  db.DBTX
	queries *db.Queries
}

func NewAuthService(cfg config.Config, logger *zap.Logger, dbConn db.DBTX) Service {
	return &authService{
		config:  cfg,
		logger:  logger,
		dbConn:  dbConn,
		queries: db.New(),
	}
}

func (s *authService) RegisterUser(ctx context.Context, params *RegisterParams) (*db.User, error) {
	username := strings.TrimSpace(params.Username)
	email := strings.ToLower(strings.TrimSpace(params.Email))

	hash, err := s.hashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	avatar := params.Avatar
	if avatar == "" {
		avatar = s.config.Account.DefaultAvatar
	}
	specialty := params.Specialty
	if specialty == "" {
		specialty = s.config.Account.DefaultSpecialty
	}

	err = s.queries.CreateUser(ctx, s.dbConn, &db.CreateUserParams{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Avatar:       avatar,
		Specialty:    specialty,
		Level:        s.config.Account.StartingLevel,
	})
	if err != nil {
		if s.isDuplicateError(err, "username") {
			return nil, ErrDuplicateUsername
		}
		if s.isDuplicateError(err, "email") {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user, err := s.queries.GetUserByUsername(ctx, s.dbConn, username)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created user: %w", err)
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", user.UserID),
		zap.String("username", user.Username))
	return user, nil
}

func (s *authService) Authenticate(ctx context.Context, username, password string) (*db.User, error) {
	identifier := strings.TrimSpace(username)
	user, err := s.queries.GetUserByUsername(ctx, s.dbConn, identifier)
	if err != nil && strings.Contains(identifier, "@") {
		user, err = s.queries.GetUserByEmail(ctx, s.dbConn, strings.ToLower(identifier))
	}
	if err != nil {
		s.logger.Debug("User lookup failed", zap.String("username", username), zap.Error(err))
		return nil, ErrInvalidCredentials
	}

	if !s.verifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *authService) GenerateToken(userID int64, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.JWT.Expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWT.Secret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.config.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// Internal helpers

func (s *authService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *authService) verifyPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func (s *authService) isDuplicateError(err error, column string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed: users."+column)
}
