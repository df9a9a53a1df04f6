package db

import (
	"context"

	"mystical-alchemist/backend-api/internal/db/types"
)

// User is one account row: identity, profile, and cumulative stats.
type User struct {
	UserID            int64
	Username          string
	Email             string
	PasswordHash      string
	Avatar            string
	Specialty         string
	TutorialCompleted int64
	BestScore         int64
	Level             string
	GamesPlayed       int64
	TotalGold         int64
	TotalScore        int64
	CreatedAt         types.Timestamp
	UpdatedAt         types.Timestamp
}

const userColumns = `user_id, username, email, password_hash, avatar, specialty,
tutorial_completed, best_score, level, games_played, total_gold, total_score,
created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	err := row.Scan(
		&u.UserID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Avatar,
		&u.Specialty,
		&u.TutorialCompleted,
		&u.BestScore,
		&u.Level,
		&u.GamesPlayed,
		&u.TotalGold,
		&u.TotalScore,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	Avatar       string
	Specialty    string
	Level        string
}

func (q *Queries) CreateUser(ctx context.Context, dbtx DBTX, params *CreateUserParams) error {
	_, err := dbtx.ExecContext(ctx, `
INSERT INTO users (username, email, password_hash, avatar, specialty, level)
VALUES (?, ?, ?, ?, ?, ?)`,
		params.Username, params.Email, params.PasswordHash,
		params.Avatar, params.Specialty, params.Level)
	return err
}

func (q *Queries) GetUser(ctx context.Context, dbtx DBTX, userID int64) (*User, error) {
	row := dbtx.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = ?`, userID)
	return scanUser(row)
}

func (q *Queries) GetUserByUsername(ctx context.Context, dbtx DBTX, username string) (*User, error) {
	row := dbtx.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (q *Queries) GetUserByEmail(ctx context.Context, dbtx DBTX, email string) (*User, error) {
	row := dbtx.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

type UpdateUserProfileParams struct {
	Username          string
	Avatar            string
	Specialty         string
	TutorialCompleted int64
	UserID            int64
}

func (q *Queries) UpdateUserProfile(ctx context.Context, dbtx DBTX, params *UpdateUserProfileParams) error {
	_, err := dbtx.ExecContext(ctx, `
UPDATE users
SET username = ?, avatar = ?, specialty = ?, tutorial_completed = ?,
    updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
WHERE user_id = ?`,
		params.Username, params.Avatar, params.Specialty,
		params.TutorialCompleted, params.UserID)
	return err
}

type UpdateUserPasswordParams struct {
	PasswordHash string
	UserID       int64
}

func (q *Queries) UpdateUserPassword(ctx context.Context, dbtx DBTX, params *UpdateUserPasswordParams) error {
	_, err := dbtx.ExecContext(ctx, `
UPDATE users
SET password_hash = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
WHERE user_id = ?`,
		params.PasswordHash, params.UserID)
	return err
}

type UpdateUserLevelParams struct {
	Level  string
	UserID int64
}

func (q *Queries) UpdateUserLevel(ctx context.Context, dbtx DBTX, params *UpdateUserLevelParams) error {
	_, err := dbtx.ExecContext(ctx, `
UPDATE users
SET level = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
WHERE user_id = ?`,
		params.Level, params.UserID)
	return err
}

func (q *Queries) DeleteUser(ctx context.Context, dbtx DBTX, userID int64) (int64, error) {
	res, err := dbtx.ExecContext(ctx, `DELETE FROM users WHERE user_id = ?`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type ApplySessionResultParams struct {
	Score      int64
	GoldEarned int64
	UserID     int64
}

// ApplySessionResult folds one finished game into the cumulative stats as a
// single statement with server-side arithmetic, so concurrent sessions for
// the same account cannot lose increments.
func (q *Queries) ApplySessionResult(ctx context.Context, dbtx DBTX, params *ApplySessionResultParams) (int64, error) {
	res, err := dbtx.ExecContext(ctx, `
UPDATE users
SET games_played = games_played + 1,
    total_score = total_score + ?,
    total_gold = total_gold + ?,
    best_score = MAX(best_score, ?),
    updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
WHERE user_id = ?`,
		params.Score, params.GoldEarned, params.Score, params.UserID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type TopPlayersByBestScoreRow struct {
	Username  string
	Avatar    string
	BestScore int64
	Level     string
}

// TopPlayersByBestScore returns up to limit accounts ordered by best score.
// The user_id tie-break keeps equal scores in stable insertion order.
func (q *Queries) TopPlayersByBestScore(ctx context.Context, dbtx DBTX, limit int64) ([]*TopPlayersByBestScoreRow, error) {
	rows, err := dbtx.QueryContext(ctx, `
SELECT username, avatar, best_score, level
FROM users
ORDER BY best_score DESC, user_id ASC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*TopPlayersByBestScoreRow
	for rows.Next() {
		var e TopPlayersByBestScoreRow
		if err := rows.Scan(&e.Username, &e.Avatar, &e.BestScore, &e.Level); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
