package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/meetkit/interviewd/dbopen"
)

// User is an interview participant.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"created_at"`
}

// CreateUser inserts a new user. Returns ErrConflict if the username or
// email is already taken.
func (s *Store) CreateUser(ctx context.Context, username, email string) (*User, error) {
	var existing int64
	err := s.DB.QueryRowContext(ctx, `
		SELECT id FROM users WHERE username = ? OR email = ?`,
		username, email).Scan(&existing)
	if err == nil {
		return nil, ErrConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	u := &User{Username: username, Email: email, CreatedAt: time.Now().UnixMilli()}
	res, err := dbopen.Exec(ctx, s.DB, `
		INSERT INTO users (username, email, created_at) VALUES (?,?,?)`,
		u.Username, u.Email, u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser retrieves a user by ID. Returns nil when absent.
func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	u := &User{}
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, username, email, created_at FROM users WHERE id = ?`, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
