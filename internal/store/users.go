package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stocktrack/internal/models"

	"github.com/lib/pq"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("username already exists")
)

// uniqueViolation is the Postgres error code for a unique constraint breach
const uniqueViolation = "23505"

// UsernameTaken reports whether a user row exists for username
func (s *Store) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", username)
	return exists, err
}

// CreateUser inserts a new user row. A concurrent registration of the same
// username loses on the primary key and surfaces as ErrUserExists, so the
// pre-insert existence check never has to be atomic.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, password, role) VALUES ($1, $2, $3)",
		user.Username, user.PasswordHash, user.Role)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByUsername retrieves a user by username
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		"SELECT username, password, role FROM users WHERE username = $1", username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
