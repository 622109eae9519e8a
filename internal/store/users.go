package store

import (
	"context"

	"zackiepharma/m/domain"
)

// CreateUser inserts a user with an already hashed password and returns the
// new id. A taken username yields ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash, role string) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx, `INSERT INTO users (username, password, role, created_at) VALUES (?, ?, ?, ?) RETURNING id`,
		username, passwordHash, role, s.timestamp()).Scan(&id)
	return id, classify(err, "create user")
}

// UserByUsername loads a user by login name; unknown names yield ErrNotFound.
func (s *Store) UserByUsername(ctx context.Context, username string) (domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, `SELECT id, username, password, role, created_at FROM users WHERE username = ?`, username)
	return user, classify(err, "get user")
}

// UserByID loads a user; unknown ids yield ErrNotFound.
func (s *Store) UserByID(ctx context.Context, id int64) (domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, `SELECT id, username, password, role, created_at FROM users WHERE id = ?`, id)
	return user, classify(err, "get user")
}

// CountUsers returns the number of accounts.
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`)
	return n, classify(err, "count users")
}
