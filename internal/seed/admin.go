package seed

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"zackiepharma/m/domain"
	"zackiepharma/m/internal/auth"
	"zackiepharma/m/internal/store"
)

// EnsureAdmin creates the bootstrap admin account when username is set and
// no such user exists yet. It reports whether a user was created.
func EnsureAdmin(ctx context.Context, s *store.Store, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	_, err := s.UserByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return false, errors.Wrap(err, "hash admin password")
	}
	if _, err := s.CreateUser(ctx, username, hashed, domain.RoleAdmin); err != nil {
		return false, err
	}
	zap.S().Infof("created bootstrap admin %s", username)
	return true, nil
}
