package directory

import (
	"context"

	"github.com/spec-kit/token-service/internal/domain"
)

// UserDirectory verifies credentials against a user store. Authenticate
// must not reveal whether the username or the password was wrong: both
// collapse to the bad-credentials kind.
type UserDirectory interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
}
