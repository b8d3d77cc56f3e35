package directory

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/token-service/internal/auth"
	"github.com/spec-kit/token-service/internal/domain"
	"github.com/spec-kit/token-service/pkg/util"
)

// PostgresDirectory authenticates against the users table with bcrypt
// password hashes.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresDirectory returns a Postgres-backed implementation.
func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool}
}

func (d *PostgresDirectory) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	const query = `
        SELECT id, username, display_name, email, password_hash, status, created_at, updated_at
        FROM users WHERE username=$1`

	var user domain.User
	if err := d.pool.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.DisplayName,
		&user.Email,
		&user.PasswordHash,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, util.NewBadCredentials()
		}
		return nil, err
	}

	if user.Status != domain.UserStatusActive {
		return nil, util.NewBadCredentials()
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, util.NewBadCredentials()
	}
	return &user, nil
}
