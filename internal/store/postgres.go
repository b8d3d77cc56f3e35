package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/token-service/internal/domain"
)

const uniqueViolationCode = "23505"

// PostgresStore is a TrackingStore backed by the tracking_records table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Postgres-backed implementation.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, record *domain.TrackingRecord) error {
	const query = `
        INSERT INTO tracking_records (id, user_id, username, user_agent, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		record.ID,
		record.UserID,
		record.Username,
		record.UserAgent,
		record.Status,
	).Scan(&record.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, id string) (*domain.TrackingRecord, error) {
	const query = `
        SELECT id, user_id, username, user_agent, status, created_at
        FROM tracking_records WHERE id=$1`

	var record domain.TrackingRecord
	if err := s.pool.QueryRow(ctx, query, id).Scan(
		&record.ID,
		&record.UserID,
		&record.Username,
		&record.UserAgent,
		&record.Status,
		&record.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tracking_records WHERE id=$1`
	_, err := s.pool.Exec(ctx, query, id)
	return err
}

func (s *PostgresStore) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	const query = `DELETE FROM tracking_records WHERE user_id=$1`
	cmd, err := s.pool.Exec(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
