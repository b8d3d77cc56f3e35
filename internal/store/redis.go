package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/token-service/internal/domain"
)

const (
	recordKeyPrefix = "tracking:record:"
	userIndexPrefix = "tracking:user:"
)

// RedisStore is a TrackingStore backed by Redis. Records are JSON values
// keyed by tracking id; a per-user set indexes ids for bulk invalidation.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func recordKey(id string) string       { return recordKeyPrefix + id }
func userIndexKey(userID int64) string { return fmt.Sprintf("%s%d", userIndexPrefix, userID) }

func (s *RedisStore) Create(ctx context.Context, record *domain.TrackingRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal tracking record: %w", err)
	}

	created, err := s.client.SetNX(ctx, recordKey(record.ID), payload, 0).Result()
	if err != nil {
		return fmt.Errorf("store tracking record: %w", err)
	}
	if !created {
		return ErrConflict
	}

	if err := s.client.SAdd(ctx, userIndexKey(record.UserID), record.ID).Err(); err != nil {
		// The record exists but is not indexed; remove it before
		// reporting failure.
		s.client.Del(ctx, recordKey(record.ID))
		return fmt.Errorf("index tracking record: %w", err)
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, id string) (*domain.TrackingRecord, error) {
	payload, err := s.client.Get(ctx, recordKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch tracking record: %w", err)
	}

	var record domain.TrackingRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("decode tracking record: %w", err)
	}
	return &record, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	record, err := s.Find(ctx, id)
	if err == ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.client.Del(ctx, recordKey(id)).Err(); err != nil {
		return fmt.Errorf("delete tracking record: %w", err)
	}
	s.client.SRem(ctx, userIndexKey(record.UserID), id)
	return nil
}

func (s *RedisStore) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	ids, err := s.client.SMembers(ctx, userIndexKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("list tracking records: %w", err)
	}

	var deleted int64
	for _, id := range ids {
		removed, err := s.client.Del(ctx, recordKey(id)).Result()
		if err != nil {
			return deleted, fmt.Errorf("delete tracking record: %w", err)
		}
		deleted += removed
	}
	if err := s.client.Del(ctx, userIndexKey(userID)).Err(); err != nil {
		return deleted, fmt.Errorf("delete tracking index: %w", err)
	}
	return deleted, nil
}
