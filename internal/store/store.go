package store

import (
	"context"
	"errors"

	"github.com/spec-kit/token-service/internal/domain"
)

// ErrNotFound is returned by Find when no record exists for the id.
var ErrNotFound = errors.New("tracking record not found")

// ErrConflict is returned by Create when a record with the same id exists.
var ErrConflict = errors.New("tracking record already exists")

// TrackingStore persists revocation records keyed by tracking id. Any
// durable keyed store satisfies it; implementations must provide
// create-if-absent semantics, read-after-write visibility for
// delete-then-find, and idempotent deletion.
type TrackingStore interface {
	// Create inserts a new record. ErrConflict on a duplicate id.
	Create(ctx context.Context, record *domain.TrackingRecord) error
	// Find returns the record for the id, or ErrNotFound.
	Find(ctx context.Context, id string) (*domain.TrackingRecord, error)
	// Delete removes the record. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
	// DeleteByUserID removes every record owned by the user and returns
	// how many were deleted. Used to invalidate all of a user's tokens.
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
}
