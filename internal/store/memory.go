package store

import (
	"context"
	"sync"

	"github.com/spec-kit/token-service/internal/domain"
)

// MemoryStore is a process-local TrackingStore. It is the reference
// implementation and the default for tests; records do not survive a
// restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]domain.TrackingRecord
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]domain.TrackingRecord)}
}

func (s *MemoryStore) Create(_ context.Context, record *domain.TrackingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.ID]; exists {
		return ErrConflict
	}
	s.records[record.ID] = *record
	return nil
}

func (s *MemoryStore) Find(_ context.Context, id string) (*domain.TrackingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) DeleteByUserID(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for id, record := range s.records {
		if record.UserID == userID {
			delete(s.records, id)
			deleted++
		}
	}
	return deleted, nil
}
