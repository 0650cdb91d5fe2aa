package memory

import (
	"context"
	"fmt"
	"sync"

	"retail-promo-lab/internal/domain"
	"retail-promo-lab/internal/storage"
)

// FindingStore is an in-memory implementation of storage.FindingStore.
type FindingStore struct {
	mu      sync.RWMutex
	records []*domain.FindingRecord
	keys    map[string]struct{} // run|region|seq
}

// NewFindingStore creates a new in-memory finding store.
func NewFindingStore() *FindingStore {
	return &FindingStore{
		keys: make(map[string]struct{}),
	}
}

func findingKey(r *domain.FindingRecord) string {
	return fmt.Sprintf("%s|%s|%d", r.RunID, r.Finding.Region, r.Seq)
}

// InsertBulk adds multiple findings atomically. Fails entire batch on any duplicate.
func (s *FindingStore) InsertBulk(_ context.Context, records []*domain.FindingRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.RunID == "" || r.Finding.Region == "" {
			return storage.ErrInvalidInput
		}
		key := findingKey(r)
		if _, exists := s.keys[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, r := range records {
		s.keys[findingKey(r)] = struct{}{}
		recCopy := *r
		s.records = append(s.records, &recCopy)
	}
	return nil
}

// GetByRun retrieves all findings of a run in insertion order.
func (s *FindingStore) GetByRun(_ context.Context, runID string) ([]*domain.FindingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.FindingRecord
	for _, r := range s.records {
		if r.RunID == runID {
			recCopy := *r
			result = append(result, &recCopy)
		}
	}
	return result, nil
}

var _ storage.FindingStore = (*FindingStore)(nil)
