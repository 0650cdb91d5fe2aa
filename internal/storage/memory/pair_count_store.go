package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"retail-promo-lab/internal/domain"
	"retail-promo-lab/internal/storage"
)

// PairCountStore is an in-memory implementation of storage.PairCountStore.
type PairCountStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PairCountRecord // keyed by run|region|item_a|item_b
}

// NewPairCountStore creates a new in-memory pair count store.
func NewPairCountStore() *PairCountStore {
	return &PairCountStore{
		data: make(map[string]*domain.PairCountRecord),
	}
}

func pairKey(r *domain.PairCountRecord) string {
	return fmt.Sprintf("%s|%s|%s|%s", r.RunID, r.Region, r.Pair.A, r.Pair.B)
}

// InsertBulk adds multiple pair counts atomically. Fails entire batch on any duplicate.
func (s *PairCountStore) InsertBulk(_ context.Context, records []*domain.PairCountRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.RunID == "" || r.Region == "" || r.Pair.A == "" || r.Pair.B == "" {
			return storage.ErrInvalidInput
		}
		key := pairKey(r)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, r := range records {
		recCopy := *r
		s.data[pairKey(r)] = &recCopy
	}
	return nil
}

// GetByRunRegion retrieves the pair counts of one region, ordered by rank ASC.
func (s *PairCountStore) GetByRunRegion(_ context.Context, runID, region string) ([]*domain.PairCountRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PairCountRecord
	for _, r := range s.data {
		if r.RunID == runID && r.Region == region {
			recCopy := *r
			result = append(result, &recCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Rank < result[j].Rank
	})
	return result, nil
}

var _ storage.PairCountStore = (*PairCountStore)(nil)
