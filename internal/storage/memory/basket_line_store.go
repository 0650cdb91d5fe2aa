package memory

import (
	"context"
	"fmt"
	"sync"

	"retail-promo-lab/internal/domain"
	"retail-promo-lab/internal/storage"
)

// BasketLineStore is an in-memory implementation of storage.BasketLineStore.
type BasketLineStore struct {
	mu    sync.RWMutex
	lines []*domain.BasketLine // insertion order
	keys  map[string]struct{}  // run|scenario|transaction|item
}

// NewBasketLineStore creates a new in-memory basket line store.
func NewBasketLineStore() *BasketLineStore {
	return &BasketLineStore{
		keys: make(map[string]struct{}),
	}
}

// lineKey generates a unique key for a basket line.
func lineKey(l *domain.BasketLine) string {
	return fmt.Sprintf("%s|%s|%s|%s", l.RunID, l.Scenario, l.TransactionID, l.Item)
}

// copyLine deep-copies a line so callers cannot mutate stored state.
func copyLine(l *domain.BasketLine) *domain.BasketLine {
	c := *l
	if l.Loyalty != nil {
		c.Loyalty = domain.Bool(*l.Loyalty)
	}
	return &c
}

// InsertBulk adds multiple lines atomically. Fails entire batch on any duplicate.
func (s *BasketLineStore) InsertBulk(_ context.Context, lines []*domain.BasketLine) error {
	if len(lines) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(lines))

	// First pass: check for duplicates (existing + intra-batch)
	for _, l := range lines {
		if l == nil || l.RunID == "" || !l.Scenario.IsValid() || l.TransactionID == "" || l.Item == "" {
			return storage.ErrInvalidInput
		}
		key := lineKey(l)
		if _, exists := s.keys[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	// Second pass: insert all
	for _, l := range lines {
		s.keys[lineKey(l)] = struct{}{}
		s.lines = append(s.lines, copyLine(l))
	}

	return nil
}

// GetByRunScenario retrieves all lines of a run and scenario in insertion order.
func (s *BasketLineStore) GetByRunScenario(_ context.Context, runID string, scenario domain.Scenario) ([]*domain.BasketLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.BasketLine
	for _, l := range s.lines {
		if l.RunID == runID && l.Scenario == scenario {
			result = append(result, copyLine(l))
		}
	}
	return result, nil
}

// GetByRegion retrieves lines of a run and scenario for one region, in insertion order.
func (s *BasketLineStore) GetByRegion(_ context.Context, runID string, scenario domain.Scenario, region string) ([]*domain.BasketLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.BasketLine
	for _, l := range s.lines {
		if l.RunID == runID && l.Scenario == scenario && l.Region == region {
			result = append(result, copyLine(l))
		}
	}
	return result, nil
}

var _ storage.BasketLineStore = (*BasketLineStore)(nil)
