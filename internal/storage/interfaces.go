package storage

import (
	"context"

	"retail-promo-lab/internal/domain"
)

// BasketLineStore provides access to basket_lines storage.
type BasketLineStore interface {
	// InsertBulk adds multiple lines atomically. Fails entire batch on any duplicate
	// (run_id, scenario, transaction_id, item).
	InsertBulk(ctx context.Context, lines []*domain.BasketLine) error

	// GetByRunScenario retrieves all lines of a run and scenario in insertion order.
	GetByRunScenario(ctx context.Context, runID string, scenario domain.Scenario) ([]*domain.BasketLine, error)

	// GetByRegion retrieves lines of a run and scenario for one region, in insertion order.
	GetByRegion(ctx context.Context, runID string, scenario domain.Scenario, region string) ([]*domain.BasketLine, error)
}

// FindingStore provides access to insight_findings storage.
type FindingStore interface {
	// InsertBulk adds multiple findings atomically. Fails entire batch on any duplicate
	// (run_id, region, seq).
	InsertBulk(ctx context.Context, records []*domain.FindingRecord) error

	// GetByRun retrieves all findings of a run, ordered by insertion then seq.
	GetByRun(ctx context.Context, runID string) ([]*domain.FindingRecord, error)
}

// PairCountStore provides access to item_pair_counts storage.
type PairCountStore interface {
	// InsertBulk adds multiple pair counts atomically. Fails entire batch on any duplicate
	// (run_id, region, item_a, item_b).
	InsertBulk(ctx context.Context, records []*domain.PairCountRecord) error

	// GetByRunRegion retrieves the pair counts of one region, ordered by rank ASC.
	GetByRunRegion(ctx context.Context, runID, region string) ([]*domain.PairCountRecord, error)
}
