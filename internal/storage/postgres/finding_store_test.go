package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-promo-lab/internal/domain"
	"retail-promo-lab/internal/storage"
)

func TestFindingStore_InsertBulkAndGetByRun(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewFindingStore(pool)

	records := []*domain.FindingRecord{
		{
			RunID: "run-1", Seq: 0,
			Finding: domain.Finding{Kind: domain.FindingItemChange, Region: "Ontario", Item: "Milk", PromoPct: 20, PercentChange: 15.25},
			Text:    "*Milk* sales increased by **15.2%** under a 20% promo.",
		},
		{
			RunID: "run-1", Seq: 1,
			Finding: domain.Finding{Kind: domain.FindingRegionTotal, Region: "Ontario", Amount: 4210.55},
			Text:    "*Ontario* total spend was **$4210.55**.",
		},
		{
			RunID: "run-2", Seq: 0,
			Finding: domain.Finding{Kind: domain.FindingRegionTotal, Region: "Ontario", Amount: 1},
		},
	}
	require.NoError(t, store.InsertBulk(ctx, records))

	got, err := store.GetByRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, domain.FindingItemChange, got[0].Finding.Kind)
	assert.Equal(t, "Milk", got[0].Finding.Item)
	assert.Equal(t, 20, got[0].Finding.PromoPct)
	assert.InDelta(t, 15.25, got[0].Finding.PercentChange, 0.0001)
	assert.Equal(t, records[0].Text, got[0].Text)

	assert.Equal(t, domain.FindingRegionTotal, got[1].Finding.Kind)
	assert.InDelta(t, 4210.55, got[1].Finding.Amount, 0.0001)
}

func TestFindingStore_Duplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewFindingStore(pool)

	rec := &domain.FindingRecord{RunID: "run-1", Seq: 0, Finding: domain.Finding{Kind: domain.FindingRegionTotal, Region: "Quebec"}}
	require.NoError(t, store.InsertBulk(ctx, []*domain.FindingRecord{rec}))

	err := store.InsertBulk(ctx, []*domain.FindingRecord{rec})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}
