package clickhouse

import (
	"context"
	"fmt"

	"retail-promo-lab/internal/domain"
	"retail-promo-lab/internal/storage"
)

// PairCountStore implements storage.PairCountStore using ClickHouse.
type PairCountStore struct {
	conn *Conn
}

// NewPairCountStore creates a new PairCountStore.
func NewPairCountStore(conn *Conn) *PairCountStore {
	return &PairCountStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PairCountStore = (*PairCountStore)(nil)

// InsertBulk adds multiple pair counts. Fails entire batch on duplicate (run_id, region, item_a, item_b).
func (s *PairCountStore) InsertBulk(ctx context.Context, records []*domain.PairCountRecord) error {
	if len(records) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		runID, region string
		pair          domain.ItemPair
	}
	keys := make(map[key]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.RunID == "" || r.Region == "" || r.Pair.A == "" || r.Pair.B == "" {
			return storage.ErrInvalidInput
		}
		k := key{r.RunID, r.Region, r.Pair}
		if _, exists := keys[k]; exists {
			return storage.ErrDuplicateKey
		}
		keys[k] = struct{}{}
	}

	// MergeTree does not enforce uniqueness, so check existing rows explicitly
	for _, r := range records {
		exists, err := s.exists(ctx, r.RunID, r.Region, r.Pair)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO item_pair_counts (
			run_id, region, pair_rank, item_a, item_b, pair_count
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range records {
		err = batch.Append(
			r.RunID, r.Region, uint32(r.Rank), r.Pair.A, r.Pair.B, uint32(r.Count),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRunRegion retrieves the pair counts of one region, ordered by rank ASC.
func (s *PairCountStore) GetByRunRegion(ctx context.Context, runID, region string) ([]*domain.PairCountRecord, error) {
	query := `
		SELECT run_id, region, pair_rank, item_a, item_b, pair_count
		FROM item_pair_counts
		WHERE run_id = ? AND region = ?
		ORDER BY pair_rank ASC
	`

	rows, err := s.conn.Query(ctx, query, runID, region)
	if err != nil {
		return nil, fmt.Errorf("query by run/region: %w", err)
	}
	defer rows.Close()

	return scanPairCounts(rows)
}

// exists checks if a pair count with the given key exists.
func (s *PairCountStore) exists(ctx context.Context, runID, region string, pair domain.ItemPair) (bool, error) {
	query := `
		SELECT count(*) FROM item_pair_counts
		WHERE run_id = ? AND region = ? AND item_a = ? AND item_b = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, runID, region, pair.A, pair.B).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanPairCounts scans multiple rows.
func scanPairCounts(rows chRows) ([]*domain.PairCountRecord, error) {
	var records []*domain.PairCountRecord

	for rows.Next() {
		var r domain.PairCountRecord
		var rank, count uint32

		err := rows.Scan(&r.RunID, &r.Region, &rank, &r.Pair.A, &r.Pair.B, &count)
		if err != nil {
			return nil, fmt.Errorf("scan pair count row: %w", err)
		}

		r.Rank = int(rank)
		r.Count = int(count)
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pair count rows: %w", err)
	}

	return records, nil
}
