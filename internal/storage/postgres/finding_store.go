package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"retail-promo-lab/internal/domain"
	"retail-promo-lab/internal/storage"
)

// FindingStore implements storage.FindingStore using PostgreSQL.
type FindingStore struct {
	pool *Pool
}

// NewFindingStore creates a new FindingStore.
func NewFindingStore(pool *Pool) *FindingStore {
	return &FindingStore{pool: pool}
}

// Compile-time interface check.
var _ storage.FindingStore = (*FindingStore)(nil)

// InsertBulk adds multiple findings atomically. Fails entire batch on any duplicate.
func (s *FindingStore) InsertBulk(ctx context.Context, records []*domain.FindingRecord) error {
	if len(records) == 0 {
		return nil
	}

	for _, r := range records {
		if r == nil || r.RunID == "" || r.Finding.Region == "" {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO insight_findings (
			run_id, region, seq, kind, item, promo_pct, percent_change, amount, text
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, r := range records {
		f := r.Finding
		_, err := tx.Exec(ctx, query,
			r.RunID, f.Region, r.Seq, string(f.Kind), f.Item, f.PromoPct, f.PercentChange, f.Amount, r.Text,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert finding in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByRun retrieves all findings of a run, ordered by insertion then seq.
func (s *FindingStore) GetByRun(ctx context.Context, runID string) ([]*domain.FindingRecord, error) {
	query := `
		SELECT run_id, region, seq, kind, item, promo_pct, percent_change, amount, text
		FROM insight_findings
		WHERE run_id = $1
		ORDER BY id ASC, seq ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get findings by run: %w", err)
	}
	defer rows.Close()

	return scanFindings(rows)
}

// scanFindings scans multiple rows into a slice of FindingRecord.
func scanFindings(rows pgx.Rows) ([]*domain.FindingRecord, error) {
	var records []*domain.FindingRecord

	for rows.Next() {
		var r domain.FindingRecord
		var kind string

		err := rows.Scan(
			&r.RunID, &r.Finding.Region, &r.Seq, &kind, &r.Finding.Item,
			&r.Finding.PromoPct, &r.Finding.PercentChange, &r.Finding.Amount, &r.Text,
		)
		if err != nil {
			return nil, fmt.Errorf("scan finding row: %w", err)
		}

		r.Finding.Kind = domain.FindingKind(kind)
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate finding rows: %w", err)
	}

	return records, nil
}
