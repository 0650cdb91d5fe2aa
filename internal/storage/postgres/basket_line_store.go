package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"retail-promo-lab/internal/domain"
	"retail-promo-lab/internal/storage"
)

// BasketLineStore implements storage.BasketLineStore using PostgreSQL.
type BasketLineStore struct {
	pool *Pool
}

// NewBasketLineStore creates a new BasketLineStore.
func NewBasketLineStore(pool *Pool) *BasketLineStore {
	return &BasketLineStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BasketLineStore = (*BasketLineStore)(nil)

const basketLineColumns = `
	run_id, scenario, transaction_id, respondent_id, region, retailer,
	age, income_bracket, loyalty,
	item, category, quantity, unit_price, total_price
`

// InsertBulk adds multiple lines atomically. Fails entire batch on any duplicate.
func (s *BasketLineStore) InsertBulk(ctx context.Context, lines []*domain.BasketLine) error {
	if len(lines) == 0 {
		return nil
	}

	for _, l := range lines {
		if l == nil || l.RunID == "" || !l.Scenario.IsValid() || l.TransactionID == "" || l.Item == "" {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO basket_lines (` + basketLineColumns + `) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9,
			$10, $11, $12, $13, $14
		)
	`

	for _, l := range lines {
		_, err := tx.Exec(ctx, query,
			l.RunID, string(l.Scenario), l.TransactionID, l.RespondentID, l.Region, l.Retailer,
			l.Age, l.IncomeBracket, l.Loyalty,
			l.Item, l.Category, l.Quantity, l.UnitPrice, l.TotalPrice,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert basket line in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByRunScenario retrieves all lines of a run and scenario in insertion order.
func (s *BasketLineStore) GetByRunScenario(ctx context.Context, runID string, scenario domain.Scenario) ([]*domain.BasketLine, error) {
	query := `
		SELECT ` + basketLineColumns + `
		FROM basket_lines
		WHERE run_id = $1 AND scenario = $2
		ORDER BY id ASC
	`

	rows, err := s.pool.Query(ctx, query, runID, string(scenario))
	if err != nil {
		return nil, fmt.Errorf("get basket lines by run/scenario: %w", err)
	}
	defer rows.Close()

	return scanBasketLines(rows)
}

// GetByRegion retrieves lines of a run and scenario for one region, in insertion order.
func (s *BasketLineStore) GetByRegion(ctx context.Context, runID string, scenario domain.Scenario, region string) ([]*domain.BasketLine, error) {
	query := `
		SELECT ` + basketLineColumns + `
		FROM basket_lines
		WHERE run_id = $1 AND scenario = $2 AND region = $3
		ORDER BY id ASC
	`

	rows, err := s.pool.Query(ctx, query, runID, string(scenario), region)
	if err != nil {
		return nil, fmt.Errorf("get basket lines by region: %w", err)
	}
	defer rows.Close()

	return scanBasketLines(rows)
}

// scanBasketLines scans multiple rows into a slice of BasketLine.
func scanBasketLines(rows pgx.Rows) ([]*domain.BasketLine, error) {
	var lines []*domain.BasketLine

	for rows.Next() {
		var l domain.BasketLine
		var scenario string

		err := rows.Scan(
			&l.RunID, &scenario, &l.TransactionID, &l.RespondentID, &l.Region, &l.Retailer,
			&l.Age, &l.IncomeBracket, &l.Loyalty,
			&l.Item, &l.Category, &l.Quantity, &l.UnitPrice, &l.TotalPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("scan basket line row: %w", err)
		}

		l.Scenario = domain.Scenario(scenario)
		lines = append(lines, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate basket line rows: %w", err)
	}

	return lines, nil
}
