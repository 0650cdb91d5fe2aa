package campaign

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"retail-promo-lab/internal/domain"
	"retail-promo-lab/internal/observability"
	"retail-promo-lab/internal/storage"
	chstore "retail-promo-lab/internal/storage/clickhouse"
	"retail-promo-lab/internal/storage/migrations"
	pgstore "retail-promo-lab/internal/storage/postgres"
)

// Sink is an export target for completed runs. Nil stores are skipped.
// Sinks are write-only: nothing is read back by later runs.
type Sink struct {
	Name     string
	Lines    storage.BasketLineStore
	Findings storage.FindingStore
	Pairs    storage.PairCountStore
}

// NewPostgresSink exports basket lines and findings to PostgreSQL.
func NewPostgresSink(pool *pgstore.Pool) Sink {
	return Sink{
		Name:     "postgres",
		Lines:    pgstore.NewBasketLineStore(pool),
		Findings: pgstore.NewFindingStore(pool),
	}
}

// NewClickhouseSink exports pair counts to ClickHouse.
func NewClickhouseSink(conn *chstore.Conn) Sink {
	return Sink{
		Name:  "clickhouse",
		Pairs: chstore.NewPairCountStore(conn),
	}
}

// OpenSinks connects to the configured databases and applies migrations.
// Empty DSNs are skipped. The returned cleanup closes every connection.
func OpenSinks(ctx context.Context, postgresDSN, clickhouseDSN string) ([]Sink, func(), error) {
	var sinks []Sink
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return nil, cleanup, fmt.Errorf("create postgres pool: %w", err)
		}
		closers = append(closers, pool.Close)

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("postgres migrations: %w", err)
		}
		sinks = append(sinks, NewPostgresSink(pool))
	}

	if clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("clickhouse migrations: %w", err)
		}
		closers = append(closers, func() { conn.Close() })
		sinks = append(sinks, NewClickhouseSink(conn))
	}

	return sinks, cleanup, nil
}

// export copies the run's records from the per-run stores into every sink.
func (r *Runner) export(ctx context.Context, stores runStores, runID string, logger zerolog.Logger) ([]string, error) {
	if len(r.sinks) == 0 {
		return nil, nil
	}

	lines, err := stores.allLines(ctx, runID)
	if err != nil {
		return nil, err
	}
	findings, err := stores.findings.GetByRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load findings: %w", err)
	}
	pairs, err := stores.allPairs(ctx, runID, distinctRegions(lines))
	if err != nil {
		return nil, err
	}

	var exported []string
	for _, sink := range r.sinks {
		start := time.Now()
		err := exportTo(ctx, sink, lines, findings, pairs)
		observability.RecordExport(sink.Name, time.Since(start).Seconds(), err)
		if err != nil {
			return exported, fmt.Errorf("export to %s: %w", sink.Name, err)
		}
		logger.Info().
			Str("sink", sink.Name).
			Int("lines", len(lines)).
			Int("findings", len(findings)).
			Int("pairs", len(pairs)).
			Msg("run exported")
		exported = append(exported, sink.Name)
	}
	return exported, nil
}

func exportTo(ctx context.Context, sink Sink, lines []*domain.BasketLine, findings []*domain.FindingRecord, pairs []*domain.PairCountRecord) error {
	if sink.Lines != nil {
		if err := sink.Lines.InsertBulk(ctx, lines); err != nil {
			return fmt.Errorf("basket lines: %w", err)
		}
	}
	if sink.Findings != nil {
		if err := sink.Findings.InsertBulk(ctx, findings); err != nil {
			return fmt.Errorf("findings: %w", err)
		}
	}
	if sink.Pairs != nil {
		if err := sink.Pairs.InsertBulk(ctx, pairs); err != nil {
			return fmt.Errorf("pair counts: %w", err)
		}
	}
	return nil
}

func (s runStores) allLines(ctx context.Context, runID string) ([]*domain.BasketLine, error) {
	baseline, err := s.lines.GetByRunScenario(ctx, runID, domain.ScenarioBaseline)
	if err != nil {
		return nil, fmt.Errorf("load baseline lines: %w", err)
	}
	treated, err := s.lines.GetByRunScenario(ctx, runID, domain.ScenarioTreated)
	if err != nil {
		return nil, fmt.Errorf("load treated lines: %w", err)
	}
	return append(baseline, treated...), nil
}

func (s runStores) allPairs(ctx context.Context, runID string, regions []string) ([]*domain.PairCountRecord, error) {
	var all []*domain.PairCountRecord
	for _, region := range regions {
		pairs, err := s.pairs.GetByRunRegion(ctx, runID, region)
		if err != nil {
			return nil, fmt.Errorf("load pair counts for %s: %w", region, err)
		}
		all = append(all, pairs...)
	}
	return all, nil
}

// distinctRegions returns regions in first-appearance order.
func distinctRegions(lines []*domain.BasketLine) []string {
	seen := make(map[string]struct{})
	var regions []string
	for _, l := range lines {
		if _, ok := seen[l.Region]; ok {
			continue
		}
		seen[l.Region] = struct{}{}
		regions = append(regions, l.Region)
	}
	return regions
}
