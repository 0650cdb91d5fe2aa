// Package campaign runs one multi-market campaign end to end.
// It coordinates: fabrication → validation → insight + association → report → outputs
package campaign

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"retail-promo-lab/internal/config"
	"retail-promo-lab/internal/domain"
	"retail-promo-lab/internal/fabricator"
	"retail-promo-lab/internal/observability"
	"retail-promo-lab/internal/reporting"
	"retail-promo-lab/internal/storage"
	"retail-promo-lab/internal/storage/memory"
)

// ErrNoRegions is returned when a campaign has nothing to simulate.
var ErrNoRegions = errors.New("campaign has no regions")

// Options for creating a Runner.
type Options struct {
	// OutputDir receives the report files. Empty skips file output.
	OutputDir string

	// RunID overrides the generated run identifier.
	RunID string

	// Fabricator overrides fabricator.DefaultConfig().
	Fabricator *fabricator.Config

	// Sinks receive an export of every completed run.
	Sinks []Sink

	Logger zerolog.Logger

	// Clock defaults to time.Now().UTC().
	Clock func() time.Time
}

// Runner executes campaign runs. A Runner holds no per-run state and may be
// reused; callers serialise runs themselves.
type Runner struct {
	outputDir string
	runID     string
	fabCfg    fabricator.Config
	sinks     []Sink
	logger    zerolog.Logger
	now       func() time.Time
}

// NewRunner creates a new Runner.
func NewRunner(opts Options) *Runner {
	fabCfg := fabricator.DefaultConfig()
	if opts.Fabricator != nil {
		fabCfg = *opts.Fabricator
	}
	now := opts.Clock
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Runner{
		outputDir: opts.OutputDir,
		runID:     opts.RunID,
		fabCfg:    fabCfg,
		sinks:     opts.Sinks,
		logger:    opts.Logger.With().Str("component", "campaign").Logger(),
		now:       now,
	}
}

// Result contains results from one campaign run.
type Result struct {
	Run    *domain.CampaignRun `json:"run"`
	Report *reporting.Report   `json:"report"`

	// Lines holds baseline lines followed by treated lines, in fabrication order.
	Lines []*domain.BasketLine `json:"-"`

	// Files lists the output paths written, if any.
	Files []string `json:"files,omitempty"`

	// Exported lists the sinks that received the run.
	Exported []string `json:"exported,omitempty"`
}

// runStores are the per-run in-memory stores.
type runStores struct {
	lines    *memory.BasketLineStore
	findings *memory.FindingStore
	pairs    *memory.PairCountStore
}

// Run executes one campaign.
// Phases:
//  1. Fabricate respondents and baseline/treated baskets per region
//  2. Validate and store the lines
//  3. Run both engines and assemble the report
//  4. Export to sinks and write output files
func (r *Runner) Run(ctx context.Context, c *config.Campaign) (res *Result, err error) {
	if c == nil || len(c.Regions) == 0 {
		return nil, ErrNoRegions
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	start := r.now()
	run := &domain.CampaignRun{
		RunID:                r.runID,
		Seed:                 c.SeedValue(),
		RespondentsPerRegion: c.RespondentsPerRegion,
		Promos:               c.PromoSpecs(),
		StartedAt:            start,
	}
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	logger := r.logger.With().Str("run_id", run.RunID).Logger()

	observability.SetRunInProgress(true)
	defer func() {
		observability.SetRunInProgress(false)
		status := "success"
		if err != nil {
			status = "failed"
		}
		observability.RecordCampaignRun(status, time.Since(start).Seconds())
	}()

	stores := runStores{
		lines:    memory.NewBasketLineStore(),
		findings: memory.NewFindingStore(),
		pairs:    memory.NewPairCountStore(),
	}

	// Phase 1-2: fabricate, validate, store
	logger.Info().Int("regions", len(run.Promos)).Uint64("seed", run.Seed).Msg("fabricating records")
	lines, err := r.fabricate(ctx, run, stores.lines, logger)
	if err != nil {
		return nil, err
	}

	// Phase 3: engines + report
	report, err := reporting.NewGenerator(stores.lines).WithClock(r.now).Generate(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}
	if err := stores.findings.InsertBulk(ctx, report.FindingRecords()); err != nil {
		return nil, fmt.Errorf("store findings: %w", err)
	}
	if err := stores.pairs.InsertBulk(ctx, report.PairCountRecords()); err != nil {
		return nil, fmt.Errorf("store pair counts: %w", err)
	}
	recordReportMetrics(report)
	for _, sec := range report.Regions {
		logger.Debug().
			Str("region", sec.Region).
			Int("findings", len(sec.Findings)).
			Int("pairs", len(sec.TopPairs)).
			Msg("region analysed")
	}

	res = &Result{Run: run, Report: report, Lines: lines}

	// Phase 4: sinks + files
	exported, err := r.export(ctx, stores, run.RunID, logger)
	if err != nil {
		return nil, err
	}
	res.Exported = exported

	if r.outputDir != "" {
		files, err := writeOutputs(r.outputDir, report, lines)
		if err != nil {
			return nil, fmt.Errorf("write outputs: %w", err)
		}
		res.Files = files
		logger.Info().Str("output_dir", r.outputDir).Int("files", len(files)).Msg("outputs written")
	}

	observability.SetLastSuccessfulRun(r.now().Unix())
	logger.Info().
		Int("lines", len(lines)).
		Float64("treated_spend", report.Summary.TreatedSpend).
		Msg("campaign run complete")

	return res, nil
}

// fabricate builds and stores baseline and treated lines for every region.
// Returned lines are all baseline lines followed by all treated lines.
func (r *Runner) fabricate(ctx context.Context, run *domain.CampaignRun, store storage.BasketLineStore, logger zerolog.Logger) ([]*domain.BasketLine, error) {
	fab, err := fabricator.New(run.Seed, r.fabCfg)
	if err != nil {
		return nil, fmt.Errorf("create fabricator: %w", err)
	}

	var baselineAll, treatedAll []*domain.BasketLine
	for _, promo := range run.Promos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		respondents := fab.Respondents(promo.Region, run.RespondentsPerRegion)
		baseline := fab.Baskets(run.RunID, domain.ScenarioBaseline, respondents, domain.PromoSpec{Region: promo.Region})
		treated := fab.Baskets(run.RunID, domain.ScenarioTreated, respondents, promo)

		// Engines assume well-formed records; reject anything else here.
		if err := domain.ValidateLines(baseline); err != nil {
			return nil, fmt.Errorf("baseline lines for %s: %w", promo.Region, err)
		}
		if err := domain.ValidateLines(treated); err != nil {
			return nil, fmt.Errorf("treated lines for %s: %w", promo.Region, err)
		}

		if err := store.InsertBulk(ctx, baseline); err != nil {
			return nil, fmt.Errorf("store baseline lines for %s: %w", promo.Region, err)
		}
		if err := store.InsertBulk(ctx, treated); err != nil {
			return nil, fmt.Errorf("store treated lines for %s: %w", promo.Region, err)
		}

		observability.RecordFabricated(string(domain.ScenarioBaseline), len(respondents), len(baseline))
		observability.RecordFabricated(string(domain.ScenarioTreated), 0, len(treated))

		logger.Debug().
			Str("region", promo.Region).
			Int("respondents", len(respondents)).
			Int("baseline_lines", len(baseline)).
			Int("treated_lines", len(treated)).
			Msg("region fabricated")

		baselineAll = append(baselineAll, baseline...)
		treatedAll = append(treatedAll, treated...)
	}

	return append(baselineAll, treatedAll...), nil
}

func recordReportMetrics(report *reporting.Report) {
	observability.RecordReportGenerated()
	for _, sec := range report.Regions {
		for _, f := range sec.Findings {
			observability.RecordFinding(string(f.Kind))
		}
		observability.RecordPairs(len(sec.TopPairs))
	}
}
