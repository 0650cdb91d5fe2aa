package reporting

import (
	"time"

	"retail-promo-lab/internal/domain"
)

// Report is the rendered outcome of one campaign run.
type Report struct {
	// Metadata
	RunID                string    `json:"run_id"`
	GeneratedAt          time.Time `json:"generated_at"`
	Seed                 uint64    `json:"seed"`
	RespondentsPerRegion int       `json:"respondents_per_region"`

	Summary RunSummary `json:"summary"`

	// One section per simulated region, in campaign order
	Regions []RegionSection `json:"regions"`
}

// RunSummary holds run-wide counts and spend.
type RunSummary struct {
	Regions       int     `json:"regions"`
	Respondents   int     `json:"respondents"`
	BaselineLines int     `json:"baseline_lines"`
	TreatedLines  int     `json:"treated_lines"`
	BaselineSpend float64 `json:"baseline_spend"`
	TreatedSpend  float64 `json:"treated_spend"`
}

// RegionSection is the per-region block: promo, findings, item pairs.
type RegionSection struct {
	Region   string                  `json:"region"`
	Heading  string                  `json:"heading"`
	Promos   []domain.PromoSelection `json:"promos"`
	Findings []domain.Finding        `json:"findings"`
	Lines    []string                `json:"lines"` // display strings, same order as Findings

	TopPairs  []domain.PairCount `json:"top_pairs"`
	ItemSpend []ItemSpendRow     `json:"item_spend"`
}

// ItemSpendRow compares spend on one promo item before and after the promo.
type ItemSpendRow struct {
	Item          string  `json:"item"`
	DiscountPct   int     `json:"discount_pct"`
	BaselineUnits int     `json:"baseline_units"`
	TreatedUnits  int     `json:"treated_units"`
	BaselineSpend float64 `json:"baseline_spend"`
	TreatedSpend  float64 `json:"treated_spend"`
}

// FindingRecords flattens the report's findings for export.
// Seq restarts at 0 in each region.
func (r *Report) FindingRecords() []*domain.FindingRecord {
	var records []*domain.FindingRecord
	for _, sec := range r.Regions {
		for i, f := range sec.Findings {
			records = append(records, &domain.FindingRecord{
				RunID:   r.RunID,
				Seq:     i,
				Finding: f,
				Text:    sec.Lines[i],
			})
		}
	}
	return records
}

// PairCountRecords flattens the report's top pairs for export. Rank is 1-based.
func (r *Report) PairCountRecords() []*domain.PairCountRecord {
	var records []*domain.PairCountRecord
	for _, sec := range r.Regions {
		for i, p := range sec.TopPairs {
			records = append(records, &domain.PairCountRecord{
				RunID:     r.RunID,
				Region:    sec.Region,
				Rank:      i + 1,
				PairCount: p,
			})
		}
	}
	return records
}
