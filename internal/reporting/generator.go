package reporting

import (
	"context"
	"fmt"
	"time"

	"retail-promo-lab/internal/association"
	"retail-promo-lab/internal/domain"
	"retail-promo-lab/internal/insight"
	"retail-promo-lab/internal/storage"
)

// Generator produces reports from stored basket lines.
type Generator struct {
	lineStore storage.BasketLineStore
	now       func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(lineStore storage.BasketLineStore) *Generator {
	return &Generator{
		lineStore: lineStore,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate runs both engines over every region of run and assembles the report.
func (g *Generator) Generate(ctx context.Context, run *domain.CampaignRun) (*Report, error) {
	report := &Report{
		RunID:                run.RunID,
		GeneratedAt:          g.now(),
		Seed:                 run.Seed,
		RespondentsPerRegion: run.RespondentsPerRegion,
	}

	for _, promo := range run.Promos {
		baseline, err := g.lineStore.GetByRegion(ctx, run.RunID, domain.ScenarioBaseline, promo.Region)
		if err != nil {
			return nil, fmt.Errorf("load baseline lines for %s: %w", promo.Region, err)
		}
		treated, err := g.lineStore.GetByRegion(ctx, run.RunID, domain.ScenarioTreated, promo.Region)
		if err != nil {
			return nil, fmt.Errorf("load treated lines for %s: %w", promo.Region, err)
		}

		report.Regions = append(report.Regions, g.regionSection(baseline, treated, promo))

		report.Summary.BaselineLines += len(baseline)
		report.Summary.TreatedLines += len(treated)
		report.Summary.BaselineSpend += spend(baseline)
		report.Summary.TreatedSpend += spend(treated)
	}

	report.Summary.Regions = len(run.Promos)
	report.Summary.Respondents = len(run.Promos) * run.RespondentsPerRegion
	report.Summary.BaselineSpend = domain.RoundCents(report.Summary.BaselineSpend)
	report.Summary.TreatedSpend = domain.RoundCents(report.Summary.TreatedSpend)

	return report, nil
}

func (g *Generator) regionSection(baseline, treated []*domain.BasketLine, promo domain.PromoSpec) RegionSection {
	findings := insight.Generate(baseline, treated, promo, promo.Region)

	return RegionSection{
		Region:    promo.Region,
		Heading:   insight.Heading(promo.Region),
		Promos:    append([]domain.PromoSelection(nil), promo.Selections...),
		Findings:  findings,
		Lines:     insight.Lines(findings),
		TopPairs:  association.TopPairs(treated, association.DefaultLimit),
		ItemSpend: itemSpend(baseline, treated, promo),
	}
}

// itemSpend builds one row per promo item, in promo order.
func itemSpend(baseline, treated []*domain.BasketLine, promo domain.PromoSpec) []ItemSpendRow {
	rows := make([]ItemSpendRow, 0, len(promo.Selections))
	for _, sel := range promo.Selections {
		row := ItemSpendRow{Item: sel.Item, DiscountPct: sel.DiscountPct}
		for _, l := range baseline {
			if l.Item == sel.Item {
				row.BaselineUnits += l.Quantity
				row.BaselineSpend += l.TotalPrice
			}
		}
		for _, l := range treated {
			if l.Item == sel.Item {
				row.TreatedUnits += l.Quantity
				row.TreatedSpend += l.TotalPrice
			}
		}
		row.BaselineSpend = domain.RoundCents(row.BaselineSpend)
		row.TreatedSpend = domain.RoundCents(row.TreatedSpend)
		rows = append(rows, row)
	}
	return rows
}

func spend(lines []*domain.BasketLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.TotalPrice
	}
	return total
}
