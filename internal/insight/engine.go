// Package insight compares a baseline and a promo-treated basket set and
// produces ordered, display-ready findings for one region.
package insight

import "retail-promo-lab/internal/domain"

// Generate returns the findings for region in order: one item_change per
// promo selection with a non-zero baseline, then region_total, then
// loyalty_gap when both loyalty cohorts have lines.
func Generate(baseline, treated []*domain.BasketLine, promo domain.PromoSpec, region string) []domain.Finding {
	findings := make([]domain.Finding, 0, len(promo.Selections)+2)

	for _, sel := range promo.Selections {
		before := sumItemRegion(baseline, sel.Item, region)
		after := sumItemRegion(treated, sel.Item, region)
		// Zero baseline has no defined percent change.
		if before <= 0 {
			continue
		}
		findings = append(findings, domain.Finding{
			Kind:          domain.FindingItemChange,
			Region:        region,
			Item:          sel.Item,
			PromoPct:      sel.DiscountPct,
			PercentChange: (after - before) / before * 100,
		})
	}

	findings = append(findings, domain.Finding{
		Kind:   domain.FindingRegionTotal,
		Region: region,
		Amount: sumRegion(treated, region),
	})

	loyalMean, okLoyal := meanRegion(treated, region, (*domain.BasketLine).IsLoyal)
	nonLoyalMean, okNonLoyal := meanRegion(treated, region, (*domain.BasketLine).IsNonLoyal)
	if okLoyal && okNonLoyal {
		findings = append(findings, domain.Finding{
			Kind:   domain.FindingLoyaltyGap,
			Region: region,
			Amount: loyalMean - nonLoyalMean,
		})
	}

	return findings
}

func sumItemRegion(lines []*domain.BasketLine, item, region string) float64 {
	var sum float64
	for _, l := range lines {
		if l.Item == item && l.Region == region {
			sum += l.TotalPrice
		}
	}
	return sum
}

func sumRegion(lines []*domain.BasketLine, region string) float64 {
	var sum float64
	for _, l := range lines {
		if l.Region == region {
			sum += l.TotalPrice
		}
	}
	return sum
}

// meanRegion returns the mean total_price of region lines matching keep.
// ok is false when no line matches.
func meanRegion(lines []*domain.BasketLine, region string, keep func(*domain.BasketLine) bool) (mean float64, ok bool) {
	var sum float64
	var n int
	for _, l := range lines {
		if l.Region == region && keep(l) {
			sum += l.TotalPrice
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
