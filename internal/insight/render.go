package insight

import (
	"fmt"
	"math"

	"retail-promo-lab/internal/domain"
)

// Heading returns the section title shown above a region's findings.
func Heading(region string) string {
	return fmt.Sprintf("**%s Promo Summary**", region)
}

// Text renders one finding as a Markdown-formatted sentence.
func Text(f domain.Finding) string {
	switch f.Kind {
	case domain.FindingItemChange:
		verb := "increased"
		if f.PercentChange < 0 {
			verb = "decreased"
		}
		return fmt.Sprintf("*%s* sales %s by **%.1f%%** under a %d%% promo.",
			f.Item, verb, math.Abs(f.PercentChange), f.PromoPct)
	case domain.FindingRegionTotal:
		return fmt.Sprintf("*%s* total spend was **$%.2f**.", f.Region, f.Amount)
	case domain.FindingLoyaltyGap:
		direction := "more"
		if f.Amount < 0 {
			direction = "less"
		}
		return fmt.Sprintf("Loyalty members spent **$%.2f** %s on average.", math.Abs(f.Amount), direction)
	default:
		return ""
	}
}

// Lines renders findings in order.
func Lines(findings []domain.Finding) []string {
	lines := make([]string, len(findings))
	for i, f := range findings {
		lines[i] = Text(f)
	}
	return lines
}
