package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Multi-Market Campaign Report\n\n")
	sb.WriteString(fmt.Sprintf("Run: `%s`\n\n", r.RunID))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Seed: %d | Respondents per region: %d\n\n", r.Seed, r.RespondentsPerRegion))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Regions | %d |\n", r.Summary.Regions))
	sb.WriteString(fmt.Sprintf("| Respondents | %d |\n", r.Summary.Respondents))
	sb.WriteString(fmt.Sprintf("| Baseline Lines | %d |\n", r.Summary.BaselineLines))
	sb.WriteString(fmt.Sprintf("| Treated Lines | %d |\n", r.Summary.TreatedLines))
	sb.WriteString(fmt.Sprintf("| Baseline Spend | $%.2f |\n", r.Summary.BaselineSpend))
	sb.WriteString(fmt.Sprintf("| Treated Spend | $%.2f |\n", r.Summary.TreatedSpend))
	sb.WriteString("\n")

	if len(r.Regions) == 0 {
		sb.WriteString("No regions simulated.\n")
		return sb.String()
	}

	for _, sec := range r.Regions {
		sb.WriteString(fmt.Sprintf("## %s\n\n", sec.Region))

		// Insights
		sb.WriteString(sec.Heading + "\n\n")
		for _, line := range sec.Lines {
			sb.WriteString(fmt.Sprintf("- %s\n", line))
		}
		sb.WriteString("\n")

		// Promo items
		sb.WriteString("### Promo Items\n\n")
		if len(sec.ItemSpend) > 0 {
			sb.WriteString("| Item | Discount | Baseline Units | Treated Units | Baseline Spend | Treated Spend |\n")
			sb.WriteString("|------|----------|----------------|---------------|----------------|---------------|\n")
			for _, row := range sec.ItemSpend {
				sb.WriteString(fmt.Sprintf("| %s | %d%% | %d | %d | $%.2f | $%.2f |\n",
					row.Item, row.DiscountPct,
					row.BaselineUnits, row.TreatedUnits,
					row.BaselineSpend, row.TreatedSpend))
			}
		} else {
			sb.WriteString("No promo items selected.\n")
		}
		sb.WriteString("\n")

		// Basket analysis
		sb.WriteString("### Top Item Pairs\n\n")
		if len(sec.TopPairs) > 0 {
			sb.WriteString("| Rank | Item A | Item B | Transactions |\n")
			sb.WriteString("|------|--------|--------|--------------|\n")
			for i, p := range sec.TopPairs {
				sb.WriteString(fmt.Sprintf("| %d | %s | %s | %d |\n", i+1, p.Pair.A, p.Pair.B, p.Count))
			}
		} else {
			sb.WriteString("No item pairs found.\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
