package reporting

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"retail-promo-lab/internal/domain"
)

// RenderFindingsCSV renders every region's findings as CSV string.
func RenderFindingsCSV(r *Report) (string, error) {
	rows := [][]string{{"region", "seq", "kind", "item", "promo_pct", "percent_change", "amount", "text"}}
	for _, sec := range r.Regions {
		for i, f := range sec.Findings {
			rows = append(rows, []string{
				sec.Region,
				strconv.Itoa(i),
				string(f.Kind),
				f.Item,
				strconv.Itoa(f.PromoPct),
				formatFloat(f.PercentChange, 4),
				formatFloat(f.Amount, 2),
				sec.Lines[i],
			})
		}
	}
	return writeCSV(rows)
}

// RenderPairsCSV renders every region's top item pairs as CSV string.
func RenderPairsCSV(r *Report) (string, error) {
	rows := [][]string{{"region", "rank", "item_a", "item_b", "count"}}
	for _, sec := range r.Regions {
		for i, p := range sec.TopPairs {
			rows = append(rows, []string{
				sec.Region,
				strconv.Itoa(i + 1),
				p.Pair.A,
				p.Pair.B,
				strconv.Itoa(p.Count),
			})
		}
	}
	return writeCSV(rows)
}

// RenderBasketLinesCSV renders basket lines in the given order as CSV string.
func RenderBasketLinesCSV(lines []*domain.BasketLine) (string, error) {
	rows := [][]string{{
		"scenario", "transaction_id", "respondent_id", "region", "retailer",
		"age", "income_bracket", "loyalty",
		"item", "category", "quantity", "unit_price", "total_price",
	}}
	for _, l := range lines {
		rows = append(rows, []string{
			string(l.Scenario),
			l.TransactionID,
			l.RespondentID,
			l.Region,
			l.Retailer,
			strconv.Itoa(l.Age),
			l.IncomeBracket,
			loyaltyCell(l.Loyalty),
			l.Item,
			l.Category,
			strconv.Itoa(l.Quantity),
			formatFloat(l.UnitPrice, 2),
			formatFloat(l.TotalPrice, 2),
		})
	}
	return writeCSV(rows)
}

func writeCSV(rows [][]string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// loyaltyCell renders unknown loyalty as an empty cell.
func loyaltyCell(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}
