package reporting

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"retail-promo-lab/internal/domain"
)

// Workbook sheet names.
const (
	SheetSummary  = "Summary"
	SheetInsights = "Insights"
	SheetPairs    = "Pairs"
	SheetLines    = "Lines"
)

// RenderWorkbook builds the campaign deck as an XLSX workbook: a summary sheet,
// the findings, the top item pairs and the raw basket lines.
// The caller owns the returned file and must Close it.
func RenderWorkbook(r *Report, lines []*domain.BasketLine) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename default sheet: %w", err)
	}
	for _, name := range []string{SheetInsights, SheetPairs, SheetLines} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	steps := []func(*excelize.File, int) error{
		func(f *excelize.File, style int) error { return writeSummarySheet(f, style, r) },
		func(f *excelize.File, style int) error { return writeInsightsSheet(f, style, r) },
		func(f *excelize.File, style int) error { return writePairsSheet(f, style, r) },
		func(f *excelize.File, style int) error { return writeLinesSheet(f, style, lines) },
	}
	for _, step := range steps {
		if err := step(f, header); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteWorkbook renders the workbook and writes it to w.
func WriteWorkbook(w io.Writer, r *Report, lines []*domain.BasketLine) error {
	f, err := RenderWorkbook(r, lines)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, style int, r *Report) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Run ID", r.RunID},
		{"Generated", r.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Seed", r.Seed},
		{"Respondents per Region", r.RespondentsPerRegion},
		{"Regions", r.Summary.Regions},
		{"Baseline Lines", r.Summary.BaselineLines},
		{"Treated Lines", r.Summary.TreatedLines},
		{"Baseline Spend", r.Summary.BaselineSpend},
		{"Treated Spend", r.Summary.TreatedSpend},
	}
	if err := writeRows(f, SheetSummary, style, rows); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "B", 24)
}

func writeInsightsSheet(f *excelize.File, style int, r *Report) error {
	rows := [][]interface{}{{"Region", "Finding", "Kind", "Item", "Promo %", "Change %", "Amount"}}
	for _, sec := range r.Regions {
		for i, fd := range sec.Findings {
			rows = append(rows, []interface{}{
				sec.Region, sec.Lines[i], string(fd.Kind), fd.Item, fd.PromoPct, fd.PercentChange, fd.Amount,
			})
		}
	}
	if err := writeRows(f, SheetInsights, style, rows); err != nil {
		return err
	}
	return f.SetColWidth(SheetInsights, "B", "B", 60)
}

func writePairsSheet(f *excelize.File, style int, r *Report) error {
	rows := [][]interface{}{{"Region", "Rank", "Item A", "Item B", "Transactions"}}
	for _, sec := range r.Regions {
		for i, p := range sec.TopPairs {
			rows = append(rows, []interface{}{sec.Region, i + 1, p.Pair.A, p.Pair.B, p.Count})
		}
	}
	return writeRows(f, SheetPairs, style, rows)
}

func writeLinesSheet(f *excelize.File, style int, lines []*domain.BasketLine) error {
	rows := [][]interface{}{{
		"Scenario", "Transaction", "Respondent", "Region", "Retailer", "Age", "Income",
		"Loyalty", "Item", "Category", "Quantity", "Unit Price", "Total Price",
	}}
	for _, l := range lines {
		rows = append(rows, []interface{}{
			string(l.Scenario), l.TransactionID, l.RespondentID, l.Region, l.Retailer, l.Age, l.IncomeBracket,
			loyaltyCell(l.Loyalty), l.Item, l.Category, l.Quantity, l.UnitPrice, l.TotalPrice,
		})
	}
	return writeRows(f, SheetLines, style, rows)
}

// writeRows writes rows from A1 down and bolds the first row.
func writeRows(f *excelize.File, sheet string, headerStyle int, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}
