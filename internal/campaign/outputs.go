package campaign

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"retail-promo-lab/internal/domain"
	"retail-promo-lab/internal/observability"
	"retail-promo-lab/internal/reporting"
)

// Output file names.
const (
	ReportFile      = "REPORT.md"
	InsightsFile    = "insights.csv"
	PairsFile       = "item_pairs.csv"
	BasketLinesFile = "basket_lines.csv"
	WorkbookFile    = "campaign.xlsx"
)

// writeOutputs renders the report in every format into dir and returns the paths written.
func writeOutputs(dir string, report *reporting.Report, lines []*domain.BasketLine) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	findingsCSV, err := reporting.RenderFindingsCSV(report)
	if err != nil {
		return nil, fmt.Errorf("render insights csv: %w", err)
	}
	pairsCSV, err := reporting.RenderPairsCSV(report)
	if err != nil {
		return nil, fmt.Errorf("render pairs csv: %w", err)
	}
	linesCSV, err := reporting.RenderBasketLinesCSV(lines)
	if err != nil {
		return nil, fmt.Errorf("render basket lines csv: %w", err)
	}
	var workbook bytes.Buffer
	if err := reporting.WriteWorkbook(&workbook, report, lines); err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}

	outputs := []struct {
		name string
		data []byte
	}{
		{ReportFile, []byte(reporting.RenderMarkdown(report))},
		{InsightsFile, []byte(findingsCSV)},
		{PairsFile, []byte(pairsCSV)},
		{BasketLinesFile, []byte(linesCSV)},
		{WorkbookFile, workbook.Bytes()},
	}

	paths := make([]string, 0, len(outputs))
	for _, out := range outputs {
		path := filepath.Join(dir, out.name)
		if err := os.WriteFile(path, out.data, 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", out.name, err)
		}
		observability.RecordFileWritten(out.name)
		paths = append(paths, path)
	}
	return paths, nil
}
