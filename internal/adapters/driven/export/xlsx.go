// Package export writes review records to spreadsheet files.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driven"
)

// Ensure XLSXExporter implements the interface.
var _ driven.ResultExporter = (*XLSXExporter)(nil)

// Sheet names.
const (
	SummarySheet = "Summary"
	QuotesSheet  = "Quotes"
)

// QuoteColumns are the header cells of the quotes sheet.
var QuoteColumns = []string{"Clause", "Document Type", "Header", "Quote"}

// XLSXExporter writes a summary sheet and one row per quote.
// Clauses without quotes still get a row so every clause is listed.
type XLSXExporter struct{}

// NewXLSXExporter creates an exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Export writes record to path.
func (e *XLSXExporter) Export(record *domain.ReviewRecord, path string) error {
	if record == nil {
		return fmt.Errorf("%w: no record", domain.ErrInvalidInput)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(QuotesSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := writeSummary(f, record, bold); err != nil {
		return err
	}
	if err := writeQuotes(f, record.Result, bold); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func writeSummary(f *excelize.File, record *domain.ReviewRecord, bold int) error {
	rows := [][]any{
		{"Company", record.CompanyName},
		{"Criteria group", record.CriteriaName},
		{"Documents", strings.Join(record.DocumentIDs, ", ")},
		{"Reviewed at", record.ReviewedAt.Format(time.RFC3339)},
		{"Clauses", len(record.Result)},
		{"Quotes", record.Result.QuoteCount()},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", fmt.Sprintf("A%d", len(rows)), bold); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}
	return f.SetColWidth(SummarySheet, "A", "A", 18)
}

func writeQuotes(f *excelize.File, result domain.ReviewResult, bold int) error {
	header := make([]any, len(QuoteColumns))
	for i, c := range QuoteColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(QuotesSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(QuotesSheet, "A1", "D1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	row := 2
	put := func(values []any) error {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		row++
		return f.SetSheetRow(QuotesSheet, cell, &values)
	}
	for _, clause := range result {
		if len(clause.Quotes) == 0 {
			if err := put([]any{clause.ClauseName, "", "", ""}); err != nil {
				return fmt.Errorf("write quotes: %w", err)
			}
			continue
		}
		for _, q := range clause.Quotes {
			if err := put([]any{clause.ClauseName, q.DocumentType, q.Header, q.Content}); err != nil {
				return fmt.Errorf("write quotes: %w", err)
			}
		}
	}

	if err := f.SetColWidth(QuotesSheet, "A", "C", 20); err != nil {
		return err
	}
	return f.SetColWidth(QuotesSheet, "D", "D", 80)
}
