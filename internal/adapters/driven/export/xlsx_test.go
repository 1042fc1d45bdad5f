package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

func TestXLSXExporter_Export(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.xlsx")
	record := &domain.ReviewRecord{
		ID:           "r1",
		CompanyName:  "Acme",
		DocumentIDs:  []string{"1", "2"},
		CriteriaName: "Supply",
		ReviewedAt:   time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
		Result: domain.ReviewResult{
			{ClauseName: "Termination", Quotes: []domain.Quote{
				{DocumentType: "MSA", Header: "12. Term", Content: "may terminate"},
				{DocumentType: "PO", Header: "", Content: "ends on notice"},
			}},
			{ClauseName: "Warranty"},
		},
	}

	require.NoError(t, NewXLSXExporter().Export(record, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, QuotesSheet}, f.GetSheetList())

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Company", "Acme"}, summary[0])
	assert.Equal(t, []string{"Documents", "1, 2"}, summary[2])
	assert.Equal(t, []string{"Reviewed at", "2026-02-03T04:05:06Z"}, summary[3])
	assert.Equal(t, []string{"Quotes", "2"}, summary[5])

	quotes, err := f.GetRows(QuotesSheet)
	require.NoError(t, err)
	require.Len(t, quotes, 4)
	assert.Equal(t, QuoteColumns, quotes[0])
	assert.Equal(t, []string{"Termination", "MSA", "12. Term", "may terminate"}, quotes[1])
	assert.Equal(t, []string{"Termination", "PO", "", "ends on notice"}, quotes[2])
	assert.Equal(t, "Warranty", quotes[3][0])
}

func TestXLSXExporter_Errors(t *testing.T) {
	e := NewXLSXExporter()

	assert.ErrorIs(t, e.Export(nil, filepath.Join(t.TempDir(), "x.xlsx")), domain.ErrInvalidInput)

	missingDir := filepath.Join(t.TempDir(), "no", "such", "dir", "x.xlsx")
	assert.Error(t, e.Export(&domain.ReviewRecord{}, missingDir))
}
