package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driven"
)

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

// Stored JSON shape of a review result. Kept separate from the domain type
// so renaming a Go field never breaks existing databases.
type storedQuote struct {
	DocumentType string `json:"document_type"`
	Header       string `json:"header"`
	Content      string `json:"content"`
}

type storedClause struct {
	ClauseName string        `json:"clause_name"`
	Quotes     []storedQuote `json:"quotes"`
}

func encodeResult(result domain.ReviewResult) (string, error) {
	out := make([]storedClause, 0, len(result))
	for _, c := range result {
		sc := storedClause{ClauseName: c.ClauseName, Quotes: make([]storedQuote, 0, len(c.Quotes))}
		for _, q := range c.Quotes {
			sc.Quotes = append(sc.Quotes, storedQuote(q))
		}
		out = append(out, sc)
	}
	b, err := json.Marshal(out)
	return string(b), err
}

func decodeResult(data string) (domain.ReviewResult, error) {
	var stored []storedClause
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, err
	}
	result := make(domain.ReviewResult, 0, len(stored))
	for _, sc := range stored {
		c := domain.ClauseReview{ClauseName: sc.ClauseName}
		for _, q := range sc.Quotes {
			c.Quotes = append(c.Quotes, domain.Quote(q))
		}
		result = append(result, c)
	}
	return result, nil
}

// SaveRecord stores or replaces a record.
func (h *historyStore) SaveRecord(ctx context.Context, record *domain.ReviewRecord) error {
	ids := record.DocumentIDs
	if ids == nil {
		ids = []string{}
	}
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshalling document ids: %w", err)
	}
	resultJSON, err := encodeResult(record.Result)
	if err != nil {
		return fmt.Errorf("marshalling result: %w", err)
	}
	reviewedAt := record.ReviewedAt
	if reviewedAt.IsZero() {
		reviewedAt = time.Now()
	}

	_, err = h.store.db.ExecContext(ctx, `
		INSERT INTO review_records (id, company_id, company_name, document_ids, criteria_group_id, criteria_name, result, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			company_id = excluded.company_id,
			company_name = excluded.company_name,
			document_ids = excluded.document_ids,
			criteria_group_id = excluded.criteria_group_id,
			criteria_name = excluded.criteria_name,
			result = excluded.result,
			reviewed_at = excluded.reviewed_at
	`, record.ID, record.CompanyID, record.CompanyName, string(idsJSON),
		record.CriteriaGroupID, record.CriteriaName, resultJSON, reviewedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("saving review record: %w", err)
	}
	return nil
}

const selectRecord = `
	SELECT id, company_id, company_name, document_ids, criteria_group_id, criteria_name, result, reviewed_at
	FROM review_records`

// GetRecord retrieves a record by ID.
func (h *historyStore) GetRecord(ctx context.Context, id string) (*domain.ReviewRecord, error) {
	row := h.store.db.QueryRowContext(ctx, selectRecord+" WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListRecords returns records newest first.
func (h *historyStore) ListRecords(ctx context.Context) ([]domain.ReviewRecord, error) {
	rows, err := h.store.db.QueryContext(ctx, selectRecord+" ORDER BY reviewed_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("listing review records: %w", err)
	}
	defer rows.Close()

	var records []domain.ReviewRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// DeleteRecord removes a record.
func (h *historyStore) DeleteRecord(ctx context.Context, id string) error {
	res, err := h.store.db.ExecContext(ctx, "DELETE FROM review_records WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting review record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.ReviewRecord, error) {
	var (
		rec        domain.ReviewRecord
		idsJSON    string
		resultJSON string
		reviewedAt int64
	)
	if err := row.Scan(&rec.ID, &rec.CompanyID, &rec.CompanyName, &idsJSON,
		&rec.CriteriaGroupID, &rec.CriteriaName, &resultJSON, &reviewedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(idsJSON), &rec.DocumentIDs); err != nil {
		return nil, fmt.Errorf("unmarshalling document ids: %w", err)
	}
	result, err := decodeResult(resultJSON)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling result: %w", err)
	}
	rec.Result = result
	rec.ReviewedAt = time.Unix(0, reviewedAt)
	return &rec, nil
}
