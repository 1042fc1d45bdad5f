package backend

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

// flexID accepts both string and numeric JSON identifiers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*f = flexID(strconv.FormatInt(i, 10))
		return nil
	}
	*f = flexID(n.String())
	return nil
}

type companyDTO struct {
	ID   flexID `json:"id"`
	Name string `json:"name"`
}

func (c companyDTO) toDomain() domain.Company {
	return domain.Company{ID: string(c.ID), Name: c.Name}
}

type documentDTO struct {
	ID        flexID `json:"id"`
	CompanyID flexID `json:"company_id"`
	Name      string `json:"name"`
	DocType   string `json:"doc_type"`
	Content   string `json:"content"`
}

func (d documentDTO) toDomain(companyID string) domain.Document {
	doc := domain.Document{
		ID:        string(d.ID),
		CompanyID: string(d.CompanyID),
		Name:      d.Name,
		DocType:   d.DocType,
		Content:   d.Content,
	}
	if doc.CompanyID == "" {
		doc.CompanyID = companyID
	}
	return doc
}

type chunkDTO struct {
	ID         flexID `json:"id"`
	DocumentID flexID `json:"document_id"`
	Content    string `json:"content"`
	Header     string `json:"header"`
}

func (c chunkDTO) toDomain() domain.Chunk {
	return domain.Chunk{ID: string(c.ID), DocumentID: string(c.DocumentID), Content: c.Content, Header: c.Header}
}

type clauseDTO struct {
	ID          flexID `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c clauseDTO) toDomain() domain.Clause {
	return domain.Clause{ID: string(c.ID), Name: c.Name, Description: c.Description}
}

type groupDTO struct {
	ID      flexID      `json:"id"`
	Name    string      `json:"name"`
	Clauses []clauseDTO `json:"clauses"`
}

func (g groupDTO) toDomain() domain.CriteriaGroup {
	out := domain.CriteriaGroup{ID: string(g.ID), Name: g.Name}
	for _, c := range g.Clauses {
		out.Clauses = append(out.Clauses, c.toDomain())
	}
	return out
}

// dataEnvelope is the {"data": ...} wrapper used by document routes.
type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

type groupsEnvelope struct {
	CriteriaGroups []groupDTO `json:"criteria_groups"`
}

type groupEnvelope struct {
	CriteriaGroup groupDTO `json:"criteria_group"`
}

type clausesEnvelope struct {
	Clauses []clauseDTO `json:"clauses"`
}

type clauseEnvelope struct {
	Clause clauseDTO `json:"clause"`
}

type descriptionEnvelope struct {
	Description string `json:"description"`
}

type messageEnvelope struct {
	Message string `json:"message"`
}

type headerBody struct {
	Header string `json:"header"`
}

type reviewBody struct {
	IDs []string `json:"ids"`
}

// quoteDTO and clauseReviewDTO are the per-clause items of /reviews/review1.
type quoteDTO struct {
	DocumentType string `json:"document_type"`
	Header       string `json:"header"`
	Content      string `json:"content"`
}

type clauseReviewDTO struct {
	ClauseName string     `json:"clause_name"`
	Quotes     []quoteDTO `json:"quotes"`
}

func (c clauseReviewDTO) toDomain() domain.ClauseReview {
	out := domain.ClauseReview{ClauseName: c.ClauseName}
	for _, q := range c.Quotes {
		out.Quotes = append(out.Quotes, domain.Quote{DocumentType: q.DocumentType, Header: q.Header, Content: q.Content})
	}
	return out
}

// structuredReviewDTO is the /reviews/review answer.
type structuredReviewDTO struct {
	Clauses []struct {
		ID             flexID   `json:"id"`
		Name           string   `json:"name"`
		Description    string   `json:"description"`
		RelevantChunks []string `json:"relevantChunks"`
	} `json:"clauses"`
}

func (s structuredReviewDTO) toDomain() domain.ReviewResult {
	out := make(domain.ReviewResult, 0, len(s.Clauses))
	for _, c := range s.Clauses {
		review := domain.ClauseReview{ClauseName: c.Name}
		for _, chunk := range c.RelevantChunks {
			review.Quotes = append(review.Quotes, domain.Quote{Content: chunk})
		}
		out = append(out, review)
	}
	return out
}
