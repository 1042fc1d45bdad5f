package cli

import (
	"time"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

// Serialisable shapes for --format json|yaml.

type companyView struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type documentView struct {
	ID        string `json:"id" yaml:"id"`
	CompanyID string `json:"company_id" yaml:"company_id"`
	Name      string `json:"name" yaml:"name"`
	DocType   string `json:"doc_type,omitempty" yaml:"doc_type,omitempty"`
}

type chunkView struct {
	Index   int    `json:"index" yaml:"index"`
	ID      string `json:"id" yaml:"id"`
	Header  string `json:"header" yaml:"header"`
	Content string `json:"content" yaml:"content"`
}

type clauseView struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type groupView struct {
	ID      string       `json:"id" yaml:"id"`
	Name    string       `json:"name" yaml:"name"`
	Clauses []clauseView `json:"clauses" yaml:"clauses"`
}

type quoteView struct {
	DocumentType string `json:"document_type,omitempty" yaml:"document_type,omitempty"`
	Header       string `json:"header,omitempty" yaml:"header,omitempty"`
	Content      string `json:"content" yaml:"content"`
}

type clauseReviewView struct {
	Clause string      `json:"clause" yaml:"clause"`
	Quotes []quoteView `json:"quotes" yaml:"quotes"`
}

type recordView struct {
	ID            string             `json:"id" yaml:"id"`
	Company       string             `json:"company" yaml:"company"`
	CriteriaGroup string             `json:"criteria_group" yaml:"criteria_group"`
	DocumentIDs   []string           `json:"document_ids" yaml:"document_ids"`
	ReviewedAt    time.Time          `json:"reviewed_at" yaml:"reviewed_at"`
	Result        []clauseReviewView `json:"result,omitempty" yaml:"result,omitempty"`
}

func toCompanyViews(companies []domain.Company) []companyView {
	out := make([]companyView, 0, len(companies))
	for _, c := range companies {
		out = append(out, companyView(c))
	}
	return out
}

func toDocumentViews(docs []domain.Document) []documentView {
	out := make([]documentView, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentView{ID: d.ID, CompanyID: d.CompanyID, Name: d.Name, DocType: d.DocType})
	}
	return out
}

func toGroupView(g domain.CriteriaGroup) groupView {
	out := groupView{ID: g.ID, Name: g.Name, Clauses: make([]clauseView, 0, len(g.Clauses))}
	for _, c := range g.Clauses {
		out.Clauses = append(out.Clauses, clauseView(c))
	}
	return out
}

func toResultView(result domain.ReviewResult) []clauseReviewView {
	out := make([]clauseReviewView, 0, len(result))
	for _, c := range result {
		v := clauseReviewView{Clause: c.ClauseName, Quotes: make([]quoteView, 0, len(c.Quotes))}
		for _, q := range c.Quotes {
			v.Quotes = append(v.Quotes, quoteView(q))
		}
		out = append(out, v)
	}
	return out
}

func toRecordView(r domain.ReviewRecord, withResult bool) recordView {
	v := recordView{
		ID:            r.ID,
		Company:       r.CompanyName,
		CriteriaGroup: r.CriteriaName,
		DocumentIDs:   r.DocumentIDs,
		ReviewedAt:    r.ReviewedAt,
	}
	if withResult {
		v.Result = toResultView(r.Result)
	}
	return v
}
