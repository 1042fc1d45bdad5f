package domain

import "time"

// ReviewDraft is a client-only selection awaiting submission.
// It is never persisted as a backend entity.
type ReviewDraft struct {
	// ID is generated client-side.
	ID string

	// CompanyID is the selected company, empty when none.
	CompanyID string

	// Files holds the selected document IDs in selection order.
	Files []string

	// PurchaseOrder is an optional local file path. It is not sent on submit.
	PurchaseOrder string

	// CriteriaGroup is the selected rubric, nil when none.
	CriteriaGroup *CriteriaGroup
}

// Missing returns a human-readable list of unset required fields.
func (d ReviewDraft) Missing() []string {
	var missing []string
	if d.CompanyID == "" {
		missing = append(missing, "company")
	}
	if len(d.Files) == 0 {
		missing = append(missing, "documents")
	}
	if d.CriteriaGroup == nil {
		missing = append(missing, "criteria group")
	}
	return missing
}

// IsComplete reports whether the draft can be submitted.
func (d ReviewDraft) IsComplete() bool {
	return len(d.Missing()) == 0
}

// HasFile reports whether the document is selected.
func (d ReviewDraft) HasFile(documentID string) bool {
	for _, id := range d.Files {
		if id == documentID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand outside a lock.
func (d ReviewDraft) Clone() ReviewDraft {
	out := d
	out.Files = append([]string(nil), d.Files...)
	if d.CriteriaGroup != nil {
		g := *d.CriteriaGroup
		g.Clauses = append([]Clause(nil), d.CriteriaGroup.Clauses...)
		out.CriteriaGroup = &g
	}
	return out
}

// Quote is a passage the backend matched to a clause.
type Quote struct {
	DocumentType string
	Header       string
	Content      string
}

// ClauseReview holds the quotes found for one clause.
type ClauseReview struct {
	ClauseName string
	Quotes     []Quote
}

// ReviewResult is the outcome of a review submission, one entry per clause.
type ReviewResult []ClauseReview

// QuoteCount returns the total number of quotes across all clauses.
func (r ReviewResult) QuoteCount() int {
	n := 0
	for _, c := range r {
		n += len(c.Quotes)
	}
	return n
}

// ReviewRecord is a locally saved review outcome.
type ReviewRecord struct {
	ID              string
	CompanyID       string
	CompanyName     string
	DocumentIDs     []string
	CriteriaGroupID string
	CriteriaName    string
	Result          ReviewResult
	ReviewedAt      time.Time
}
