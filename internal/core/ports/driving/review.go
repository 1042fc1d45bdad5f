package driving

import (
	"context"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

// ReviewOptions are the choices offered when composing a draft.
type ReviewOptions struct {
	Companies []domain.Company
	Groups    []domain.CriteriaGroup
}

// ReviewSession holds review drafts and submits them.
// A session always holds at least one draft.
type ReviewSession interface {
	// LoadOptions fetches companies and criteria groups concurrently.
	LoadOptions(ctx context.Context) (*ReviewOptions, error)

	// Documents returns the documents of the current draft's company.
	Documents(ctx context.Context) ([]domain.Document, error)

	// Drafts returns copies of every draft in order.
	Drafts() []domain.ReviewDraft

	// CurrentIndex returns the index of the current draft.
	CurrentIndex() int

	// Current returns a copy of the current draft.
	Current() domain.ReviewDraft

	// AddDraft appends a blank draft and makes it current.
	AddDraft() domain.ReviewDraft

	// RemoveCurrent removes the current draft. The last draft cannot be removed.
	RemoveCurrent() error

	// Select makes the draft at index current.
	Select(index int) error

	// SetCompany sets the current draft's company and clears its files.
	SetCompany(companyID string)

	// SetFiles replaces the current draft's files.
	SetFiles(documentIDs []string)

	// ToggleFile adds or removes one file from the current draft.
	ToggleFile(documentID string)

	// SetCriteriaGroup sets the current draft's rubric. Nil clears it.
	SetCriteriaGroup(group *domain.CriteriaGroup)

	// SetPurchaseOrder records an optional local purchase order path.
	SetPurchaseOrder(path string)

	// Submit sends the current draft for review.
	Submit(ctx context.Context) (domain.ReviewResult, error)

	// LastResult returns the most recent successful result, nil when none.
	LastResult() domain.ReviewResult
}
