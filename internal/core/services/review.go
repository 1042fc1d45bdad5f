package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driven"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driving"
	"github.com/custodia-labs/reviewdesk/internal/logger"
)

// Ensure ReviewSession implements the interface.
var _ driving.ReviewSession = (*ReviewSession)(nil)

// ReviewSession holds review drafts and submits the current one.
type ReviewSession struct {
	backend  driven.Backend
	history  driving.HistoryService
	settings driving.SettingsService

	mu         sync.Mutex
	drafts     []domain.ReviewDraft
	current    int
	lastResult domain.ReviewResult
	companies  []domain.Company
}

// NewReviewSession creates a session with one blank draft.
// history and settings may be nil.
func NewReviewSession(backend driven.Backend, history driving.HistoryService, settings driving.SettingsService) *ReviewSession {
	return &ReviewSession{
		backend:  backend,
		history:  history,
		settings: settings,
		drafts:   []domain.ReviewDraft{newDraft()},
	}
}

func newDraft() domain.ReviewDraft {
	return domain.ReviewDraft{ID: uuid.NewString()}
}

// LoadOptions fetches companies and criteria groups concurrently.
func (s *ReviewSession) LoadOptions(ctx context.Context) (*driving.ReviewOptions, error) {
	if s.backend == nil {
		return nil, domain.ErrNotImplemented
	}

	opts := &driving.ReviewOptions{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		companies, err := s.backend.ListCompanies(gctx)
		if err != nil {
			return fmt.Errorf("load companies: %w", err)
		}
		opts.Companies = companies
		return nil
	})
	g.Go(func() error {
		groups, err := s.backend.ListCriteriaGroupsWithClauses(gctx)
		if err != nil {
			return fmt.Errorf("load criteria groups: %w", err)
		}
		opts.Groups = groups
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.companies = opts.Companies
	s.mu.Unlock()
	return opts, nil
}

// Documents returns the documents of the current draft's company.
func (s *ReviewSession) Documents(ctx context.Context) ([]domain.Document, error) {
	if s.backend == nil {
		return nil, domain.ErrNotImplemented
	}
	companyID := s.Current().CompanyID
	if companyID == "" {
		return nil, nil
	}
	return s.backend.ListDocuments(ctx, companyID)
}

// Drafts returns copies of every draft.
func (s *ReviewSession) Drafts() []domain.ReviewDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ReviewDraft, len(s.drafts))
	for i, d := range s.drafts {
		out[i] = d.Clone()
	}
	return out
}

// CurrentIndex returns the index of the current draft.
func (s *ReviewSession) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Current returns a copy of the current draft.
func (s *ReviewSession) Current() domain.ReviewDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drafts[s.current].Clone()
}

// AddDraft appends a blank draft and makes it current.
func (s *ReviewSession) AddDraft() domain.ReviewDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := newDraft()
	s.drafts = append(s.drafts, d)
	s.current = len(s.drafts) - 1
	return d
}

// RemoveCurrent removes the current draft and clamps the index.
func (s *ReviewSession) RemoveCurrent() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.drafts) <= 1 {
		return domain.ErrLastDraft
	}
	s.drafts = slices.Delete(s.drafts, s.current, s.current+1)
	s.current = min(s.current, len(s.drafts)-1)
	return nil
}

// Select makes the draft at index current.
func (s *ReviewSession) Select(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.drafts) {
		return fmt.Errorf("draft %d of %d: %w", index+1, len(s.drafts), domain.ErrInvalidInput)
	}
	s.current = index
	return nil
}

// SetCompany sets the company and clears the selected files.
func (s *ReviewSession) SetCompany(companyID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := &s.drafts[s.current]
	d.CompanyID = companyID
	d.Files = nil
}

// SetFiles replaces the selected files.
func (s *ReviewSession) SetFiles(documentIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[s.current].Files = slices.Clone(documentIDs)
}

// ToggleFile adds or removes one file.
func (s *ReviewSession) ToggleFile(documentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := &s.drafts[s.current]
	if idx := slices.Index(d.Files, documentID); idx >= 0 {
		d.Files = slices.Delete(d.Files, idx, idx+1)
		return
	}
	d.Files = append(d.Files, documentID)
}

// SetCriteriaGroup sets the rubric.
func (s *ReviewSession) SetCriteriaGroup(group *domain.CriteriaGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if group == nil {
		s.drafts[s.current].CriteriaGroup = nil
		return
	}
	g := *group
	g.Clauses = slices.Clone(group.Clauses)
	s.drafts[s.current].CriteriaGroup = &g
}

// SetPurchaseOrder records an optional purchase order path.
func (s *ReviewSession) SetPurchaseOrder(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[s.current].PurchaseOrder = path
}

func (s *ReviewSession) endpoint() domain.ReviewEndpoint {
	if s.settings != nil {
		if cfg, err := s.settings.Get(); err == nil && cfg.Review.Endpoint.IsValid() {
			return cfg.Review.Endpoint
		}
	}
	return domain.DefaultAppSettings().Review.Endpoint
}

// Submit sends the current draft for review. On failure the previous
// result is kept.
func (s *ReviewSession) Submit(ctx context.Context) (domain.ReviewResult, error) {
	if s.backend == nil {
		return nil, domain.ErrNotImplemented
	}

	draft := s.Current()
	if missing := draft.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: select a %s", domain.ErrIncompleteDraft, strings.Join(missing, ", "))
	}

	endpoint := s.endpoint()
	logger.Section("Review")
	logger.Debug("Submitting %d document(s) against %q via %s", len(draft.Files), draft.CriteriaGroup.Name, endpoint)

	result, err := s.backend.Review(ctx, endpoint, draft.CriteriaGroup.ID, draft.Files)
	if err != nil {
		logger.Error("Review submission failed: %v", err)
		return nil, fmt.Errorf("submit review: %w", err)
	}
	logger.Debug("Review returned %d clause(s), %d quote(s)", len(result), result.QuoteCount())

	s.mu.Lock()
	s.lastResult = result
	companyName := ""
	if c, ok := findCompany(s.companies, draft.CompanyID); ok {
		companyName = c.Name
	}
	s.mu.Unlock()

	if s.history != nil {
		record := &domain.ReviewRecord{
			ID:              uuid.NewString(),
			CompanyID:       draft.CompanyID,
			CompanyName:     companyName,
			DocumentIDs:     draft.Files,
			CriteriaGroupID: draft.CriteriaGroup.ID,
			CriteriaName:    draft.CriteriaGroup.Name,
			Result:          result,
			ReviewedAt:      time.Now().UTC(),
		}
		if err := s.history.Record(ctx, record); err != nil {
			logger.Warn("Saving review history failed: %v", err)
		}
	}
	return result, nil
}

// LastResult returns the most recent successful result.
func (s *ReviewSession) LastResult() domain.ReviewResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}

func findCompany(companies []domain.Company, id string) (domain.Company, bool) {
	for _, c := range companies {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Company{}, false
}
