package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/reviewdesk/internal/core/catalog"
	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driven"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driving"
	"github.com/custodia-labs/reviewdesk/internal/logger"
)

// Ensure CriteriaService implements the interface.
var _ driving.CriteriaService = (*CriteriaService)(nil)

// CriteriaService manages criteria groups and clauses over a shared catalog.
type CriteriaService struct {
	backend driven.CriteriaBackend
	catalog *catalog.Catalog

	mu       sync.Mutex
	selected string
}

// NewCriteriaService creates a new criteria service.
func NewCriteriaService(backend driven.CriteriaBackend) *CriteriaService {
	return &CriteriaService{
		backend: backend,
		catalog: catalog.New(),
	}
}

// Load fetches groups with clauses and all clauses concurrently.
func (s *CriteriaService) Load(ctx context.Context) error {
	if s.backend == nil {
		return domain.ErrNotImplemented
	}

	var groups []domain.CriteriaGroup
	var clauses []domain.Clause
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		groups, err = s.backend.ListCriteriaGroupsWithClauses(gctx)
		if err != nil {
			return fmt.Errorf("load criteria groups: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		clauses, err = s.backend.ListClauses(gctx)
		if err != nil {
			return fmt.Errorf("load clauses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.catalog.Replace(groups, clauses)
	logger.Debug("Loaded %d criteria groups and %d clauses", len(groups), len(clauses))

	s.mu.Lock()
	if _, ok := s.catalog.Group(s.selected); !ok {
		s.selected = ""
	}
	s.mu.Unlock()
	return nil
}

// Invalidate drops the catalog.
func (s *CriteriaService) Invalidate() {
	s.catalog.Invalidate()
}

// Loaded reports whether the catalog holds fetched data.
func (s *CriteriaService) Loaded() bool {
	return s.catalog.Loaded()
}

// Groups returns group snapshots.
func (s *CriteriaService) Groups() []domain.CriteriaGroup {
	return s.catalog.Groups()
}

// Group returns one group snapshot.
func (s *CriteriaService) Group(id string) (*domain.CriteriaGroup, error) {
	g, ok := s.catalog.Group(id)
	if !ok {
		return nil, fmt.Errorf("criteria group %s: %w", id, domain.ErrNotFound)
	}
	return &g, nil
}

// Clauses returns every clause.
func (s *CriteriaService) Clauses() []domain.Clause {
	return s.catalog.Clauses()
}

// Select marks a group as selected. Empty clears the selection.
func (s *CriteriaService) Select(groupID string) error {
	if groupID != "" {
		if _, ok := s.catalog.Group(groupID); !ok {
			return fmt.Errorf("criteria group %s: %w", groupID, domain.ErrNotFound)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = groupID
	return nil
}

// Selected returns the selected group snapshot.
func (s *CriteriaService) Selected() *domain.CriteriaGroup {
	s.mu.Lock()
	id := s.selected
	s.mu.Unlock()
	if id == "" {
		return nil
	}
	g, ok := s.catalog.Group(id)
	if !ok {
		return nil
	}
	return &g
}

// CreateGroup creates a group. An empty name does nothing.
func (s *CriteriaService) CreateGroup(ctx context.Context, name string) (*domain.CriteriaGroup, error) {
	if s.backend == nil {
		return nil, domain.ErrNotImplemented
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	g, err := s.backend.CreateCriteriaGroup(ctx, name)
	if err != nil {
		return nil, err
	}
	s.catalog.PutGroup(*g)
	snap, _ := s.catalog.Group(g.ID)
	return &snap, nil
}

// DeleteGroup removes a group and clears the selection if it was selected.
func (s *CriteriaService) DeleteGroup(ctx context.Context, groupID string) error {
	if s.backend == nil {
		return domain.ErrNotImplemented
	}
	if err := s.backend.DeleteCriteriaGroup(ctx, groupID); err != nil {
		return err
	}
	s.catalog.RemoveGroup(groupID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == groupID {
		s.selected = ""
	}
	return nil
}

// CreateClause creates a clause inside a group.
func (s *CriteriaService) CreateClause(ctx context.Context, groupID, name, description string) (*domain.Clause, error) {
	if s.backend == nil {
		return nil, domain.ErrNotImplemented
	}
	name = strings.TrimSpace(name)
	if err := validateStruct(clauseInput{GroupID: groupID, Name: name}); err != nil {
		return nil, err
	}
	c, err := s.backend.CreateClause(ctx, groupID, name, strings.TrimSpace(description))
	if err != nil {
		return nil, err
	}
	s.catalog.PutClause(*c)
	s.catalog.Attach(groupID, c.ID)
	return c, nil
}

// GenerateDescription returns a backend-written description.
func (s *CriteriaService) GenerateDescription(ctx context.Context, name string) (string, error) {
	if s.backend == nil {
		return "", domain.ErrNotImplemented
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("clause name is required: %w", domain.ErrInvalidInput)
	}
	return s.backend.GenerateDescription(ctx, name)
}

// AvailableClauses returns clauses not in the group.
func (s *CriteriaService) AvailableClauses(groupID string) []domain.Clause {
	return s.catalog.Available(groupID)
}

// AttachClause adds an existing clause to a group.
func (s *CriteriaService) AttachClause(ctx context.Context, groupID, clauseID string) error {
	if s.backend == nil {
		return domain.ErrNotImplemented
	}
	if g, ok := s.catalog.Group(groupID); ok && g.HasClause(clauseID) {
		return nil
	}
	if err := s.backend.AttachClause(ctx, groupID, clauseID); err != nil {
		return err
	}
	s.catalog.Attach(groupID, clauseID)
	return nil
}

// DetachClause removes a clause from one group.
func (s *CriteriaService) DetachClause(ctx context.Context, groupID, clauseID string) error {
	if s.backend == nil {
		return domain.ErrNotImplemented
	}
	if err := s.backend.DetachClause(ctx, groupID, clauseID); err != nil {
		return err
	}
	s.catalog.Detach(groupID, clauseID)
	return nil
}

// DeleteClause removes a clause from the catalog and every group.
func (s *CriteriaService) DeleteClause(ctx context.Context, clauseID string) error {
	if s.backend == nil {
		return domain.ErrNotImplemented
	}
	if err := s.backend.DeleteClause(ctx, clauseID); err != nil {
		return err
	}
	s.catalog.RemoveClause(clauseID)
	return nil
}

// EditClause renames or redescribes a clause.
func (s *CriteriaService) EditClause(ctx context.Context, clauseID, name, description string) error {
	if s.backend == nil {
		return domain.ErrNotImplemented
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("clause name is required: %w", domain.ErrInvalidInput)
	}
	description = strings.TrimSpace(description)
	if err := s.backend.UpdateClause(ctx, clauseID, name, description); err != nil {
		return err
	}
	s.catalog.UpdateClause(domain.Clause{ID: clauseID, Name: name, Description: description})
	return nil
}
