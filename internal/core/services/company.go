package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driven"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driving"
	"github.com/custodia-labs/reviewdesk/internal/logger"
)

// Ensure CompanyService implements the interface.
var _ driving.CompanyService = (*CompanyService)(nil)

// CompanyService manages companies.
// It keeps the last fetched list for client-side name uniqueness checks.
type CompanyService struct {
	backend   driven.CompanyBackend
	documents driving.DocumentService

	mu        sync.Mutex
	loaded    bool
	companies []domain.Company
}

// NewCompanyService creates a new company service.
// documents may be nil; when set, its cache is cleared on company delete.
func NewCompanyService(backend driven.CompanyBackend, documents driving.DocumentService) *CompanyService {
	return &CompanyService{
		backend:   backend,
		documents: documents,
	}
}

// List returns all companies and refreshes the cached list.
func (s *CompanyService) List(ctx context.Context) ([]domain.Company, error) {
	if s.backend == nil {
		return nil, domain.ErrNotImplemented
	}
	companies, err := s.backend.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.companies = companies
	s.loaded = true
	s.mu.Unlock()
	return companies, nil
}

// Create creates a company after checking the cached list for the name.
// The list is fetched first if it has never been loaded.
func (s *CompanyService) Create(ctx context.Context, name string) (*domain.Company, error) {
	if s.backend == nil {
		return nil, domain.ErrNotImplemented
	}
	name = strings.TrimSpace(name)
	if err := validateStruct(companyInput{Name: name}); err != nil {
		return nil, err
	}

	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()
	if !loaded {
		if _, err := s.List(ctx); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	_, exists := domain.FindCompanyByName(s.companies, name)
	s.mu.Unlock()
	if exists {
		return nil, fmt.Errorf("company %q: %w", name, domain.ErrAlreadyExists)
	}

	company, err := s.backend.CreateCompany(ctx, name)
	if err != nil {
		return nil, err
	}
	logger.Debug("Created company %s (%s)", company.Name, company.ID)

	if _, err := s.List(ctx); err != nil {
		logger.Warn("Company list refresh failed: %v", err)
	}
	return company, nil
}

// Delete removes a company and forgets its cached documents.
func (s *CompanyService) Delete(ctx context.Context, id string) error {
	if s.backend == nil {
		return domain.ErrNotImplemented
	}
	if err := s.backend.DeleteCompany(ctx, id); err != nil {
		return err
	}
	if s.documents != nil {
		s.documents.Forget(id)
	}

	s.mu.Lock()
	kept := s.companies[:0:0]
	for _, c := range s.companies {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.companies = kept
	s.mu.Unlock()

	if _, err := s.List(ctx); err != nil {
		logger.Warn("Company list refresh failed: %v", err)
	}
	return nil
}
