package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.Backend = (*Backend)(nil)

type criteriaGroup struct {
	id        string
	name      string
	clauseIDs []string
}

// Backend is an in-memory implementation of driven.Backend for testing.
// Reviews match clause names against chunk content; chat replies list the
// documents consulted.
type Backend struct {
	mu         sync.RWMutex
	companies  []domain.Company
	documents  []domain.Document
	chunks     map[string][]domain.Chunk
	groups     []*criteriaGroup
	clauses    []domain.Clause
	calls      map[string]int
	lastReview []string
}

// NewBackend creates an empty in-memory backend.
func NewBackend() *Backend {
	return &Backend{
		chunks: make(map[string][]domain.Chunk),
		calls:  make(map[string]int),
	}
}

func (b *Backend) count(op string) {
	b.calls[op]++
}

// Calls returns how many times an operation was invoked.
func (b *Backend) Calls(op string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.calls[op]
}

// LastReviewIDs returns the document IDs of the most recent review.
func (b *Backend) LastReviewIDs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.lastReview)
}

// AddDocument seeds a document with chunks, bypassing upload.
func (b *Backend) AddDocument(doc domain.Document, chunks ...domain.Chunk) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.documents = append(b.documents, doc)
	for i := range chunks {
		chunks[i].DocumentID = doc.ID
	}
	b.chunks[doc.ID] = chunks
}

// ListCompanies returns every company.
func (b *Backend) ListCompanies(_ context.Context) ([]domain.Company, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count("ListCompanies")
	return slices.Clone(b.companies), nil
}

// CreateCompany creates a company. Duplicate names are rejected.
func (b *Backend) CreateCompany(_ context.Context, name string) (*domain.Company, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count("CreateCompany")
	if _, ok := domain.FindCompanyByName(b.companies, name); ok {
		return nil, domain.ErrAlreadyExists
	}
	c := domain.Company{ID: uuid.NewString(), Name: name}
	b.companies = append(b.companies, c)
	return &c, nil
}

// DeleteCompany removes a company and its documents.
func (b *Backend) DeleteCompany(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count("DeleteCompany")
	idx := slices.IndexFunc(b.companies, func(c domain.Company) bool { return c.ID == id })
	if idx < 0 {
		return domain.ErrNotFound
	}
	b.companies = slices.Delete(b.companies, idx, idx+1)
	b.documents = slices.DeleteFunc(b.documents, func(d domain.Document) bool {
		if d.CompanyID == id {
			delete(b.chunks, d.ID)
			return true
		}
		return false
	})
	return nil
}

// ListDocuments returns the documents of a company.
func (b *Backend) ListDocuments(_ context.Context, companyID string) ([]domain.Document, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count("ListDocuments")
	var result []domain.Document
	for _, d := range b.documents {
		if d.CompanyID == companyID {
			result = append(result, d)
		}
	}
	return result, nil
}

// UploadDocument stores the upload as a document with a single chunk.
func (b *Backend) UploadDocument(_ context.Context, companyID string, upload domain.Upload) (*domain.Document, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count("UploadDocument")
	if !slices.ContainsFunc(b.companies, func(c domain.Company) bool { return c.ID == companyID }) {
		return nil, domain.ErrNotFound
	}
	doc := domain.Document{ID: uuid.NewString(), CompanyID: companyID, Name: upload.FileName, DocType: upload.ContentType}
	b.documents = append(b.documents, doc)
	b.chunks[doc.ID] = []domain.Chunk{{ID: uuid.NewString(), DocumentID: doc.ID, Content: string(upload.Data)}}
	return &doc, nil
}

// DeleteDocument removes a document.
func (b *Backend) DeleteDocument(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count("DeleteDocument")
	idx := slices.IndexFunc(b.documents, func(d domain.Document) bool { return d.ID == id })
	if idx < 0 {
		return domain.ErrNotFound
	}
	b.documents = slices.Delete(b.documents, idx, idx+1)
	delete(b.chunks, id)
	return nil
}

// ListChunks returns the chunks of a document.
func (b *Backend) ListChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count("ListChunks")
	chunks, ok := b.chunks[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(chunks), nil
}

// UpdateChunkHeader sets a chunk's header.
func (b *Backend) UpdateChunkHeader(_ context.Context, chunkID, header string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count("UpdateChunkHeader")
	for _, chunks := range b.chunks {
		for i := range chunks {
			if chunks[i].ID == chunkID {
				chunks[i].Header = header
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (b *Backend) group(id string) *criteriaGroup {
	for _, g := range b.groups {
		if g.id == id {
			return g
		}
	}
	return nil
}

func (b *Backend) clause(id string) (domain.Clause, bool) {
	for _, c := range b.clauses {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Clause{}, false
}

func (b *Backend) snapshot(g *criteriaGroup) domain.CriteriaGroup {
	out := domain.CriteriaGroup{ID: g.id, Name: g.name}
	for _, id := range g.clauseIDs {
		if c, ok := b.clause(id); ok {
			out.Clauses = append(out.Clauses, c)
		}
	}
	return out
}

// ListCriteriaGroups returns groups without clauses.
func (b *Backend) ListCriteriaGroups(_ context.Context) ([]domain.CriteriaGroup, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count("ListCriteriaGroups")
	result := make([]domain.CriteriaGroup, 0, len(b.groups))
	for _, g := range b.groups {
		result = append(result, domain.CriteriaGroup{ID: g.id, Name: g.name})
	}
	return result, nil
}

// ListCriteriaGroupsWithClauses returns groups with their clauses.
func (b *Backend) ListCriteriaGroupsWithClauses(_ context.Context) ([]domain.CriteriaGroup, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count("ListCriteriaGroupsWithClauses")
	result := make([]domain.CriteriaGroup, 0, len(b.groups))
	for _, g := range b.groups {
		result = append(result, b.snapshot(g))
	}
	return result, nil
}

// CreateCriteriaGroup creates an empty group.
func (b *Backend) CreateCriteriaGroup(_ context.Context, name string) (*domain.CriteriaGroup, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count("CreateCriteriaGroup")
	g := &criteriaGroup{id: uuid.NewString(), name: name}
	b.groups = append(b.groups, g)
	return &domain.CriteriaGroup{ID: g.id, Name: g.name}, nil
}

// DeleteCriteriaGroup removes a group.
func (b *Backend) DeleteCriteriaGroup(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count("DeleteCriteriaGroup")
	idx := slices.IndexFunc(b.groups, func(g *criteriaGroup) bool { return g.id == id })
	if idx < 0 {
		return domain.ErrNotFound
	}
	b.groups = slices.Delete(b.groups, idx, idx+1)
	return nil
}

// ListClauses returns every clause.
func (b *Backend) ListClauses(_ context.Context) ([]domain.Clause, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count("ListClauses")
	return slices.Clone(b.clauses), nil
}

// CreateClause creates a clause inside a group.
func (b *Backend) CreateClause(_ context.Context, groupID, name, description string) (*domain.Clause, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count("CreateClause")
	g := b.group(groupID)
	if g == nil {
		return nil, domain.ErrNotFound
	}
	c := domain.Clause{ID: uuid.NewString(), Name: name, Description: description}
	b.clauses = append(b.clauses, c)
	g.clauseIDs = append(g.clauseIDs, c.ID)
	return &c, nil
}

// AttachClause adds an existing clause to a group.
func (b *Backend) AttachClause(_ context.Context, groupID, clauseID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count("AttachClause")
	g := b.group(groupID)
	if _, ok := b.clause(clauseID); g == nil || !ok {
		return domain.ErrNotFound
	}
	if !slices.Contains(g.clauseIDs, clauseID) {
		g.clauseIDs = append(g.clauseIDs, clauseID)
	}
	return nil
}

// DetachClause removes a clause from one group.
func (b *Backend) DetachClause(_ context.Context, groupID, clauseID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count("DetachClause")
	g := b.group(groupID)
	if g == nil {
		return domain.ErrNotFound
	}
	g.clauseIDs = slices.DeleteFunc(g.clauseIDs, func(id string) bool { return id == clauseID })
	return nil
}

// UpdateClause changes a clause's name and description.
func (b *Backend) UpdateClause(_ context.Context, id, name, description string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count("UpdateClause")
	for i := range b.clauses {
		if b.clauses[i].ID == id {
			b.clauses[i].Name = name
			b.clauses[i].Description = description
			return nil
		}
	}
	return domain.ErrNotFound
}

// DeleteClause removes a clause and its group memberships.
func (b *Backend) DeleteClause(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count("DeleteClause")
	idx := slices.IndexFunc(b.clauses, func(c domain.Clause) bool { return c.ID == id })
	if idx < 0 {
		return domain.ErrNotFound
	}
	b.clauses = slices.Delete(b.clauses, idx, idx+1)
	for _, g := range b.groups {
		g.clauseIDs = slices.DeleteFunc(g.clauseIDs, func(c string) bool { return c == id })
	}
	return nil
}

// GenerateDescription returns a canned description.
func (b *Backend) GenerateDescription(_ context.Context, name string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count("GenerateDescription")
	return fmt.Sprintf("Identifies provisions relating to %s.", strings.ToLower(name)), nil
}

// Review quotes every chunk whose content mentions a clause name.
func (b *Backend) Review(_ context.Context, _ domain.ReviewEndpoint, groupID string, documentIDs []string) (domain.ReviewResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count("Review")
	g := b.group(groupID)
	if g == nil {
		return nil, domain.ErrNotFound
	}
	b.lastReview = slices.Clone(documentIDs)

	var result domain.ReviewResult
	for _, clause := range b.snapshot(g).Clauses {
		review := domain.ClauseReview{ClauseName: clause.Name}
		needle := strings.ToLower(clause.Name)
		for _, docID := range documentIDs {
			docType := ""
			for _, d := range b.documents {
				if d.ID == docID {
					docType = d.DocType
				}
			}
			for _, ch := range b.chunks[docID] {
				if strings.Contains(strings.ToLower(ch.Content), needle) {
					review.Quotes = append(review.Quotes, domain.Quote{DocumentType: docType, Header: ch.Header, Content: ch.Content})
				}
			}
		}
		result = append(result, review)
	}
	return result, nil
}

// Chat replies with the number of documents consulted.
func (b *Backend) Chat(_ context.Context, query string, documentIDs []string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count("Chat")
	return fmt.Sprintf("%q answered from %d document(s)", query, len(documentIDs)), nil
}
