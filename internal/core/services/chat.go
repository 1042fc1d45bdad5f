package services

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driven"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driving"
	"github.com/custodia-labs/reviewdesk/internal/logger"
)

// Ensure ChatSession implements the interface.
var _ driving.ChatSession = (*ChatSession)(nil)

// ChatBackend is the backend surface a chat session needs.
type ChatBackend interface {
	driven.CompanyBackend
	driven.DocumentBackend
	driven.ChatBackend
}

// ChatSession is a document-scoped conversation. History is append-only.
type ChatSession struct {
	backend ChatBackend

	mu        sync.Mutex
	companyID string
	documents map[string][]domain.Document
	selected  []string
	messages  []domain.ChatMessage
	waiting   bool
}

// NewChatSession creates an empty chat session.
func NewChatSession(backend ChatBackend) *ChatSession {
	return &ChatSession{
		backend:   backend,
		documents: make(map[string][]domain.Document),
	}
}

// Companies returns all companies.
func (s *ChatSession) Companies(ctx context.Context) ([]domain.Company, error) {
	if s.backend == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.backend.ListCompanies(ctx)
}

// SelectCompany switches company and clears the document selection.
// Documents are refetched on every selection so uploads and deletes made
// since the last visit show up; the per-company bucket is replaced.
func (s *ChatSession) SelectCompany(ctx context.Context, companyID string) ([]domain.Document, error) {
	if s.backend == nil {
		return nil, domain.ErrNotImplemented
	}

	s.mu.Lock()
	s.companyID = companyID
	s.selected = nil
	s.mu.Unlock()
	if companyID == "" {
		return nil, nil
	}

	docs, err := s.backend.ListDocuments(ctx, companyID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.documents[companyID] = docs
	s.mu.Unlock()
	return slices.Clone(docs), nil
}

// CompanyID returns the selected company.
func (s *ChatSession) CompanyID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.companyID
}

// ToggleDocument adds or removes a document from the selection.
func (s *ChatSession) ToggleDocument(documentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := slices.Index(s.selected, documentID); idx >= 0 {
		s.selected = slices.Delete(s.selected, idx, idx+1)
		return
	}
	s.selected = append(s.selected, documentID)
}

// SelectedDocuments returns the selected document IDs.
func (s *ChatSession) SelectedDocuments() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.selected)
}

// Messages returns the conversation so far.
func (s *ChatSession) Messages() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// Waiting reports whether a reply is outstanding.
func (s *ChatSession) Waiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting
}

// Begin records the user message and marks the session as waiting.
func (s *ChatSession) Begin(text string) (*driving.ChatRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.selected) == 0 {
		return nil, domain.ErrNoDocumentsSelected
	}
	query := strings.TrimSpace(text)
	if query == "" {
		return nil, domain.ErrInvalidInput
	}

	s.messages = append(s.messages, domain.ChatMessage{Role: domain.ChatRoleUser, Content: query})
	s.waiting = true
	return &driving.ChatRequest{Query: query, DocumentIDs: slices.Clone(s.selected)}, nil
}

// Complete performs the request and appends the reply.
// Backend failures become the fixed fallback reply.
func (s *ChatSession) Complete(ctx context.Context, req *driving.ChatRequest) domain.ChatMessage {
	reply := domain.ChatFallbackReply
	if s.backend != nil {
		text, err := s.backend.Chat(ctx, req.Query, req.DocumentIDs)
		if err != nil {
			logger.Error("Chat request failed: %v", err)
		} else {
			reply = text
		}
	}

	msg := domain.ChatMessage{Role: domain.ChatRoleAI, Content: reply}
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.waiting = false
	s.mu.Unlock()
	return msg
}

// Send is Begin followed by Complete.
func (s *ChatSession) Send(ctx context.Context, text string) (domain.ChatMessage, error) {
	req, err := s.Begin(text)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	return s.Complete(ctx, req), nil
}
