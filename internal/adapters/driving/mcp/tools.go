package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

// ListCompaniesInput is the input schema for the list_companies tool.
type ListCompaniesInput struct{}

// CompanyOutput represents a single company.
type CompanyOutput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListCompaniesOutput is the output schema for the list_companies tool.
type ListCompaniesOutput struct {
	Companies []CompanyOutput `json:"companies"`
	Count     int             `json:"count"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct {
	CompanyID string `json:"company_id" jsonschema:"the company whose documents to list"`
}

// DocumentOutput represents a single uploaded document.
type DocumentOutput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	DocType string `json:"doc_type,omitempty"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// ListCriteriaGroupsInput is the input schema for the list_criteria_groups tool.
type ListCriteriaGroupsInput struct{}

// ClauseOutput represents a clause inside a group.
type ClauseOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CriteriaGroupOutput represents a criteria group with its clauses.
type CriteriaGroupOutput struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Clauses []ClauseOutput `json:"clauses"`
}

// ListCriteriaGroupsOutput is the output schema for the list_criteria_groups tool.
type ListCriteriaGroupsOutput struct {
	Groups []CriteriaGroupOutput `json:"groups"`
	Count  int                   `json:"count"`
}

// ReviewInput is the input schema for the review_documents tool.
type ReviewInput struct {
	CompanyID       string   `json:"company_id" jsonschema:"the company owning the documents"`
	CriteriaGroupID string   `json:"criteria_group_id" jsonschema:"the criteria group to review against"`
	DocumentIDs     []string `json:"document_ids" jsonschema:"documents to review"`
}

// QuoteOutput is a passage matched to a clause.
type QuoteOutput struct {
	DocumentType string `json:"document_type,omitempty"`
	Header       string `json:"header,omitempty"`
	Content      string `json:"content"`
}

// ClauseReviewOutput holds the quotes found for one clause.
type ClauseReviewOutput struct {
	Clause string        `json:"clause"`
	Quotes []QuoteOutput `json:"quotes"`
}

// ReviewOutput is the output schema for the review_documents tool.
type ReviewOutput struct {
	Clauses    []ClauseReviewOutput `json:"clauses"`
	QuoteCount int                  `json:"quote_count"`
}

// ChatInput is the input schema for the chat_documents tool.
type ChatInput struct {
	CompanyID   string   `json:"company_id" jsonschema:"the company owning the documents"`
	DocumentIDs []string `json:"document_ids" jsonschema:"documents the answer may draw on"`
	Query       string   `json:"query" jsonschema:"the question to ask"`
}

// ChatOutput is the output schema for the chat_documents tool.
type ChatOutput struct {
	Reply string `json:"reply"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_companies",
		Description: "List every company on the review backend",
	}, s.handleListCompanies)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the documents uploaded for a company",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_criteria_groups",
		Description: "List criteria groups with their clauses",
	}, s.handleListCriteriaGroups)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "review_documents",
		Description: "Review documents against a criteria group and return the quotes found per clause",
	}, s.handleReview)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "chat_documents",
		Description: "Ask a question about selected documents of a company",
	}, s.handleChat)
}

func (s *Server) handleListCompanies(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListCompaniesInput,
) (*mcp.CallToolResult, ListCompaniesOutput, error) {
	companies, err := s.ports.Company.List(ctx)
	if err != nil {
		return nil, ListCompaniesOutput{}, err
	}

	output := ListCompaniesOutput{
		Companies: make([]CompanyOutput, len(companies)),
		Count:     len(companies),
	}
	for i, c := range companies {
		output.Companies[i] = CompanyOutput{ID: c.ID, Name: c.Name}
	}
	return nil, output, nil
}

func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	if strings.TrimSpace(input.CompanyID) == "" {
		return nil, ListDocumentsOutput{}, fmt.Errorf("company_id is required: %w", domain.ErrInvalidInput)
	}

	docs, err := s.ports.Document.List(ctx, input.CompanyID)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = DocumentOutput{ID: docs[i].ID, Name: docs[i].Name, DocType: docs[i].DocType}
	}
	return nil, output, nil
}

func (s *Server) handleListCriteriaGroups(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListCriteriaGroupsInput,
) (*mcp.CallToolResult, ListCriteriaGroupsOutput, error) {
	if s.ports.Criteria == nil {
		return nil, ListCriteriaGroupsOutput{}, ErrToolUnavailable
	}
	if err := s.ports.Criteria.Load(ctx); err != nil {
		return nil, ListCriteriaGroupsOutput{}, err
	}

	groups := s.ports.Criteria.Groups()
	output := ListCriteriaGroupsOutput{
		Groups: make([]CriteriaGroupOutput, len(groups)),
		Count:  len(groups),
	}
	for i, g := range groups {
		clauses := make([]ClauseOutput, len(g.Clauses))
		for j, c := range g.Clauses {
			clauses[j] = ClauseOutput{ID: c.ID, Name: c.Name, Description: c.Description}
		}
		output.Groups[i] = CriteriaGroupOutput{ID: g.ID, Name: g.Name, Clauses: clauses}
	}
	return nil, output, nil
}

func (s *Server) handleReview(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReviewInput,
) (*mcp.CallToolResult, ReviewOutput, error) {
	if s.ports.Review == nil {
		return nil, ReviewOutput{}, ErrToolUnavailable
	}

	s.session.Lock()
	defer s.session.Unlock()

	opts, err := s.ports.Review.LoadOptions(ctx)
	if err != nil {
		return nil, ReviewOutput{}, err
	}
	var group *domain.CriteriaGroup
	for i := range opts.Groups {
		if opts.Groups[i].ID == input.CriteriaGroupID {
			group = &opts.Groups[i]
			break
		}
	}
	if group == nil {
		return nil, ReviewOutput{}, fmt.Errorf("criteria group %q: %w", input.CriteriaGroupID, domain.ErrNotFound)
	}

	s.ports.Review.SetCompany(input.CompanyID)
	s.ports.Review.SetCriteriaGroup(group)
	s.ports.Review.SetFiles(input.DocumentIDs)

	result, err := s.ports.Review.Submit(ctx)
	if err != nil {
		return nil, ReviewOutput{}, err
	}

	output := ReviewOutput{
		Clauses:    make([]ClauseReviewOutput, len(result)),
		QuoteCount: result.QuoteCount(),
	}
	for i, c := range result {
		quotes := make([]QuoteOutput, len(c.Quotes))
		for j, q := range c.Quotes {
			quotes[j] = QuoteOutput{DocumentType: q.DocumentType, Header: q.Header, Content: q.Content}
		}
		output.Clauses[i] = ClauseReviewOutput{Clause: c.ClauseName, Quotes: quotes}
	}
	return nil, output, nil
}

func (s *Server) handleChat(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChatInput,
) (*mcp.CallToolResult, ChatOutput, error) {
	if s.ports.Chat == nil {
		return nil, ChatOutput{}, ErrToolUnavailable
	}

	s.session.Lock()
	defer s.session.Unlock()

	if _, err := s.ports.Chat.SelectCompany(ctx, input.CompanyID); err != nil {
		return nil, ChatOutput{}, err
	}
	seen := make(map[string]bool, len(input.DocumentIDs))
	for _, id := range input.DocumentIDs {
		if !seen[id] {
			seen[id] = true
			s.ports.Chat.ToggleDocument(id)
		}
	}

	reply, err := s.ports.Chat.Send(ctx, input.Query)
	if err != nil {
		return nil, ChatOutput{}, err
	}
	return nil, ChatOutput{Reply: reply.Content}, nil
}
