package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	uriScheme = "reviewdesk://"
	mimeJSON  = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "companies",
		Name:        "companies",
		Description: "List of all companies",
		MIMEType:    mimeJSON,
	}, s.handleCompaniesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "companies/{companyId}/documents",
		Name:        "company-documents",
		Description: "Documents uploaded for a specific company",
		MIMEType:    mimeJSON,
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "criteria/{groupId}",
		Name:        "criteria-group",
		Description: "A criteria group with its clauses",
		MIMEType:    mimeJSON,
	}, s.handleCriteriaGroupResource)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleCompaniesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	_, out, err := s.handleListCompanies(ctx, nil, ListCompaniesInput{})
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	return jsonResource(req.Params.URI, out.Companies)
}

func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	companyID := extractCompanyID(req.Params.URI)
	if companyID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	_, out, err := s.handleListDocuments(ctx, nil, ListDocumentsInput{CompanyID: companyID})
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return jsonResource(req.Params.URI, out.Documents)
}

func (s *Server) handleCriteriaGroupResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	groupID := extractGroupID(req.Params.URI)
	if groupID == "" || s.ports.Criteria == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	if !s.ports.Criteria.Loaded() {
		if err := s.ports.Criteria.Load(ctx); err != nil {
			return nil, fmt.Errorf("loading criteria: %w", err)
		}
	}
	g, err := s.ports.Criteria.Group(groupID)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	clauses := make([]ClauseOutput, len(g.Clauses))
	for i, c := range g.Clauses {
		clauses[i] = ClauseOutput{ID: c.ID, Name: c.Name, Description: c.Description}
	}
	return jsonResource(req.Params.URI, CriteriaGroupOutput{ID: g.ID, Name: g.Name, Clauses: clauses})
}

// extractCompanyID extracts the company ID from reviewdesk://companies/{companyId}/documents.
func extractCompanyID(uri string) string {
	const prefix = uriScheme + "companies/"
	const suffix = "/documents"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}

// extractGroupID extracts the group ID from reviewdesk://criteria/{groupId}.
func extractGroupID(uri string) string {
	const prefix = uriScheme + "criteria/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
