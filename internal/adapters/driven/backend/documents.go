package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

// ListCompanies returns every company.
func (c *Client) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	var env dataEnvelope[[]companyDTO]
	if err := c.get(ctx, "/documents/companies", &env); err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	out := make([]domain.Company, 0, len(env.Data))
	for _, dto := range env.Data {
		out = append(out, dto.toDomain())
	}
	return out, nil
}

// CreateCompany creates a company.
func (c *Client) CreateCompany(ctx context.Context, name string) (*domain.Company, error) {
	var env dataEnvelope[companyDTO]
	query := url.Values{"company_name": {name}}
	if err := c.call(ctx, http.MethodPost, "/documents/company", query, nil, &env); err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	company := env.Data.toDomain()
	if company.Name == "" {
		company.Name = name
	}
	return &company, nil
}

// DeleteCompany removes a company and, on the backend, its documents.
func (c *Client) DeleteCompany(ctx context.Context, id string) error {
	if err := c.call(ctx, http.MethodDelete, "/documents/company/"+pathID(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}

// ListDocuments returns the documents of a company.
func (c *Client) ListDocuments(ctx context.Context, companyID string) ([]domain.Document, error) {
	var env dataEnvelope[[]documentDTO]
	if err := c.get(ctx, "/documents/"+pathID(companyID), &env); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	out := make([]domain.Document, 0, len(env.Data))
	for _, dto := range env.Data {
		out = append(out, dto.toDomain(companyID))
	}
	return out, nil
}

// UploadDocument posts the file as multipart form field "file".
func (c *Client) UploadDocument(ctx context.Context, companyID string, upload domain.Upload) (*domain.Document, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, upload.FileName))
	header.Set("Content-Type", upload.ContentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(upload.Data); err != nil {
		return nil, fmt.Errorf("write form part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	var env dataEnvelope[documentDTO]
	r := request{
		method:      http.MethodPost,
		path:        "/documents/upload/" + pathID(companyID),
		body:        &buf,
		contentType: w.FormDataContentType(),
	}
	if err := c.do(ctx, r, &env); err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}
	doc := env.Data.toDomain(companyID)
	if doc.Name == "" {
		doc.Name = upload.FileName
	}
	return &doc, nil
}

// DeleteDocument removes a document.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	if err := c.call(ctx, http.MethodDelete, "/documents/document/"+pathID(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// ListChunks returns a document's chunks.
func (c *Client) ListChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	var env dataEnvelope[[]chunkDTO]
	if err := c.get(ctx, "/documents/"+pathID(documentID)+"/chunks", &env); err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	out := make([]domain.Chunk, 0, len(env.Data))
	for _, dto := range env.Data {
		chunk := dto.toDomain()
		if chunk.DocumentID == "" {
			chunk.DocumentID = documentID
		}
		out = append(out, chunk)
	}
	return out, nil
}

// UpdateChunkHeader persists a chunk header.
func (c *Client) UpdateChunkHeader(ctx context.Context, chunkID, header string) error {
	if err := c.call(ctx, http.MethodPut, "/documents/chunk/"+pathID(chunkID), nil, headerBody{Header: header}, nil); err != nil {
		return fmt.Errorf("update chunk header: %w", err)
	}
	return nil
}
