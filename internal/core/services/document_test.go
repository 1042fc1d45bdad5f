package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

func TestDocumentService_List(t *testing.T) {
	backend := newStubBackend()
	svc := NewDocumentService(backend, nil)
	ctx := context.Background()

	backend.AddDocument(domain.Document{ID: "d1", CompanyID: "c1"})
	backend.AddDocument(domain.Document{ID: "d2", CompanyID: "c2"})

	docs, err := svc.List(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "d1", docs[0].ID)

	cached, ok := svc.Cached("c1")
	assert.True(t, ok)
	assert.Equal(t, docs, cached)

	_, err = svc.List(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentService_Upload(t *testing.T) {
	backend := newStubBackend()
	inspector := &stubInspector{upload: &domain.Upload{FileName: "a.pdf", ContentType: domain.MIMETypePDF, Data: []byte("%PDF"), Pages: 2}}
	svc := NewDocumentService(backend, inspector)
	ctx := context.Background()

	c, _ := backend.Backend.CreateCompany(ctx, "Acme")
	_, err := svc.List(ctx, c.ID)
	require.NoError(t, err)

	doc, err := svc.Upload(ctx, c.ID, "/tmp/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", doc.Name)
	assert.Equal(t, []string{"/tmp/a.pdf"}, inspector.paths)

	cached, _ := svc.Cached(c.ID)
	assert.Len(t, cached, 1)
}

func TestDocumentService_Upload_RejectedType(t *testing.T) {
	backend := newStubBackend()
	inspector := &stubInspector{err: domain.ErrUnsupportedType}
	svc := NewDocumentService(backend, inspector)

	_, err := svc.Upload(context.Background(), "c1", "/tmp/a.png")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Zero(t, backend.Calls("UploadDocument"))
}

func TestDocumentService_Upload_NoInspector(t *testing.T) {
	svc := NewDocumentService(newStubBackend(), nil)
	_, err := svc.Upload(context.Background(), "c1", "/tmp/a.pdf")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestDocumentService_Delete(t *testing.T) {
	backend := newStubBackend()
	svc := NewDocumentService(backend, nil)
	ctx := context.Background()

	backend.AddDocument(domain.Document{ID: "d1", CompanyID: "c1"})
	backend.AddDocument(domain.Document{ID: "d2", CompanyID: "c1"})
	_, _ = svc.List(ctx, "c1")

	require.NoError(t, svc.Delete(ctx, "d1"))

	cached, _ := svc.Cached("c1")
	require.Len(t, cached, 1)
	assert.Equal(t, "d2", cached[0].ID)

	assert.ErrorIs(t, svc.Delete(ctx, "d1"), domain.ErrNotFound)
}

func TestDocumentService_Forget(t *testing.T) {
	backend := newStubBackend()
	svc := NewDocumentService(backend, nil)
	_, _ = svc.List(context.Background(), "c1")

	svc.Forget("c1")
	_, ok := svc.Cached("c1")
	assert.False(t, ok)
}
