// Package upload prepares local files for the backend's multipart upload.
package upload

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driven"
	"github.com/custodia-labs/reviewdesk/internal/logger"
)

// Ensure Inspector implements the interface.
var _ driven.UploadInspector = (*Inspector)(nil)

// DefaultMaxBytes caps an upload at 50 MiB.
const DefaultMaxBytes int64 = 50 << 20

// Inspector sniffs file content and validates PDFs before upload.
type Inspector struct {
	maxBytes int64
}

// NewInspector creates an inspector. maxBytes <= 0 uses DefaultMaxBytes.
func NewInspector(maxBytes int64) *Inspector {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Inspector{maxBytes: maxBytes}
}

// Inspect reads path and returns an upload ready to send.
func (i *Inspector) Inspect(path string) (*domain.Upload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	if info.Size() > i.maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", domain.ErrInvalidInput, path, info.Size(), i.maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	mime := mimetype.Detect(data)
	contentType := mime.String()
	switch {
	case mime.Is(domain.MIMETypePDF):
		contentType = domain.MIMETypePDF
	case mime.Is(domain.MIMETypeTIFF):
		contentType = domain.MIMETypeTIFF
	default:
		return nil, fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedType, filepath.Base(path), contentType)
	}

	upload := &domain.Upload{
		FileName:    filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}

	if contentType == domain.MIMETypePDF {
		pages, err := pageCount(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s is not a readable PDF: %v", domain.ErrInvalidInput, upload.FileName, err)
		}
		upload.Pages = pages
	}

	logger.Debug("inspected %s: %s, %d bytes, %d pages", upload.FileName, contentType, len(data), upload.Pages)
	return upload, nil
}

func pageCount(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.PageCount(bytes.NewReader(data), conf)
}
