package driven

import "github.com/custodia-labs/reviewdesk/internal/core/domain"

// UploadInspector checks a local file before it is uploaded.
type UploadInspector interface {
	// Inspect reads the file, detects its type by content and validates it.
	// Returns domain.ErrUnsupportedType for anything but PDF or TIFF.
	Inspect(path string) (*domain.Upload, error)
}
