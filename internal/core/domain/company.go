package domain

// Company groups uploaded documents.
type Company struct {
	// ID is the backend identifier.
	ID string

	// Name is the display name. Unique within the current list.
	Name string
}

// Document is an uploaded file belonging to exactly one Company.
type Document struct {
	// ID is the backend identifier.
	ID string

	// CompanyID links to the owning Company.
	CompanyID string

	// Name is the original file name.
	Name string

	// DocType is the backend's document classification.
	DocType string

	// Content is the extracted text. Only populated by some endpoints.
	Content string
}

// Chunk is a backend-defined slice of a document's extracted text.
// Content is read-only; Header is the only locally editable field.
type Chunk struct {
	ID         string
	DocumentID string
	Content    string
	Header     string
}

// Upload is a local file prepared for a multipart upload.
type Upload struct {
	// FileName is the base name sent in the multipart form.
	FileName string

	// ContentType is the sniffed MIME type.
	ContentType string

	// Data holds the file bytes.
	Data []byte

	// Pages is the page count for PDFs, 0 when unknown.
	Pages int
}

// Allowed upload MIME types.
const (
	MIMETypePDF  = "application/pdf"
	MIMETypeTIFF = "image/tiff"
)

// IsAllowedUploadType reports whether the MIME type may be uploaded.
func IsAllowedUploadType(mime string) bool {
	return mime == MIMETypePDF || mime == MIMETypeTIFF
}

// FindCompanyByName returns the company with the exact name, if present.
func FindCompanyByName(companies []Company, name string) (Company, bool) {
	for _, c := range companies {
		if c.Name == name {
			return c, true
		}
	}
	return Company{}, false
}
