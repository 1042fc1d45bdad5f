// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewDocuments manages companies and their documents.
	ViewDocuments
	// ViewCriteria manages criteria groups and clauses.
	ViewCriteria
	// ViewReview composes and submits review drafts.
	ViewReview
	// ViewChat chats with selected documents.
	ViewChat
	// ViewOnboarding edits chunk headers of one document.
	ViewOnboarding
	// ViewHistory browses saved review results.
	ViewHistory
	// ViewSettings is the settings configuration view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewDocuments:
		return "documents"
	case ViewCriteria:
		return "criteria"
	case ViewReview:
		return "review"
	case ViewChat:
		return "chat"
	case ViewOnboarding:
		return "onboarding"
	case ViewHistory:
		return "history"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Title returns the navbar label of the view.
func (v ViewType) Title() string {
	switch v {
	case ViewMenu:
		return "Home"
	case ViewDocuments:
		return "Documents"
	case ViewCriteria:
		return "Review Criteria"
	case ViewReview:
		return "Review"
	case ViewChat:
		return "Chat"
	case ViewOnboarding:
		return "Onboarding"
	case ViewHistory:
		return "My Reviews"
	case ViewSettings:
		return "Settings"
	case ViewHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// CompaniesLoaded carries the list of companies.
type CompaniesLoaded struct {
	Companies []domain.Company
	Err       error
}

// CompanyCreated signals a company was created.
type CompanyCreated struct {
	Company *domain.Company
	Err     error
}

// CompanyDeleted signals a company was deleted.
type CompanyDeleted struct {
	ID  string
	Err error
}

// DocumentsLoaded carries the documents of a company.
type DocumentsLoaded struct {
	CompanyID string
	Documents []domain.Document
	Err       error
}

// DocumentUploaded signals an upload finished.
type DocumentUploaded struct {
	CompanyID string
	Document  *domain.Document
	Err       error
}

// DocumentDeleted signals a document was deleted.
type DocumentDeleted struct {
	ID  string
	Err error
}

// CriteriaLoaded signals the criteria catalog was fetched.
type CriteriaLoaded struct {
	Err error
}

// CriteriaChanged signals a criteria mutation finished.
// Status is a short confirmation shown on success.
type CriteriaChanged struct {
	Status string
	Err    error
}

// DescriptionGenerated carries a backend-written clause description.
type DescriptionGenerated struct {
	Name        string
	Description string
	Err         error
}

// ReviewOptionsLoaded carries the companies and groups offered for drafts.
type ReviewOptionsLoaded struct {
	Options *driving.ReviewOptions
	Err     error
}

// ReviewDocumentsLoaded carries the documents of the current draft's company.
type ReviewDocumentsLoaded struct {
	CompanyID string
	Documents []domain.Document
	Err       error
}

// ReviewCompleted carries the outcome of a submission.
type ReviewCompleted struct {
	Result domain.ReviewResult
	Err    error
}

// ChatCompaniesLoaded carries the companies offered by the chat view.
type ChatCompaniesLoaded struct {
	Companies []domain.Company
	Err       error
}

// ChatDocumentsLoaded carries the documents of the chat company.
type ChatDocumentsLoaded struct {
	CompanyID string
	Documents []domain.Document
	Err       error
}

// ChatReplied carries the assistant reply.
type ChatReplied struct {
	Message domain.ChatMessage
}

// ChunksLoaded signals the chunk editor finished loading.
type ChunksLoaded struct {
	DocumentID string
	Err        error
}

// ChunkSaved signals a header was persisted.
type ChunkSaved struct {
	Err error
}

// ChunkMoved signals navigation between chunks finished.
type ChunkMoved struct {
	Err error
}

// HistoryLoaded carries saved reviews.
type HistoryLoaded struct {
	Records []domain.ReviewRecord
	Err     error
}

// HistoryExported signals a saved review was written to a spreadsheet.
type HistoryExported struct {
	Path string
	Err  error
}

// HistoryDeleted signals a saved review was deleted.
type HistoryDeleted struct {
	ID  string
	Err error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}

// ConfigReloaded signals the config file changed on disk.
type ConfigReloaded struct{}
