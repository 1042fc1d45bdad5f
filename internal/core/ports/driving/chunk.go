package driving

import (
	"context"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

// EditorStatus is the lifecycle state of the chunk editor.
type EditorStatus int

// Editor states.
const (
	EditorLoading EditorStatus = iota
	EditorReady
	EditorError
)

// String returns the state name.
func (s EditorStatus) String() string {
	switch s {
	case EditorLoading:
		return "loading"
	case EditorReady:
		return "ready"
	case EditorError:
		return "error"
	default:
		return "unknown"
	}
}

// ChunkEditor edits chunk headers of one document, one chunk at a time.
type ChunkEditor interface {
	// Load fetches the document's chunks. Failure leaves the editor in
	// EditorError until the next Load.
	Load(ctx context.Context, documentID string) error

	// Status returns the current state.
	Status() EditorStatus

	// Err returns the load error when Status is EditorError.
	Err() error

	// Chunks returns the local chunk list including unsaved headers.
	Chunks() []domain.Chunk

	// Index returns the position of the current chunk.
	Index() int

	// Current returns the current chunk.
	Current() (*domain.Chunk, error)

	// Dirty reports whether the current chunk has unsaved header edits.
	Dirty() bool

	// SetHeader updates the current chunk's header locally.
	SetHeader(header string) error

	// Save persists the current chunk's header.
	Save(ctx context.Context) error

	// Next moves to the following chunk, clamped at the end.
	Next(ctx context.Context) error

	// Prev moves to the preceding chunk, clamped at the start.
	Prev(ctx context.Context) error
}
