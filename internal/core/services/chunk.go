package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driven"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driving"
	"github.com/custodia-labs/reviewdesk/internal/logger"
)

// Ensure ChunkEditor implements the interface.
var _ driving.ChunkEditor = (*ChunkEditor)(nil)

// ChunkEditor edits chunk headers of one document.
//
// Header edits are local until Save. Moving to another chunk while the
// current one is dirty saves it first when autosave is on, and fails with
// domain.ErrUnsavedChanges otherwise.
type ChunkEditor struct {
	backend  driven.DocumentBackend
	settings driving.SettingsService

	mu         sync.Mutex
	status     driving.EditorStatus
	err        error
	documentID string
	chunks     []domain.Chunk
	saved      []string
	index      int
}

// NewChunkEditor creates an editor in the loading state.
// settings may be nil, in which case autosave is on.
func NewChunkEditor(backend driven.DocumentBackend, settings driving.SettingsService) *ChunkEditor {
	return &ChunkEditor{
		backend:  backend,
		settings: settings,
		status:   driving.EditorLoading,
	}
}

// Load fetches the document's chunks.
func (e *ChunkEditor) Load(ctx context.Context, documentID string) error {
	if e.backend == nil {
		return domain.ErrNotImplemented
	}

	e.mu.Lock()
	e.status = driving.EditorLoading
	e.err = nil
	e.documentID = documentID
	e.chunks = nil
	e.saved = nil
	e.index = 0
	e.mu.Unlock()

	chunks, err := e.backend.ListChunks(ctx, documentID)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.documentID != documentID {
		return nil
	}
	if err != nil {
		e.status = driving.EditorError
		e.err = fmt.Errorf("load chunks: %w", err)
		return e.err
	}
	e.chunks = chunks
	e.saved = make([]string, len(chunks))
	for i, c := range chunks {
		e.saved[i] = c.Header
	}
	e.status = driving.EditorReady
	logger.Debug("Loaded %d chunk(s) for document %s", len(chunks), documentID)
	return nil
}

// Status returns the current state.
func (e *ChunkEditor) Status() driving.EditorStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Err returns the load error.
func (e *ChunkEditor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Chunks returns the local chunk list.
func (e *ChunkEditor) Chunks() []domain.Chunk {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.Chunk(nil), e.chunks...)
}

// Index returns the current position.
func (e *ChunkEditor) Index() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index
}

// Current returns the current chunk.
func (e *ChunkEditor) Current() (*domain.Chunk, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.readyLocked(); err != nil {
		return nil, err
	}
	c := e.chunks[e.index]
	return &c, nil
}

func (e *ChunkEditor) readyLocked() error {
	if e.status != driving.EditorReady {
		return domain.ErrNotReady
	}
	if len(e.chunks) == 0 {
		return fmt.Errorf("document has no chunks: %w", domain.ErrNotFound)
	}
	return nil
}

// Dirty reports whether the current chunk has unsaved edits.
func (e *ChunkEditor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirtyLocked()
}

func (e *ChunkEditor) dirtyLocked() bool {
	if e.status != driving.EditorReady || len(e.chunks) == 0 {
		return false
	}
	return e.chunks[e.index].Header != e.saved[e.index]
}

// SetHeader updates the current chunk's header locally.
func (e *ChunkEditor) SetHeader(header string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.readyLocked(); err != nil {
		return err
	}
	e.chunks[e.index].Header = header
	return nil
}

// Save persists the current chunk's header.
func (e *ChunkEditor) Save(ctx context.Context) error {
	e.mu.Lock()
	if err := e.readyLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	idx := e.index
	chunk := e.chunks[idx]
	e.mu.Unlock()

	if err := e.backend.UpdateChunkHeader(ctx, chunk.ID, chunk.Header); err != nil {
		return fmt.Errorf("save chunk header: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if idx < len(e.saved) && e.chunks[idx].ID == chunk.ID {
		e.saved[idx] = chunk.Header
	}
	logger.Debug("Saved header for chunk %s", chunk.ID)
	return nil
}

// Next moves to the following chunk.
func (e *ChunkEditor) Next(ctx context.Context) error {
	return e.move(ctx, 1)
}

// Prev moves to the preceding chunk.
func (e *ChunkEditor) Prev(ctx context.Context) error {
	return e.move(ctx, -1)
}

func (e *ChunkEditor) autosave() bool {
	if e.settings == nil {
		return true
	}
	cfg, err := e.settings.Get()
	if err != nil {
		return true
	}
	return cfg.Onboarding.Autosave
}

func (e *ChunkEditor) move(ctx context.Context, delta int) error {
	e.mu.Lock()
	if err := e.readyLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	target := min(max(e.index+delta, 0), len(e.chunks)-1)
	if target == e.index {
		e.mu.Unlock()
		return nil
	}
	dirty := e.dirtyLocked()
	e.mu.Unlock()

	if dirty {
		if !e.autosave() {
			return domain.ErrUnsavedChanges
		}
		if err := e.Save(ctx); err != nil {
			return err
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.readyLocked(); err != nil {
		return err
	}
	e.index = min(max(e.index+delta, 0), len(e.chunks)-1)
	return nil
}
