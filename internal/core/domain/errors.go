package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an upload that is neither PDF nor TIFF.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrBackendUnavailable indicates the backend is unreachable or the
	// client circuit breaker is open.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrUnsavedChanges indicates navigation was refused because the current
	// chunk header has edits that were not persisted.
	ErrUnsavedChanges = errors.New("unsaved changes")

	// ErrNoDocumentsSelected indicates an action that needs at least one
	// selected document was attempted without any.
	ErrNoDocumentsSelected = errors.New("no documents selected")

	// ErrIncompleteDraft indicates a review draft is missing a company,
	// documents, or a criteria group.
	ErrIncompleteDraft = errors.New("review draft incomplete")

	// ErrLastDraft indicates an attempt to remove the only review draft.
	ErrLastDraft = errors.New("cannot remove the last review draft")

	// ErrNotReady indicates the chunk editor has not finished loading.
	ErrNotReady = errors.New("editor not ready")
)
