// Package domain defines the core business entities for reviewdesk.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Company, Document, Chunk: uploaded material owned by the backend
//   - Clause, CriteriaGroup: the rubric a review is run against
//   - ReviewDraft, ReviewResult, ReviewRecord: review composition and outcome
//   - ChatMessage: one turn of a document chat
//
// Every entity except ReviewDraft and ReviewRecord is owned by the external
// backend. Values held here are non-authoritative copies.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
