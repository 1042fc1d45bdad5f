// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CompanyBackend: Company CRUD on the review backend
//   - DocumentBackend: Document upload/delete and chunk access
//   - CriteriaBackend: Criteria groups, clauses and description generation
//   - ReviewBackend: Review submission
//   - ChatBackend: Document-scoped chat
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - UploadInspector: Local content sniffing. Without it, uploads are not pre-checked.
//   - HistoryStore: Saved review results. Without it, history is disabled.
//   - ResultExporter: Spreadsheet export of saved reviews.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
