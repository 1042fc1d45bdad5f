package driving

import (
	"context"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

// CriteriaService manages criteria groups and clauses.
//
// Group snapshots returned by this service are derived from one shared
// catalog, so every view of a group's clauses agrees.
type CriteriaService interface {
	// Load fetches every group with its clauses and every clause.
	Load(ctx context.Context) error

	// Invalidate drops the catalog. The next read needs a Load.
	Invalidate()

	// Loaded reports whether the catalog holds fetched data.
	Loaded() bool

	// Groups returns group snapshots in backend order.
	Groups() []domain.CriteriaGroup

	// Group returns one group snapshot.
	Group(id string) (*domain.CriteriaGroup, error)

	// Clauses returns every clause in backend order.
	Clauses() []domain.Clause

	// Select marks a group as the current selection. Empty clears it.
	Select(groupID string) error

	// Selected returns the selected group snapshot, nil when none.
	Selected() *domain.CriteriaGroup

	// CreateGroup creates a group. An empty name is a no-op returning nil, nil.
	CreateGroup(ctx context.Context, name string) (*domain.CriteriaGroup, error)

	// DeleteGroup removes a group and clears the selection if it was selected.
	DeleteGroup(ctx context.Context, groupID string) error

	// CreateClause creates a clause inside a group.
	CreateClause(ctx context.Context, groupID, name, description string) (*domain.Clause, error)

	// GenerateDescription returns a backend-written description for a clause name.
	GenerateDescription(ctx context.Context, name string) (string, error)

	// AvailableClauses returns clauses not yet in the group.
	AvailableClauses(groupID string) []domain.Clause

	// AttachClause adds an existing clause to a group.
	AttachClause(ctx context.Context, groupID, clauseID string) error

	// DetachClause removes a clause from one group.
	DetachClause(ctx context.Context, groupID, clauseID string) error

	// DeleteClause removes a clause from the catalog and every group.
	DeleteClause(ctx context.Context, clauseID string) error

	// EditClause renames or redescribes a clause.
	EditClause(ctx context.Context, clauseID, name, description string) error
}
