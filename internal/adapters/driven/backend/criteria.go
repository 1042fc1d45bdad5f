package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

const criteriaPrefix = "/review_criteria"

func groupsFrom(env groupsEnvelope) []domain.CriteriaGroup {
	out := make([]domain.CriteriaGroup, 0, len(env.CriteriaGroups))
	for _, dto := range env.CriteriaGroups {
		out = append(out, dto.toDomain())
	}
	return out
}

// ListCriteriaGroups returns groups.
func (c *Client) ListCriteriaGroups(ctx context.Context) ([]domain.CriteriaGroup, error) {
	var env groupsEnvelope
	if err := c.get(ctx, criteriaPrefix+"/criteria_groups", &env); err != nil {
		return nil, fmt.Errorf("list criteria groups: %w", err)
	}
	return groupsFrom(env), nil
}

// ListCriteriaGroupsWithClauses returns groups with their clauses.
func (c *Client) ListCriteriaGroupsWithClauses(ctx context.Context) ([]domain.CriteriaGroup, error) {
	var env groupsEnvelope
	if err := c.get(ctx, criteriaPrefix+"/criteria_groups/all", &env); err != nil {
		return nil, fmt.Errorf("list criteria groups: %w", err)
	}
	return groupsFrom(env), nil
}

// CreateCriteriaGroup creates a group.
func (c *Client) CreateCriteriaGroup(ctx context.Context, name string) (*domain.CriteriaGroup, error) {
	var env groupEnvelope
	query := url.Values{"name": {name}}
	if err := c.call(ctx, http.MethodPost, criteriaPrefix+"/criteria_groups", query, nil, &env); err != nil {
		return nil, fmt.Errorf("create criteria group: %w", err)
	}
	g := env.CriteriaGroup.toDomain()
	return &g, nil
}

// DeleteCriteriaGroup removes a group.
func (c *Client) DeleteCriteriaGroup(ctx context.Context, id string) error {
	if err := c.call(ctx, http.MethodDelete, criteriaPrefix+"/criteria_groups/"+pathID(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete criteria group: %w", err)
	}
	return nil
}

// ListClauses returns every clause.
func (c *Client) ListClauses(ctx context.Context) ([]domain.Clause, error) {
	var env clausesEnvelope
	if err := c.get(ctx, criteriaPrefix+"/clauses", &env); err != nil {
		return nil, fmt.Errorf("list clauses: %w", err)
	}
	out := make([]domain.Clause, 0, len(env.Clauses))
	for _, dto := range env.Clauses {
		out = append(out, dto.toDomain())
	}
	return out, nil
}

// CreateClause creates a clause inside a group.
func (c *Client) CreateClause(ctx context.Context, groupID, name, description string) (*domain.Clause, error) {
	var env clauseEnvelope
	query := url.Values{"name": {name}, "description": {description}}
	path := criteriaPrefix + "/criteria_groups/" + pathID(groupID) + "/clauses"
	if err := c.call(ctx, http.MethodPost, path, query, nil, &env); err != nil {
		return nil, fmt.Errorf("create clause: %w", err)
	}
	clause := env.Clause.toDomain()
	return &clause, nil
}

// AttachClause adds an existing clause to a group.
func (c *Client) AttachClause(ctx context.Context, groupID, clauseID string) error {
	path := criteriaPrefix + "/criteria_groups/" + pathID(groupID) + "/clauses/" + pathID(clauseID)
	if err := c.call(ctx, http.MethodPost, path, nil, nil, nil); err != nil {
		return fmt.Errorf("attach clause: %w", err)
	}
	return nil
}

// DetachClause removes a clause from one group.
func (c *Client) DetachClause(ctx context.Context, groupID, clauseID string) error {
	path := criteriaPrefix + "/criteria_groups/" + pathID(groupID) + "/clauses/" + pathID(clauseID)
	if err := c.call(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("detach clause: %w", err)
	}
	return nil
}

// UpdateClause changes a clause's name and description.
func (c *Client) UpdateClause(ctx context.Context, id, name, description string) error {
	query := url.Values{"name": {name}, "description": {description}}
	if err := c.call(ctx, http.MethodPut, criteriaPrefix+"/clauses/"+pathID(id), query, nil, nil); err != nil {
		return fmt.Errorf("update clause: %w", err)
	}
	return nil
}

// DeleteClause removes a clause everywhere.
func (c *Client) DeleteClause(ctx context.Context, id string) error {
	if err := c.call(ctx, http.MethodDelete, criteriaPrefix+"/clauses/"+pathID(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete clause: %w", err)
	}
	return nil
}

// GenerateDescription asks the backend for a clause description.
func (c *Client) GenerateDescription(ctx context.Context, name string) (string, error) {
	var env descriptionEnvelope
	query := url.Values{"name": {name}}
	if err := c.call(ctx, http.MethodPost, criteriaPrefix+"/clauses/generate_description", query, nil, &env); err != nil {
		return "", fmt.Errorf("generate description: %w", err)
	}
	return env.Description, nil
}
