package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

// Review submits documents for review against a criteria group.
func (c *Client) Review(ctx context.Context, endpoint domain.ReviewEndpoint, groupID string, documentIDs []string) (domain.ReviewResult, error) {
	if !endpoint.IsValid() {
		return nil, fmt.Errorf("review endpoint %q: %w", endpoint, domain.ErrInvalidInput)
	}
	query := url.Values{"review_criteria_group_id": {groupID}}
	body := reviewBody{IDs: documentIDs}
	path := "/reviews/" + endpoint.String()

	if endpoint == domain.ReviewEndpointObject {
		var out structuredReviewDTO
		if err := c.call(ctx, http.MethodPost, path, query, body, &out); err != nil {
			return nil, fmt.Errorf("review: %w", err)
		}
		return out.toDomain(), nil
	}

	var raw []string
	if err := c.call(ctx, http.MethodPost, path, query, body, &raw); err != nil {
		return nil, fmt.Errorf("review: %w", err)
	}
	return decodeClauseReviews(raw)
}

// decodeClauseReviews parses each JSON-encoded clause result.
func decodeClauseReviews(raw []string) (domain.ReviewResult, error) {
	out := make(domain.ReviewResult, 0, len(raw))
	for i, item := range raw {
		var dto clauseReviewDTO
		if err := json.Unmarshal([]byte(item), &dto); err != nil {
			return nil, fmt.Errorf("decode review item %d: %w", i, err)
		}
		out = append(out, dto.toDomain())
	}
	return out, nil
}
