package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

// Chat sends a query scoped to documents and returns the reply.
func (c *Client) Chat(ctx context.Context, query string, documentIDs []string) (string, error) {
	var env messageEnvelope
	q := url.Values{
		"query":        {query},
		"document_ids": {domain.JoinDocumentIDs(documentIDs)},
	}
	if err := c.call(ctx, http.MethodPost, "/chat", q, nil, &env); err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	if env.Message == "" {
		return "", fmt.Errorf("chat: empty reply")
	}
	return env.Message, nil
}
