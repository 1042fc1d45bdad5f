package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

func TestHistoryStore_CRUD(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.SaveRecord(ctx, &domain.ReviewRecord{ID: "old", ReviewedAt: now.Add(-time.Hour)}))
	require.NoError(t, store.SaveRecord(ctx, &domain.ReviewRecord{ID: "new", ReviewedAt: now}))

	list, err := store.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)

	rec, err := store.GetRecord(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, "old", rec.ID)

	require.NoError(t, store.DeleteRecord(ctx, "old"))
	assert.ErrorIs(t, store.DeleteRecord(ctx, "old"), domain.ErrNotFound)

	_, err = store.GetRecord(ctx, "old")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
