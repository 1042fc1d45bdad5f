package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driving"
)

func chunkFixture(t *testing.T, autosave bool) (*ChunkEditor, *stubBackend) {
	t.Helper()
	backend := newStubBackend()
	backend.AddDocument(domain.Document{ID: "d1"},
		domain.Chunk{ID: "k1", Content: "one"},
		domain.Chunk{ID: "k2", Content: "two", Header: "Existing"},
		domain.Chunk{ID: "k3", Content: "three"},
	)
	store := memory.NewConfigStore()
	_ = store.Set("onboarding.autosave", autosave)
	e := NewChunkEditor(backend, NewSettingsService(store))
	require.NoError(t, e.Load(context.Background(), "d1"))
	return e, backend
}

func TestChunkEditor_StartsLoading(t *testing.T) {
	e := NewChunkEditor(newStubBackend(), nil)
	assert.Equal(t, driving.EditorLoading, e.Status())

	_, err := e.Current()
	assert.ErrorIs(t, err, domain.ErrNotReady)
	assert.ErrorIs(t, e.Next(context.Background()), domain.ErrNotReady)
}

func TestChunkEditor_LoadError(t *testing.T) {
	e := NewChunkEditor(newStubBackend(), nil)

	err := e.Load(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, driving.EditorError, e.Status())
	assert.ErrorIs(t, e.Err(), domain.ErrNotFound)
	assert.ErrorIs(t, e.SetHeader("x"), domain.ErrNotReady)
}

func TestChunkEditor_NavigationClamped(t *testing.T) {
	e, _ := chunkFixture(t, true)
	ctx := context.Background()

	assert.Equal(t, driving.EditorReady, e.Status())
	require.NoError(t, e.Prev(ctx))
	assert.Equal(t, 0, e.Index())

	require.NoError(t, e.Next(ctx))
	require.NoError(t, e.Next(ctx))
	require.NoError(t, e.Next(ctx))
	assert.Equal(t, 2, e.Index())

	c, err := e.Current()
	require.NoError(t, err)
	assert.Equal(t, "k3", c.ID)
}

func TestChunkEditor_SetHeaderIsLocalUntilSave(t *testing.T) {
	e, backend := chunkFixture(t, true)
	ctx := context.Background()

	require.NoError(t, e.SetHeader("Intro"))
	assert.True(t, e.Dirty())
	assert.Equal(t, "Intro", e.Chunks()[0].Header)

	remote, _ := backend.Backend.ListChunks(ctx, "d1")
	assert.Empty(t, remote[0].Header)

	require.NoError(t, e.Save(ctx))
	assert.False(t, e.Dirty())
	remote, _ = backend.Backend.ListChunks(ctx, "d1")
	assert.Equal(t, "Intro", remote[0].Header)
}

func TestChunkEditor_AutosaveOnNavigate(t *testing.T) {
	e, backend := chunkFixture(t, true)
	ctx := context.Background()

	require.NoError(t, e.SetHeader("Intro"))
	require.NoError(t, e.Next(ctx))

	assert.Equal(t, 1, e.Index())
	assert.Equal(t, 1, backend.Calls("UpdateChunkHeader"))
	remote, _ := backend.Backend.ListChunks(ctx, "d1")
	assert.Equal(t, "Intro", remote[0].Header)
}

func TestChunkEditor_BlockOnNavigateWithoutAutosave(t *testing.T) {
	e, backend := chunkFixture(t, false)
	ctx := context.Background()

	require.NoError(t, e.SetHeader("Intro"))
	assert.ErrorIs(t, e.Next(ctx), domain.ErrUnsavedChanges)
	assert.Equal(t, 0, e.Index())
	assert.Zero(t, backend.Calls("UpdateChunkHeader"))

	require.NoError(t, e.Save(ctx))
	require.NoError(t, e.Next(ctx))
	assert.Equal(t, 1, e.Index())
}

func TestChunkEditor_AutosaveFailureStays(t *testing.T) {
	e, backend := chunkFixture(t, true)
	backend.updateChunkHeaderFn = func(context.Context, string, string) error {
		return errors.New("down")
	}

	require.NoError(t, e.SetHeader("Intro"))
	assert.Error(t, e.Next(context.Background()))
	assert.Equal(t, 0, e.Index())
	assert.True(t, e.Dirty())
}

func TestChunkEditor_RevertingEditIsClean(t *testing.T) {
	e, _ := chunkFixture(t, false)
	ctx := context.Background()
	require.NoError(t, e.Next(ctx))

	require.NoError(t, e.SetHeader("Changed"))
	require.NoError(t, e.SetHeader("Existing"))
	assert.False(t, e.Dirty())
	assert.NoError(t, e.Next(ctx))
}

func TestEditorStatus_String(t *testing.T) {
	assert.Equal(t, "loading", driving.EditorLoading.String())
	assert.Equal(t, "ready", driving.EditorReady.String())
	assert.Equal(t, "error", driving.EditorError.String())
	assert.Equal(t, "unknown", driving.EditorStatus(9).String())
}
