package mcp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/reviewdesk/internal/core/services"
)

func TestNewServer(t *testing.T) {
	t.Run("nil company service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingCompanyService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		f := newFixture(t)
		assert.NotNil(t, f.server)
	})
}

func TestPorts_Validate(t *testing.T) {
	documents := services.NewDocumentService(memory.NewBackend(), nil)

	t.Run("missing document service", func(t *testing.T) {
		ports := &Ports{Company: &mockCompanyService{}}
		assert.ErrorIs(t, ports.Validate(), ErrMissingDocumentService)
	})

	t.Run("required ports only is valid", func(t *testing.T) {
		ports := &Ports{Company: &mockCompanyService{}, Document: documents}
		assert.NoError(t, ports.Validate())
	})
}

func TestServer_Handler(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.server.Handler())
	t.Cleanup(srv.Close)

	t.Run("healthz", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unknown path", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/nope")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("mcp endpoint rejects plain get", func(t *testing.T) {
		resp, err := http.Get(srv.URL + Endpoint)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.NotEqual(t, http.StatusNotFound, resp.StatusCode)
		assert.NotEqual(t, http.StatusOK, resp.StatusCode)
	})
}
