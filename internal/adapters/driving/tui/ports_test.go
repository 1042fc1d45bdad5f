package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/upload"
	"github.com/custodia-labs/reviewdesk/internal/core/services"
)

// newTestPorts wires every port over the in-memory backend.
func newTestPorts() *Ports {
	backend := memory.NewBackend()
	settings := services.NewSettingsService(memory.NewConfigStore())
	history := services.NewHistoryService(memory.NewHistoryStore(), nil)
	documents := services.NewDocumentService(backend, upload.NewInspector(0))

	ports := NewPorts(
		services.NewCompanyService(backend, documents),
		documents,
		services.NewCriteriaService(backend),
		services.NewReviewSession(backend, history, settings),
		settings,
	)
	ports.Chat = services.NewChatSession(backend)
	ports.Chunks = services.NewChunkEditor(backend, settings)
	ports.History = history
	return ports
}

func TestNewPorts(t *testing.T) {
	ports := newTestPorts()

	require.NotNil(t, ports)
	assert.NotNil(t, ports.Company)
	assert.NotNil(t, ports.Document)
	assert.NotNil(t, ports.Criteria)
	assert.NotNil(t, ports.Review)
	assert.NotNil(t, ports.Settings)
	assert.NoError(t, ports.Validate())
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Ports)
		wantErr error
	}{
		{name: "missing company", mutate: func(p *Ports) { p.Company = nil }, wantErr: ErrMissingCompanyService},
		{name: "missing document", mutate: func(p *Ports) { p.Document = nil }, wantErr: ErrMissingDocumentService},
		{name: "missing criteria", mutate: func(p *Ports) { p.Criteria = nil }, wantErr: ErrMissingCriteriaService},
		{name: "missing review", mutate: func(p *Ports) { p.Review = nil }, wantErr: ErrMissingReviewSession},
		{name: "missing settings", mutate: func(p *Ports) { p.Settings = nil }, wantErr: ErrMissingSettingsService},
		{name: "optional ports may be nil", mutate: func(p *Ports) {
			p.Chat = nil
			p.Chunks = nil
			p.History = nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ports := newTestPorts()
			tt.mutate(ports)

			err := ports.Validate()

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPorts_Validate_Nil(t *testing.T) {
	var ports *Ports

	assert.ErrorIs(t, ports.Validate(), ErrInvalidPorts)
}
