package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view     ViewType
		expected string
	}{
		{ViewMenu, "menu"},
		{ViewDocuments, "documents"},
		{ViewCriteria, "criteria"},
		{ViewReview, "review"},
		{ViewChat, "chat"},
		{ViewOnboarding, "onboarding"},
		{ViewHistory, "history"},
		{ViewSettings, "settings"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.view.String())
		})
	}
}

func TestViewType_Title(t *testing.T) {
	assert.Equal(t, "Review Criteria", ViewCriteria.Title())
	assert.Equal(t, "My Reviews", ViewHistory.Title())
	assert.Equal(t, "Unknown", ViewType(-1).Title())

	seen := make(map[string]bool)
	for v := ViewMenu; v <= ViewHelp; v++ {
		title := v.Title()
		assert.False(t, seen[title], "duplicate title %q", title)
		seen[title] = true
	}
}
