// Package navbar holds the sidebar shared by every TUI view.
package navbar

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/styles"
)

// ExpandedWidth and CollapsedWidth are the rendered navbar widths.
const (
	ExpandedWidth  = 22
	CollapsedWidth = 5
)

// Entries lists the views reachable from the navbar, in display order.
var Entries = []messages.ViewType{
	messages.ViewMenu,
	messages.ViewDocuments,
	messages.ViewCriteria,
	messages.ViewReview,
	messages.ViewChat,
	messages.ViewOnboarding,
	messages.ViewHistory,
	messages.ViewSettings,
}

// State is the navbar store. One State is shared by the app and every view
// for the whole session; it is never reset.
type State struct {
	mu       sync.RWMutex
	expanded bool
}

// NewState returns a store with the navbar expanded.
func NewState() *State {
	return &State{expanded: true}
}

// Expanded reports whether the navbar shows labels.
func (s *State) Expanded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expanded
}

// Toggle flips the expanded flag and returns the new value.
func (s *State) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expanded = !s.expanded
	return s.expanded
}

// Width returns the rendered width for the current state.
func (s *State) Width() int {
	if s.Expanded() {
		return ExpandedWidth
	}
	return CollapsedWidth
}

// Render draws the navbar with current highlighted.
func (s *State) Render(st *styles.Styles, current messages.ViewType, height int) string {
	expanded := s.Expanded()

	var b strings.Builder
	if expanded {
		b.WriteString(st.Title.Render("reviewdesk"))
	} else {
		b.WriteString(st.Title.Render("rd"))
	}
	b.WriteString("\n\n")

	for i, v := range Entries {
		label := shortcut(i)
		if expanded {
			label += " " + v.Title()
		}
		if v == current {
			b.WriteString(st.NavActive.Render("▌" + label))
		} else {
			b.WriteString(st.NavItem.Render(" " + label))
		}
		b.WriteString("\n")
	}

	style := st.Navbar.Width(s.Width() - 1)
	if height > 0 {
		style = style.Height(max(height-2, 0))
	}
	return style.Render(b.String())
}

// shortcut returns the alt+digit hint for entry i.
func shortcut(i int) string {
	return string(rune('1' + i))
}

// ViewForKey maps alt+1..alt+8 to a navbar entry.
func ViewForKey(keyStr string) (messages.ViewType, bool) {
	if len(keyStr) != len("alt+1") || !strings.HasPrefix(keyStr, "alt+") {
		return 0, false
	}
	i := int(keyStr[4] - '1')
	if i < 0 || i >= len(Entries) {
		return 0, false
	}
	return Entries[i], true
}

// Layout places the navbar left of content.
func Layout(navbar, content string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, navbar, " ", content)
}
