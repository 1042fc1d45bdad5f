// Package menu provides the home view listing every workspace area.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/navbar"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/styles"
)

// Item is one entry on the home screen.
type Item struct {
	Label    string
	Summary  string
	Shortcut string
	View     messages.ViewType
	Quit     bool
}

var summaries = map[messages.ViewType]string{
	messages.ViewDocuments:  "Upload and delete documents per company",
	messages.ViewCriteria:   "Edit criteria groups and their clauses",
	messages.ViewReview:     "Run a review against selected documents",
	messages.ViewChat:       "Ask questions about selected documents",
	messages.ViewOnboarding: "Fix chunk headers one chunk at a time",
	messages.ViewHistory:    "Browse and export saved reviews",
	messages.ViewSettings:   "Backend URL, token and review options",
	messages.ViewHelp:       "Key bindings",
}

// items follows the navbar order so alt+digit hints line up.
func items() []Item {
	out := make([]Item, 0, len(navbar.Entries)+1)
	for i, v := range navbar.Entries {
		if v == messages.ViewMenu {
			continue
		}
		out = append(out, Item{
			Label:    v.Title(),
			Summary:  summaries[v],
			Shortcut: fmt.Sprintf("alt+%d", i+1),
			View:     v,
		})
	}
	out = append(out,
		Item{Label: messages.ViewHelp.Title(), Summary: summaries[messages.ViewHelp], Shortcut: "?", View: messages.ViewHelp},
		Item{Label: "Quit", Shortcut: "q", Quit: true},
	)
	return out
}

// View is the home screen.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates a new menu view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		keymap: keymap.DefaultKeyMap(),
		items:  items(),
		width:  80,
		height: 24,
	}
}

// Init has nothing to load.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		key := msg.String()
		switch {
		case keymap.Matches(key, v.keymap.Up):
			if v.selected > 0 {
				v.selected--
			}
		case keymap.Matches(key, v.keymap.Down):
			if v.selected < len(v.items)-1 {
				v.selected++
			}
		case keymap.Matches(key, v.keymap.Select):
			return v, v.open(v.items[v.selected])
		case keymap.Matches(key, v.keymap.Help):
			return v, v.open(Item{View: messages.ViewHelp})
		case key == "q":
			return v, tea.Quit
		}
	}

	return v, nil
}

func (v *View) open(item Item) tea.Cmd {
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: item.View}
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("reviewdesk"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Contract review workspace"))
	b.WriteString("\n\n")

	labelWidth := 0
	for _, item := range v.items {
		labelWidth = max(labelWidth, len(item.Label))
	}

	for i, item := range v.items {
		label := fmt.Sprintf("%-*s", labelWidth, item.Label)
		if i == v.selected {
			b.WriteString(v.styles.Subtitle.Render("> " + label))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + label))
		}
		hint := item.Shortcut
		if item.Summary != "" && v.width >= 60 {
			hint = item.Summary + "  " + hint
		}
		b.WriteString("  ")
		b.WriteString(v.styles.Muted.Render(hint))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] navigate  [enter] open  [ctrl+b] navbar  [q] quit"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}
