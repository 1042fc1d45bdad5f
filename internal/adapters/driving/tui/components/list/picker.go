// Package list provides a selectable list component for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/styles"
)

// Item is one row of a Picker.
type Item struct {
	ID    string
	Label string
	Hint  string
}

// Picker is a scrolling cursor list with optional checkbox marks.
// Marks are owned by the caller and passed in through SetChecked.
type Picker struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	title    string
	items    []Item
	checked  map[string]bool
	checkbox bool
	cursor   int
	offset   int
	height   int
	width    int
	focused  bool
	empty    string
}

// NewPicker creates a picker with the given title.
func NewPicker(s *styles.Styles, km *keymap.KeyMap, title string) *Picker {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Picker{
		styles:  s,
		keymap:  km,
		title:   title,
		checked: map[string]bool{},
		height:  10,
		width:   40,
		focused: true,
		empty:   "Nothing here yet.",
	}
}

// WithCheckboxes renders a [x]/[ ] mark in front of each row.
func (p *Picker) WithCheckboxes() *Picker {
	p.checkbox = true
	return p
}

// SetEmptyText sets the placeholder shown for an empty list.
func (p *Picker) SetEmptyText(text string) {
	p.empty = text
}

// SetItems replaces the rows and keeps the cursor in range.
func (p *Picker) SetItems(items []Item) {
	p.items = items
	if p.cursor >= len(items) {
		p.cursor = max(len(items)-1, 0)
	}
	p.clampOffset()
}

// Items returns the rows.
func (p *Picker) Items() []Item {
	return p.items
}

// Len returns the number of rows.
func (p *Picker) Len() int {
	return len(p.items)
}

// SetChecked replaces the set of marked IDs.
func (p *Picker) SetChecked(ids []string) {
	p.checked = make(map[string]bool, len(ids))
	for _, id := range ids {
		p.checked[id] = true
	}
}

// IsChecked reports whether id is marked.
func (p *Picker) IsChecked(id string) bool {
	return p.checked[id]
}

// Cursor returns the cursor position.
func (p *Picker) Cursor() int {
	return p.cursor
}

// SetCursor moves the cursor, clamped to the list.
func (p *Picker) SetCursor(i int) {
	if len(p.items) == 0 {
		p.cursor = 0
		return
	}
	p.cursor = min(max(i, 0), len(p.items)-1)
	p.clampOffset()
}

// SelectID moves the cursor to the row with id, if present.
func (p *Picker) SelectID(id string) bool {
	for i, it := range p.items {
		if it.ID == id {
			p.SetCursor(i)
			return true
		}
	}
	return false
}

// Selected returns the row under the cursor.
func (p *Picker) Selected() (Item, bool) {
	if len(p.items) == 0 {
		return Item{}, false
	}
	return p.items[p.cursor], true
}

// Focus marks the picker as receiving keys.
func (p *Picker) Focus() {
	p.focused = true
}

// Blur marks the picker as inactive.
func (p *Picker) Blur() {
	p.focused = false
}

// Focused reports whether the picker has focus.
func (p *Picker) Focused() bool {
	return p.focused
}

// SetSize sets the visible rows and width.
func (p *Picker) SetSize(width, height int) {
	p.width = width
	p.height = max(height, 1)
	p.clampOffset()
}

// Update moves the cursor on up/down keys. Other keys are left to the caller.
func (p *Picker) Update(msg tea.Msg) (*Picker, tea.Cmd) {
	if !p.focused {
		return p, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch {
	case keymap.Matches(keyMsg.String(), p.keymap.Up):
		p.SetCursor(p.cursor - 1)
	case keymap.Matches(keyMsg.String(), p.keymap.Down):
		p.SetCursor(p.cursor + 1)
	case keyMsg.String() == "home", keyMsg.String() == "g":
		p.SetCursor(0)
	case keyMsg.String() == "end", keyMsg.String() == "G":
		p.SetCursor(len(p.items) - 1)
	}
	return p, nil
}

// View renders the title and the visible rows.
func (p *Picker) View() string {
	var b strings.Builder
	if p.title != "" {
		if p.focused {
			b.WriteString(p.styles.Subtitle.Render(p.title))
		} else {
			b.WriteString(p.styles.Muted.Render(p.title))
		}
		b.WriteString("\n")
	}

	if len(p.items) == 0 {
		b.WriteString(p.styles.Muted.Render("  " + p.empty))
		return b.String()
	}

	end := min(p.offset+p.height, len(p.items))
	for i := p.offset; i < end; i++ {
		b.WriteString(p.renderRow(i))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if len(p.items) > p.height {
		b.WriteString("\n")
		b.WriteString(p.styles.Muted.Render(fmt.Sprintf("  %d/%d", p.cursor+1, len(p.items))))
	}
	return b.String()
}

func (p *Picker) renderRow(i int) string {
	it := p.items[i]
	prefix := "  "
	if i == p.cursor && p.focused {
		prefix = "> "
	}
	if p.checkbox {
		if p.checked[it.ID] {
			prefix += "[x] "
		} else {
			prefix += "[ ] "
		}
	}

	row := prefix + truncate(it.Label, p.width-len(prefix)-2)
	if i == p.cursor && p.focused {
		row = p.styles.Selected.Render(row)
	} else {
		row = p.styles.Normal.Render(row)
	}
	if it.Hint != "" {
		row += " " + p.styles.Muted.Render(it.Hint)
	}
	return row
}

func (p *Picker) clampOffset() {
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+p.height {
		p.offset = p.cursor - p.height + 1
	}
	if p.offset < 0 {
		p.offset = 0
	}
}

// truncate shortens s to width runes with an ellipsis.
func truncate(s string, width int) string {
	if width <= 3 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
