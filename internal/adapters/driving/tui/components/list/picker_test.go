package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(ids ...string) []Item {
	out := make([]Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, Item{ID: id, Label: "label-" + id})
	}
	return out
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestNewPicker(t *testing.T) {
	p := NewPicker(nil, nil, "Companies")

	require.NotNil(t, p)
	assert.Equal(t, 0, p.Len())
	assert.True(t, p.Focused())
	_, ok := p.Selected()
	assert.False(t, ok)
}

func TestPicker_Navigation(t *testing.T) {
	p := NewPicker(nil, nil, "")
	p.SetItems(items("a", "b", "c"))

	p, _ = p.Update(keyMsg("down"))
	p, _ = p.Update(keyMsg("j"))
	assert.Equal(t, 2, p.Cursor())

	p, _ = p.Update(keyMsg("down"))
	assert.Equal(t, 2, p.Cursor(), "cursor clamps at the end")

	p, _ = p.Update(keyMsg("g"))
	assert.Equal(t, 0, p.Cursor())

	p, _ = p.Update(keyMsg("up"))
	assert.Equal(t, 0, p.Cursor(), "cursor clamps at the start")

	p, _ = p.Update(keyMsg("G"))
	it, ok := p.Selected()
	require.True(t, ok)
	assert.Equal(t, "c", it.ID)
}

func TestPicker_BlurredIgnoresKeys(t *testing.T) {
	p := NewPicker(nil, nil, "")
	p.SetItems(items("a", "b"))
	p.Blur()

	p, _ = p.Update(keyMsg("down"))
	assert.Equal(t, 0, p.Cursor())
}

func TestPicker_SetItemsClampsCursor(t *testing.T) {
	p := NewPicker(nil, nil, "")
	p.SetItems(items("a", "b", "c"))
	p.SetCursor(2)

	p.SetItems(items("a"))
	assert.Equal(t, 0, p.Cursor())

	p.SetItems(nil)
	assert.Equal(t, 0, p.Cursor())
}

func TestPicker_SelectID(t *testing.T) {
	p := NewPicker(nil, nil, "")
	p.SetItems(items("a", "b", "c"))

	assert.True(t, p.SelectID("b"))
	assert.Equal(t, 1, p.Cursor())
	assert.False(t, p.SelectID("zzz"))
	assert.Equal(t, 1, p.Cursor())
}

func TestPicker_Checkboxes(t *testing.T) {
	p := NewPicker(nil, nil, "Files").WithCheckboxes()
	p.SetItems(items("a", "b"))
	p.SetChecked([]string{"b"})

	assert.False(t, p.IsChecked("a"))
	assert.True(t, p.IsChecked("b"))

	view := p.View()
	assert.Contains(t, view, "[ ]")
	assert.Contains(t, view, "[x]")
	assert.Contains(t, view, "Files")
}

func TestPicker_View(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		p := NewPicker(nil, nil, "Groups")
		p.SetEmptyText("No groups yet.")
		assert.Contains(t, p.View(), "No groups yet.")
	})

	t.Run("hint and scroll position", func(t *testing.T) {
		p := NewPicker(nil, nil, "")
		p.SetSize(40, 2)
		p.SetItems([]Item{{ID: "a", Label: "Alpha", Hint: "(3)"}, {ID: "b", Label: "Beta"}, {ID: "c", Label: "Gamma"}})
		view := p.View()
		assert.Contains(t, view, "Alpha")
		assert.Contains(t, view, "(3)")
		assert.NotContains(t, view, "Gamma")
		assert.Contains(t, view, "1/3")

		p.SetCursor(2)
		view = p.View()
		assert.Contains(t, view, "Gamma")
		assert.NotContains(t, view, "Alpha")
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "tiny", truncate("tiny", 2))
}
