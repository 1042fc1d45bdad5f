// Package history provides the saved reviews view for the TUI.
package history

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/components/result"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driving"
)

const timeLayout = "2006-01-02 15:04"

// View lists saved reviews and shows the selected one.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	history   driving.HistoryService
	exportDir string

	records    []domain.ReviewRecord
	list       *list.Picker
	detail     viewport.Model
	showDetail bool
	confirm    bool

	loading bool
	err     error
	status  string
	width   int
	height  int
}

// NewView creates a new history view. Exports are written to exportDir.
func NewView(s *styles.Styles, history driving.HistoryService, exportDir string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	picker := list.NewPicker(s, km, "Saved reviews")
	picker.SetEmptyText("No reviews saved yet. Submit one from the Review view.")

	return &View{
		styles:    s,
		keymap:    km,
		history:   history,
		exportDir: exportDir,
		list:      picker,
		detail:    viewport.New(80, 10),
	}
}

// Init loads the saved reviews.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.load()
}

func (v *View) load() tea.Cmd {
	return func() tea.Msg {
		if v.history == nil {
			return messages.HistoryLoaded{Err: fmt.Errorf("history service not available")}
		}
		records, err := v.history.List(context.Background())
		return messages.HistoryLoaded{Records: records, Err: err}
	}
}

func (v *View) export(record domain.ReviewRecord) tea.Cmd {
	path := filepath.Join(v.exportDir, exportName(record))
	return func() tea.Msg {
		if v.history == nil {
			return messages.HistoryExported{Err: fmt.Errorf("history service not available")}
		}
		return messages.HistoryExported{Path: path, Err: v.history.Export(context.Background(), record.ID, path)}
	}
}

func (v *View) remove(id string) tea.Cmd {
	return func() tea.Msg {
		if v.history == nil {
			return messages.HistoryDeleted{ID: id, Err: fmt.Errorf("history service not available")}
		}
		return messages.HistoryDeleted{ID: id, Err: v.history.Delete(context.Background(), id)}
	}
}

// exportName builds a file name from the company and review time.
func exportName(record domain.ReviewRecord) string {
	company := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, record.CompanyName)
	if company == "" {
		company = "review"
	}
	return fmt.Sprintf("%s-%s.xlsx", strings.ToLower(company), record.ReviewedAt.Format("20060102-150405"))
}

// Update handles messages for the history view.
//
//nolint:gocyclo // one case per message type
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.HistoryLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.records = msg.Records
		items := make([]list.Item, 0, len(msg.Records))
		for _, r := range msg.Records {
			items = append(items, list.Item{
				ID:    r.ID,
				Label: fmt.Sprintf("%s - %s", r.CompanyName, r.CriteriaName),
				Hint:  fmt.Sprintf("%s  %d quote(s)", r.ReviewedAt.Local().Format(timeLayout), r.Result.QuoteCount()),
			})
		}
		v.list.SetItems(items)
		if v.showDetail {
			v.syncDetail()
		}
		return v, nil

	case messages.HistoryExported:
		if msg.Err != nil {
			v.err = msg.Err
			v.status = ""
			return v, nil
		}
		v.err = nil
		v.status = "Exported to " + msg.Path
		return v, nil

	case messages.HistoryDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.status = "Review deleted"
		v.showDetail = false
		return v, v.load()

	case messages.ReviewCompleted:
		if msg.Err == nil {
			return v, v.load()
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

//nolint:gocyclo // one case per binding
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	if v.confirm {
		v.confirm = false
		if key != "y" {
			v.status = ""
			return v, nil
		}
		item, ok := v.list.Selected()
		if !ok {
			return v, nil
		}
		return v, v.remove(item.ID)
	}

	switch {
	case keymap.Matches(key, v.keymap.Back):
		if v.showDetail {
			v.showDetail = false
			return v, nil
		}
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }

	case keymap.Matches(key, v.keymap.Reload):
		v.loading = true
		v.status = ""
		return v, v.load()

	case keymap.Matches(key, v.keymap.Select):
		if _, ok := v.list.Selected(); !ok {
			return v, nil
		}
		v.showDetail = true
		v.syncDetail()
		return v, nil

	case key == "x":
		record, ok := v.selected()
		if !ok {
			return v, nil
		}
		v.status = ""
		return v, v.export(record)

	case keymap.Matches(key, v.keymap.Delete):
		if _, ok := v.list.Selected(); !ok {
			return v, nil
		}
		v.confirm = true
		v.status = ""
		return v, nil
	}

	var cmd tea.Cmd
	if v.showDetail {
		v.detail, cmd = v.detail.Update(msg)
		return v, cmd
	}
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *View) selected() (domain.ReviewRecord, bool) {
	item, ok := v.list.Selected()
	if !ok {
		return domain.ReviewRecord{}, false
	}
	for _, r := range v.records {
		if r.ID == item.ID {
			return r, true
		}
	}
	return domain.ReviewRecord{}, false
}

func (v *View) syncDetail() {
	record, ok := v.selected()
	if !ok {
		v.showDetail = false
		return
	}
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("%s - %s", record.CompanyName, record.CriteriaName)))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("Reviewed %s, %d document(s)",
		record.ReviewedAt.Local().Format(timeLayout), len(record.DocumentIDs))))
	b.WriteString("\n\n")
	b.WriteString(result.Render(v.styles, record.Result, v.width))
	v.detail.SetContent(b.String())
	v.detail.GotoTop()
}

// View renders the history view.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("My Reviews"))
	b.WriteString("\n\n")

	if v.loading && len(v.records) == 0 {
		b.WriteString(v.styles.Muted.Render("Loading saved reviews..."))
		b.WriteString("\n")
	} else if v.showDetail {
		b.WriteString(v.detail.View())
		b.WriteString("\n")
	} else {
		b.WriteString(v.list.View())
		b.WriteString("\n")
	}

	if v.confirm {
		b.WriteString(v.styles.Warning.Render("Delete this review? [y/N]"))
		b.WriteString("\n")
	}
	if v.status != "" && v.err == nil {
		b.WriteString(v.styles.Success.Render(v.status))
		b.WriteString("\n")
	}
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	}

	if v.showDetail {
		b.WriteString(v.styles.Help.Render("[↑/↓] scroll  [x] export  [d] delete  [esc] back"))
	} else {
		b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] open  [x] export  [d] delete  [r] reload  [esc] back"))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetSize(width, max(height-6, 3))
	v.detail.Width = max(width, 20)
	v.detail.Height = max(height-6, 4)
}

// Records returns the loaded reviews.
func (v *View) Records() []domain.ReviewRecord {
	return v.records
}

// ShowingDetail reports whether a saved review is open.
func (v *View) ShowingDetail() bool {
	return v.showDetail
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
