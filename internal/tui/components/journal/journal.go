package journal

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/sutrr/internal/models"
)

type WriteEntryMsg struct{}

type OpenEntryMsg struct {
	ID string
}

type EditEntryMsg struct {
	ID string
}

type ShareEntryMsg struct {
	ID string
}

// DeleteEntriesMsg asks to delete the selection, or Current when nothing
// is selected
type DeleteEntriesMsg struct {
	Current string
}

type ToggleEntryMsg struct {
	ID string
}

type SelectAllMsg struct{}

type Item struct {
	Entry    models.JournalEntry
	Selected bool
}

func (i Item) Title() string {
	mark := "○ "
	if i.Selected {
		mark = "● "
	}
	return mark + i.Entry.Mood.Emoji() + " " + models.Truncate(i.Entry.Text, 50)
}

func (i Item) Description() string {
	return fmt.Sprintf("%s · %s", i.Entry.Date.Local().Format("Mon Jan 2 2006 15:04"), i.Entry.Mood)
}

func (i Item) FilterValue() string { return i.Entry.Text }

type KeyMap struct {
	Write     key.Binding
	Open      key.Binding
	Edit      key.Binding
	Share     key.Binding
	Delete    key.Binding
	Toggle    key.Binding
	SelectAll key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Write: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "write"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "read"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Share: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "discuss in chat"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "select all/none"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(entries []models.JournalEntry, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Journal"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Write, keys.Open, keys.Toggle, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Write, keys.Open, keys.Edit, keys.Share, keys.Delete, keys.Toggle, keys.SelectAll}
	}

	m := Model{list: l, keys: keys}
	m.SetEntries(entries, nil)
	return m
}

// SetEntries replaces the items. selected may be nil.
func (m *Model) SetEntries(entries []models.JournalEntry, selected func(id string) bool) {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = Item{
			Entry:    e,
			Selected: selected != nil && selected(e.ID),
		}
	}
	m.list.SetItems(items)
}

func (m Model) SelectedID() string {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Entry.ID
	}
	return ""
}

// Filtering reports whether the filter input has focus
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Write, m.keys.Open, m.keys.Edit, m.keys.Share, m.keys.Toggle, m.keys.SelectAll, m.keys.Delete}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Write):
			return m, func() tea.Msg { return WriteEntryMsg{} }
		case key.Matches(msg, m.keys.SelectAll):
			return m, func() tea.Msg { return SelectAllMsg{} }
		}

		id := m.SelectedID()
		if id == "" {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Open):
			return m, func() tea.Msg { return OpenEntryMsg{ID: id} }
		case key.Matches(msg, m.keys.Edit):
			return m, func() tea.Msg { return EditEntryMsg{ID: id} }
		case key.Matches(msg, m.keys.Share):
			return m, func() tea.Msg { return ShareEntryMsg{ID: id} }
		case key.Matches(msg, m.keys.Delete):
			return m, func() tea.Msg { return DeleteEntriesMsg{Current: id} }
		case key.Matches(msg, m.keys.Toggle):
			return m, func() tea.Msg { return ToggleEntryMsg{ID: id} }
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  Your journal is empty.\n  Press 'a' to write your first entry."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
