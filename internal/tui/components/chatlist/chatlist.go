package chatlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/sutrr/internal/models"
)

type NewChatMsg struct{}

type OpenChatMsg struct {
	ID string
}

type RenameChatMsg struct {
	ID string
}

type DeleteChatMsg struct {
	ID string
}

type ClearChatsMsg struct{}

type Item struct {
	Conversation models.Conversation
	Typing       bool
}

func (i Item) Title() string { return i.Conversation.Title }

func (i Item) Description() string {
	when := i.Conversation.UpdatedAt.Local().Format("Jan 2 15:04")
	if i.Typing {
		return fmt.Sprintf("%s · typing…", when)
	}
	last, ok := i.Conversation.LastMessage()
	if !ok {
		return when
	}
	return fmt.Sprintf("%s · %s", when, models.Truncate(last.Text, 60))
}

func (i Item) FilterValue() string { return i.Conversation.Title }

type KeyMap struct {
	New    key.Binding
	Open   key.Binding
	Rename key.Binding
	Delete key.Binding
	Clear  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new chat"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Clear: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete all"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(convos []models.Conversation, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Chats"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.New, keys.Open, keys.Rename, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.New, keys.Open, keys.Rename, keys.Delete, keys.Clear}
	}

	m := Model{list: l, keys: keys}
	m.SetConversations(convos, nil)
	return m
}

// SetConversations replaces the items. typing may be nil.
func (m *Model) SetConversations(convos []models.Conversation, typing func(id string) bool) {
	items := make([]list.Item, len(convos))
	for i, c := range convos {
		items[i] = Item{
			Conversation: c,
			Typing:       typing != nil && typing(c.ID),
		}
	}
	m.list.SetItems(items)
}

// SelectedID returns the highlighted conversation id, or ""
func (m Model) SelectedID() string {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Conversation.ID
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
	return []key.Binding{m.keys.New, m.keys.Open, m.keys.Rename, m.keys.Delete, m.keys.Clear}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.New):
			return m, func() tea.Msg { return NewChatMsg{} }
		case key.Matches(msg, m.keys.Clear):
			return m, func() tea.Msg { return ClearChatsMsg{} }
		case key.Matches(msg, m.keys.Open):
			if id := m.SelectedID(); id != "" {
				return m, func() tea.Msg { return OpenChatMsg{ID: id} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Rename):
			if id := m.SelectedID(); id != "" {
				return m, func() tea.Msg { return RenameChatMsg{ID: id} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if id := m.SelectedID(); id != "" {
				return m, func() tea.Msg { return DeleteChatMsg{ID: id} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No conversations yet.\n  Press 'n' to start one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
