package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/sutrr/internal/app"
	"github.com/julianstephens/sutrr/internal/constants"
	"github.com/julianstephens/sutrr/internal/engine"
	"github.com/julianstephens/sutrr/internal/tui/state"
)

type Model struct {
	state.Model
}

type engineEventMsg engine.Event

type noticeMsg string

func NewModel(a *app.App) Model {
	return Model{Model: state.New(a)}
}

func waitForEvent(ch <-chan engine.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return engineEventMsg(ev)
	}
}

func waitForNotice(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		text, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg(text)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.App.Engine.Events()),
		waitForNotice(m.App.Notices()),
	)
}

func (m Model) ShortHelp() []key.Binding {
	var keys []key.Binding
	switch m.State {
	case constants.StateChatList:
		keys = m.ChatList.ShortHelp()
	case constants.StateChat:
		return m.Conversation.ShortHelp()
	case constants.StateJournal:
		keys = m.JournalList.ShortHelp()
	case constants.StateJournalDetail:
		return []key.Binding{m.Keys.Back, m.Keys.Edit, m.Keys.Share, m.Keys.Delete}
	case constants.StateCheckins:
		keys = m.Checkins.ShortHelp()
	default:
		return nil
	}
	return append(keys, m.Keys.Tab, m.Keys.Quit, m.Keys.Help)
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.Keys.Tab, m.Keys.ShiftTab, m.Keys.Quit, m.Keys.Help}

	var actions []key.Binding
	switch m.State {
	case constants.StateChatList:
		actions = m.ChatList.ShortHelp()
	case constants.StateChat:
		actions = m.Conversation.ShortHelp()
	case constants.StateJournal:
		actions = m.JournalList.ShortHelp()
	case constants.StateJournalDetail:
		actions = []key.Binding{m.Keys.Back, m.Keys.Edit, m.Keys.Share, m.Keys.Delete}
	case constants.StateCheckins:
		actions = m.Checkins.ShortHelp()
	}
	return [][]key.Binding{global, actions}
}

// resize fits the components below the tab bar, status line and help
func (m *Model) resize() {
	h, v := docStyle.GetFrameSize()
	width := m.Width - h
	height := m.Height - v - 3
	m.ChatList.SetSize(width, height)
	m.Conversation.SetSize(width, height)
	m.JournalList.SetSize(width, height)
}
