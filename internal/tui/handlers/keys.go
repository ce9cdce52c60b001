package handlers

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/sutrr/internal/constants"
	"github.com/julianstephens/sutrr/internal/tui/state"
)

var tabs = []constants.SessionState{
	constants.StateChatList,
	constants.StateJournal,
	constants.StateCheckins,
}

// IsTab reports whether s is one of the top-level tab views
func IsTab(s constants.SessionState) bool {
	for _, t := range tabs {
		if t == s {
			return true
		}
	}
	return false
}

// TabIndex maps s, or the tab it belongs to, onto its tab position
func TabIndex(s constants.SessionState) int {
	switch s {
	case constants.StateChatList, constants.StateChat, constants.StateRename:
		return 0
	case constants.StateJournal, constants.StateJournalWrite, constants.StateJournalDetail, constants.StateJournalEdit:
		return 1
	case constants.StateCheckins, constants.StateCheckinLog:
		return 2
	}
	return -1
}

func filtering(m *state.Model) bool {
	switch m.State {
	case constants.StateChatList:
		return m.ChatList.Filtering()
	case constants.StateJournal:
		return m.JournalList.Filtering()
	}
	return false
}

// HandleGlobalKeys handles global key presses. Tab keys and quit only apply
// on the top-level views so they never swallow typed text.
func HandleGlobalKeys(m *state.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Quitting = true
		return true, tea.Quit
	}

	if m.ShowWelcome {
		return true, m.DismissWelcome()
	}

	if !IsTab(m.State) || filtering(m) {
		return false, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return true, tea.Quit
	case key.Matches(msg, m.Keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll
		return true, nil
	case key.Matches(msg, m.Keys.Tab):
		m.State = tabs[(TabIndex(m.State)+1)%len(tabs)]
		return true, nil
	case key.Matches(msg, m.Keys.ShiftTab):
		m.State = tabs[(TabIndex(m.State)+len(tabs)-1)%len(tabs)]
		return true, nil
	}
	return false, nil
}
