package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/sutrr/internal/constants"
	"github.com/julianstephens/sutrr/internal/tui/handlers"
)

var tabTitles = []string{"Chat", "Journal", "Check-ins"}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	if m.ShowWelcome {
		return m.viewWelcome()
	}

	var content string
	switch m.State {
	case constants.StateChatList:
		content = m.ChatList.View()
	case constants.StateChat:
		content = m.Conversation.View()
	case constants.StateJournal:
		content = m.JournalList.View()
	case constants.StateJournalDetail:
		content = m.viewEntryDetail()
	case constants.StateCheckins:
		content = m.Checkins.View()
	case constants.StateJournalWrite, constants.StateJournalEdit, constants.StateRename,
		constants.StateCheckinLog, constants.StateConfirmation:
		if m.Form != nil {
			content = m.Form.View()
		}
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		warningStyle.Render(m.Notice),
		docStyle.Render(content),
		m.Help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := handlers.TabIndex(m.State)
	tabs := make([]string, len(tabTitles))
	for i, title := range tabTitles {
		if i == active {
			tabs[i] = activeTabStyle.Render(title)
		} else {
			tabs[i] = inactiveTabStyle.Render(title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewWelcome() string {
	banner := bannerStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Welcome to "+constants.AppName),
		"",
		"Chat with your wellness buddy, keep a private journal",
		"and log how you feel. Everything stays on this device.",
		"",
		warningStyle.Render(constants.MedicalDisclaimer),
		"",
		mutedStyle.Render("Press any key to begin"),
	))
	if m.Width == 0 {
		return banner
	}
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, banner)
}

func (m Model) viewEntryDetail() string {
	entry, err := m.App.Journal.Get(m.DetailEntryID)
	if err != nil {
		return mutedStyle.Render("This entry no longer exists.")
	}

	width := m.Width - docStyle.GetHorizontalFrameSize()
	if width <= 0 {
		width = 80
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(entry.Date.Local().Format("Monday, January 2 2006 15:04")),
		mutedStyle.Render(entry.Mood.Emoji()+" "+string(entry.Mood)),
		"",
		lipgloss.NewStyle().Width(width).Render(entry.Text),
	)
}
