package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/sutrr/internal/constants"
	"github.com/julianstephens/sutrr/internal/engine"
	"github.com/julianstephens/sutrr/internal/tui/components/chatlist"
	"github.com/julianstephens/sutrr/internal/tui/components/checkins"
	"github.com/julianstephens/sutrr/internal/tui/components/conversation"
	"github.com/julianstephens/sutrr/internal/tui/components/journal"
	"github.com/julianstephens/sutrr/internal/tui/handlers"
	"github.com/julianstephens/sutrr/internal/tui/state"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	s := &m.Model

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case engineEventMsg:
		cmd := handlers.HandleEngineEvent(s, engine.Event(msg))
		return m, tea.Batch(cmd, waitForEvent(m.App.Engine.Events()))

	case noticeMsg:
		cmd := m.SetNotice(string(msg))
		return m, tea.Batch(cmd, waitForNotice(m.App.Notices()))

	case state.ClearNoticeMsg:
		if msg.Seq == m.NoticeSeq {
			m.Notice = ""
		}
		return m, nil

	case state.ActionResultMsg:
		return m, handlers.HandleActionResult(s, msg)

	case constants.ConfirmationMsg:
		return m, handlers.OpenConfirmation(s, msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Conversation, cmd = m.Conversation.Update(msg)
		return m, cmd

	// Chat
	case chatlist.NewChatMsg:
		return m, handlers.NewChat(s)
	case chatlist.OpenChatMsg:
		return m, handlers.OpenChat(s, msg.ID)
	case chatlist.RenameChatMsg:
		return m, handlers.StartRename(s, msg.ID)
	case chatlist.DeleteChatMsg:
		return m, handlers.RequestChatDelete(s, msg.ID)
	case chatlist.ClearChatsMsg:
		return m, handlers.RequestClearChats(s)
	case conversation.SendMsg:
		return m, handlers.SendMessage(s, msg)
	case conversation.BackMsg:
		return m, handlers.BackToChats(s)

	// Journal
	case journal.WriteEntryMsg:
		return m, handlers.StartWrite(s)
	case journal.OpenEntryMsg:
		return m, handlers.OpenEntry(s, msg.ID)
	case journal.EditEntryMsg:
		return m, handlers.StartEdit(s, msg.ID)
	case journal.ShareEntryMsg:
		return m, handlers.ShareEntry(s, msg.ID)
	case journal.DeleteEntriesMsg:
		return m, handlers.RequestJournalDelete(s, msg.Current)
	case journal.ToggleEntryMsg:
		handlers.ToggleEntry(s, msg.ID)
		return m, nil
	case journal.SelectAllMsg:
		handlers.SelectAllEntries(s)
		return m, nil

	// Check-ins
	case checkins.LogCheckinMsg:
		return m, handlers.StartCheckin(s, msg.Category)

	case tea.KeyMsg:
		if handled, cmd := handlers.HandleGlobalKeys(s, msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	switch m.State {
	case constants.StateChatList:
		m.ChatList, cmd = m.ChatList.Update(msg)
	case constants.StateChat:
		m.Conversation, cmd = m.Conversation.Update(msg)
	case constants.StateJournal:
		m.JournalList, cmd = m.JournalList.Update(msg)
	case constants.StateJournalDetail:
		cmd = handlers.HandleDetailKeys(s, msg)
	case constants.StateCheckins:
		m.Checkins, cmd = m.Checkins.Update(msg)
	case constants.StateJournalWrite, constants.StateJournalEdit:
		cmd = handlers.HandleJournalFormState(s, msg)
	case constants.StateRename:
		cmd = handlers.HandleRenameFormState(s, msg)
	case constants.StateCheckinLog:
		cmd = handlers.HandleCheckinFormState(s, msg)
	case constants.StateConfirmation:
		cmd = handlers.HandleConfirmationState(s, msg)
	}
	return m, cmd
}
