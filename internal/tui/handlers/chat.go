package handlers

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sutrr/internal/constants"
	"github.com/julianstephens/sutrr/internal/deletion"
	"github.com/julianstephens/sutrr/internal/engine"
	"github.com/julianstephens/sutrr/internal/tui/components/conversation"
	"github.com/julianstephens/sutrr/internal/tui/state"
)

// OpenChat selects conversation id and shows it
func OpenChat(m *state.Model, id string) tea.Cmd {
	eng := m.App.Engine
	if err := eng.Select(id); err != nil {
		return m.ReportError(err)
	}
	conv, err := eng.Get(id)
	if err != nil {
		return m.ReportError(err)
	}
	m.State = constants.StateChat
	return tea.Batch(m.Conversation.Open(conv, eng.Typing(id)), m.RefreshChats())
}

// NewChat creates a conversation and opens it
func NewChat(m *state.Model) tea.Cmd {
	conv, err := m.App.Engine.New()
	if conv.ID == "" {
		return m.ReportError(err)
	}
	return tea.Batch(OpenChat(m, conv.ID), m.ReportError(err))
}

// SendMessage passes typed text to the engine. The reply shows up later as
// an engine event.
func SendMessage(m *state.Model, msg conversation.SendMsg) tea.Cmd {
	_, err := m.App.Engine.SendMessage(msg.ID, msg.Text)
	return tea.Batch(m.ReportError(err), m.RefreshChats())
}

// BackToChats leaves the open conversation. Pending replies keep running.
func BackToChats(m *state.Model) tea.Cmd {
	m.App.Engine.Back()
	m.State = constants.StateChatList
	return m.RefreshChats()
}

// HandleEngineEvent re-reads conversation state after any engine change
func HandleEngineEvent(m *state.Model, ev engine.Event) tea.Cmd {
	return m.RefreshChats()
}

// StartRename opens the rename form for conversation id
func StartRename(m *state.Model, id string) tea.Cmd {
	conv, err := m.App.Engine.Get(id)
	if err != nil {
		return m.ReportError(err)
	}
	m.RenameForm = &state.RenameFormModel{ID: id, Title: conv.Title}
	return openForm(m, constants.StateRename, NewRenameForm(m.RenameForm))
}

// HandleRenameFormState handles the rename form
func HandleRenameFormState(m *state.Model, msg tea.Msg) tea.Cmd {
	formState, cmd := updateForm(m, msg)

	switch formState {
	case huh.StateCompleted:
		_, err := m.App.Engine.Rename(m.RenameForm.ID, m.RenameForm.Title)
		m.RenameForm = nil
		closeForm(m, m.PreviousState)
		return tea.Batch(m.ReportError(err), m.RefreshChats())
	case huh.StateAborted:
		m.RenameForm = nil
		closeForm(m, m.PreviousState)
		return nil
	}
	return cmd
}

// RequestChatDelete asks before deleting conversation id
func RequestChatDelete(m *state.Model, id string) tea.Cmd {
	return confirmDelete(m, m.App.ChatDeletion, []string{id}, "conversation", constants.StateChatList)
}

// RequestClearChats asks before deleting every conversation
func RequestClearChats(m *state.Model) tea.Cmd {
	return confirmDelete(m, m.App.ChatDeletion, nil, "conversation", constants.StateChatList)
}

// confirmDelete opens a deletion request on wf. Nil ids means everything.
func confirmDelete(m *state.Model, wf *deletion.Workflow, ids []string, noun string, returnTo constants.SessionState) tea.Cmd {
	var (
		req deletion.Request
		err error
	)
	if ids == nil {
		req, err = wf.RequestDeleteAll()
	} else {
		req, err = wf.RequestDelete(ids)
	}
	if errors.Is(err, deletion.ErrNothingToDelete) {
		return m.SetNotice("Nothing to delete.")
	}
	if err != nil {
		return m.ReportError(err)
	}

	return OpenConfirmation(m, constants.ConfirmationMsg{
		Title:   req.Prompt(noun),
		Message: "",
		Action: func() tea.Cmd {
			n, err := wf.Confirm()
			return state.Result(state.ActionResultMsg{Err: err, Notice: deletedNotice(n, noun)})
		},
		Cancel:   func() { _ = wf.Cancel() },
		ReturnTo: returnTo,
	})
}
