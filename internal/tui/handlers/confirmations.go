package handlers

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sutrr/internal/constants"
	"github.com/julianstephens/sutrr/internal/tui/state"
)

// OpenConfirmation shows a yes/no dialog for msg. Declining (or esc) runs
// msg.Cancel; confirming runs msg.Action.
func OpenConfirmation(m *state.Model, msg constants.ConfirmationMsg) tea.Cmd {
	m.Confirmation = msg
	m.ConfirmationForm = &state.ConfirmationFormModel{}
	return openForm(m, constants.StateConfirmation,
		NewConfirmationForm(m.ConfirmationForm, msg.Title, msg.Message))
}

// HandleConfirmationState handles the generic confirmation state
func HandleConfirmationState(m *state.Model, msg tea.Msg) tea.Cmd {
	formState, cmd := updateForm(m, msg)

	var result tea.Cmd
	switch formState {
	case huh.StateCompleted:
		if m.ConfirmationForm.Confirmed {
			if m.Confirmation.Action != nil {
				result = m.Confirmation.Action()
			}
		} else if m.Confirmation.Cancel != nil {
			m.Confirmation.Cancel()
		}
	case huh.StateAborted:
		if m.Confirmation.Cancel != nil {
			m.Confirmation.Cancel()
		}
	default:
		return cmd
	}

	closeForm(m, m.Confirmation.ReturnTo)
	m.Confirmation = constants.ConfirmationMsg{}
	m.ConfirmationForm = nil
	return result
}

// HandleActionResult applies the outcome of a confirmed action
func HandleActionResult(m *state.Model, msg state.ActionResultMsg) tea.Cmd {
	var cmds []tea.Cmd
	cmds = append(cmds, m.RefreshChats())
	m.RefreshJournal()

	if msg.Err != nil {
		cmds = append(cmds, m.ReportError(msg.Err))
	} else {
		cmds = append(cmds, m.SetNotice(msg.Notice))
	}
	if msg.OpenChatID != "" {
		cmds = append(cmds, OpenChat(m, msg.OpenChatID))
	}
	return tea.Batch(cmds...)
}
