package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sutrr/internal/constants"
	"github.com/julianstephens/sutrr/internal/models"
	"github.com/julianstephens/sutrr/internal/tui/state"
)

// StartWrite opens an empty journal form
func StartWrite(m *state.Model) tea.Cmd {
	m.EditingEntryID = ""
	m.JournalForm = &state.JournalFormModel{Mood: models.MoodNeutral}
	return openForm(m, constants.StateJournalWrite, NewJournalForm(m.JournalForm, "New entry"))
}

// StartEdit opens the journal form filled with entry id
func StartEdit(m *state.Model, id string) tea.Cmd {
	entry, err := m.App.Journal.Get(id)
	if err != nil {
		return m.ReportError(err)
	}
	m.EditingEntryID = id
	m.JournalForm = &state.JournalFormModel{Text: entry.Text, Mood: entry.Mood}
	return openForm(m, constants.StateJournalEdit, NewJournalForm(m.JournalForm, "Edit entry"))
}

// HandleJournalFormState handles both the write and the edit form
func HandleJournalFormState(m *state.Model, msg tea.Msg) tea.Cmd {
	formState, cmd := updateForm(m, msg)

	switch formState {
	case huh.StateCompleted:
		var err error
		if m.EditingEntryID == "" {
			_, err = m.App.Journal.Create(m.JournalForm.Text, m.JournalForm.Mood)
		} else {
			err = saveEdit(m, m.EditingEntryID, m.JournalForm)
		}
		m.JournalForm = nil
		closeForm(m, m.PreviousState)
		m.RefreshJournal()
		return m.ReportError(err)
	case huh.StateAborted:
		m.JournalForm = nil
		closeForm(m, m.PreviousState)
		return nil
	}
	return cmd
}

func saveEdit(m *state.Model, id string, fm *state.JournalFormModel) error {
	entry, err := m.App.Journal.Get(id)
	if err != nil {
		return err
	}
	if strings.TrimSpace(fm.Text) != entry.Text {
		if _, err = m.App.Journal.Edit(id, fm.Text); err != nil {
			return err
		}
	}
	if fm.Mood != entry.Mood {
		_, err = m.App.Journal.SetMood(id, fm.Mood)
	}
	return err
}

// OpenEntry shows the full text of entry id
func OpenEntry(m *state.Model, id string) tea.Cmd {
	if _, err := m.App.Journal.Get(id); err != nil {
		return m.ReportError(err)
	}
	m.DetailEntryID = id
	m.State = constants.StateJournalDetail
	return nil
}

// HandleDetailKeys handles the entry detail view
func HandleDetailKeys(m *state.Model, msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	id := m.DetailEntryID
	switch {
	case key.Matches(keyMsg, m.Keys.Back), key.Matches(keyMsg, m.Keys.Quit):
		m.DetailEntryID = ""
		m.State = constants.StateJournal
	case key.Matches(keyMsg, m.Keys.Edit):
		return StartEdit(m, id)
	case key.Matches(keyMsg, m.Keys.Share):
		return ShareEntry(m, id)
	case key.Matches(keyMsg, m.Keys.Delete):
		return confirmDelete(m, m.App.JournalDeletion, []string{id}, "entry", constants.StateJournal)
	}
	return nil
}

// ToggleEntry flips the selection mark on entry id
func ToggleEntry(m *state.Model, id string) {
	m.App.JournalDeletion.Toggle(id)
	m.RefreshJournal()
}

// SelectAllEntries selects every entry, or clears a full selection
func SelectAllEntries(m *state.Model) {
	m.App.JournalDeletion.SelectAll(m.App.Journal.IDs())
	m.RefreshJournal()
}

// RequestJournalDelete asks before deleting the selection, or current when
// nothing is selected
func RequestJournalDelete(m *state.Model, current string) tea.Cmd {
	ids := m.App.JournalDeletion.Selected()
	if len(ids) == 0 {
		ids = []string{current}
	}
	return confirmDelete(m, m.App.JournalDeletion, ids, "entry", constants.StateJournal)
}

// ShareEntry asks for consent before carrying entry id into a new chat
func ShareEntry(m *state.Model, id string) tea.Cmd {
	req, err := m.App.ShareEntry(id)
	if err != nil {
		return m.ReportError(err)
	}

	bridge := m.App.Consent
	returnTo := m.State
	return OpenConfirmation(m, constants.ConfirmationMsg{
		Title:   "Discuss this entry with your AI buddy?",
		Message: fmt.Sprintf("%q\n\n%s", req.Preview, req.Purpose),
		Action: func() tea.Cmd {
			conv, err := bridge.ConfirmShare(req.Token)
			return state.Result(state.ActionResultMsg{Err: err, OpenChatID: conv.ID})
		},
		Cancel:   func() { bridge.CancelShare(req.Token) },
		ReturnTo: returnTo,
	})
}
