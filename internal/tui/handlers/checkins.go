package handlers

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sutrr/internal/constants"
	"github.com/julianstephens/sutrr/internal/models"
	"github.com/julianstephens/sutrr/internal/tui/state"
)

// StartCheckin opens the form for category, prefilled with its last value
func StartCheckin(m *state.Model, category string) tea.Cmd {
	cat, ok := models.CheckinCategories[category]
	if !ok {
		return nil
	}
	fm := &state.CheckinFormModel{Category: category, Value: cat.Min}
	if v, ok := m.App.Checkins.Value(category); ok {
		fm.Value = v
		fm.Raw = strconv.Itoa(v)
	}
	m.CheckinForm = fm
	return openForm(m, constants.StateCheckinLog, NewCheckinForm(fm))
}

// HandleCheckinFormState handles the check-in form
func HandleCheckinFormState(m *state.Model, msg tea.Msg) tea.Cmd {
	formState, cmd := updateForm(m, msg)

	switch formState {
	case huh.StateCompleted:
		fm := m.CheckinForm
		value := fm.Value
		if len(models.CheckinCategories[fm.Category].Labels) == 0 {
			// validated by the form
			value, _ = strconv.Atoi(strings.TrimSpace(fm.Raw))
		}
		err := m.App.Checkins.Log(fm.Category, value)
		m.CheckinForm = nil
		closeForm(m, constants.StateCheckins)
		m.RefreshCheckins()
		return m.ReportError(err)
	case huh.StateAborted:
		m.CheckinForm = nil
		closeForm(m, constants.StateCheckins)
		return nil
	}
	return cmd
}
