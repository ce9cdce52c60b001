package handlers

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sutrr/internal/constants"
	"github.com/julianstephens/sutrr/internal/models"
	"github.com/julianstephens/sutrr/internal/tui/state"
)

func notBlank(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", what)
		}
		return nil
	}
}

// NewJournalForm creates the form for writing or editing an entry
func NewJournalForm(fm *state.JournalFormModel, title string) *huh.Form {
	moods := make([]huh.Option[models.Mood], len(models.Moods))
	for i, mood := range models.Moods {
		moods[i] = huh.NewOption(mood.Emoji()+" "+string(mood), mood)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(title).
				Placeholder("How are you feeling today?").
				Value(&fm.Text).
				Validate(notBlank("entry")),
			huh.NewSelect[models.Mood]().
				Title("Mood").
				Options(moods...).
				Value(&fm.Mood),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewRenameForm creates the form for renaming a conversation
func NewRenameForm(fm *state.RenameFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Conversation title").
				Value(&fm.Title).
				Validate(notBlank("title")),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewCheckinForm creates a select for labeled categories and a number input
// for the rest
func NewCheckinForm(fm *state.CheckinFormModel) *huh.Form {
	cat := models.CheckinCategories[fm.Category]
	title := "Log " + cat.Name

	var field huh.Field
	if len(cat.Labels) > 0 {
		opts := make([]huh.Option[int], 0, cat.Max-cat.Min+1)
		for v := cat.Min; v <= cat.Max; v++ {
			opts = append(opts, huh.NewOption(cat.Label(v), v))
		}
		field = huh.NewSelect[int]().
			Title(title).
			Options(opts...).
			Value(&fm.Value)
	} else {
		field = huh.NewInput().
			Title(title).
			Description(fmt.Sprintf("A number from %d to %d", cat.Min, cat.Max)).
			Value(&fm.Raw).
			Validate(func(s string) error {
				v, err := strconv.Atoi(strings.TrimSpace(s))
				if err != nil {
					return fmt.Errorf("enter a whole number")
				}
				_, err = models.ValidateCheckin(cat.Name, v)
				return err
			})
	}

	return huh.NewForm(huh.NewGroup(field)).WithTheme(huh.ThemeDracula())
}

// NewConfirmationForm creates a yes/no dialog
func NewConfirmationForm(fm *state.ConfirmationFormModel, title, description string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&fm.Confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}

// updateForm forwards msg to the open form. Esc aborts.
func updateForm(m *state.Model, msg tea.Msg) (huh.FormState, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		return huh.StateAborted, nil
	}

	form, cmd := m.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.Form = f
	}
	return m.Form.State, cmd
}

// openForm switches to s with f shown
func openForm(m *state.Model, s constants.SessionState, f *huh.Form) tea.Cmd {
	m.PreviousState = m.State
	m.State = s
	m.Form = f
	if m.Width > 0 {
		m.Form = m.Form.WithWidth(min(m.Width-4, 80))
	}
	return m.Form.Init()
}

func closeForm(m *state.Model, s constants.SessionState) {
	m.Form = nil
	m.State = s
}

func deletedNotice(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("Deleted 1 %s.", noun)
	}
	if strings.HasSuffix(noun, "y") {
		noun = strings.TrimSuffix(noun, "y") + "ie"
	}
	return fmt.Sprintf("Deleted %d %ss.", n, noun)
}
