package checkins

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/sutrr/internal/constants"
	"github.com/julianstephens/sutrr/internal/models"
)

type LogCheckinMsg struct {
	Category string
}

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Width(10)
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
)

const barWidth = 20

type KeyMap struct {
	Mood   key.Binding
	Energy key.Binding
	Cycle  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Mood: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "log mood"),
		),
		Energy: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "log energy"),
		),
		Cycle: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "log cycle phase"),
		),
	}
}

type Model struct {
	keys   KeyMap
	values models.CheckinValues
}

func New(values models.CheckinValues) Model {
	return Model{keys: DefaultKeyMap(), values: values}
}

func (m *Model) SetValues(values models.CheckinValues) {
	m.values = values
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Mood, m.keys.Energy, m.keys.Cycle}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	var category string
	switch {
	case key.Matches(keyMsg, m.keys.Mood):
		category = constants.CheckinMood
	case key.Matches(keyMsg, m.keys.Energy):
		category = constants.CheckinEnergy
	case key.Matches(keyMsg, m.keys.Cycle):
		category = constants.CheckinCycle
	default:
		return m, nil
	}
	return m, func() tea.Msg { return LogCheckinMsg{Category: category} }
}

func (m Model) row(name string) string {
	cat := models.CheckinCategories[name]
	value, ok := m.values[name]
	if !ok {
		return labelStyle.Render(name) + emptyStyle.Render("not logged yet")
	}

	filled := (value - cat.Min) * barWidth / max(cat.Max-cat.Min, 1)
	bar := barStyle.Render(strings.Repeat("█", filled)) + strings.Repeat("░", barWidth-filled)
	return labelStyle.Render(name) + fmt.Sprintf("%s  %s", bar, cat.Label(value))
}

func (m Model) View() string {
	rows := []string{"Today's check-in", ""}
	for _, name := range models.CategoryNames() {
		rows = append(rows, m.row(name))
	}
	rows = append(rows, "", emptyStyle.Render(constants.MedicalDisclaimer))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
