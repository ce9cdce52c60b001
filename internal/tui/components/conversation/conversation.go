package conversation

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/sutrr/internal/constants"
	"github.com/julianstephens/sutrr/internal/models"
)

type SendMsg struct {
	ID   string
	Text string
}

type BackMsg struct{}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	botStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	disclaimerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().Bold(true)
)

type KeyMap struct {
	Send key.Binding
	Back key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to chats"),
		),
	}
}

type Model struct {
	keys     KeyMap
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	conv     models.Conversation
	typing   bool
	width    int
}

func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message…"
	ti.Prompt = "› "

	m := Model{
		keys:     DefaultKeyMap(),
		viewport: viewport.New(width, height),
		input:    ti,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.SetSize(width, height)
	return m
}

func (m Model) ID() string {
	return m.conv.ID
}

// Open shows conv with an empty, focused input
func (m *Model) Open(conv models.Conversation, typing bool) tea.Cmd {
	m.input.Reset()
	cmd := m.SetConversation(conv, typing)
	return tea.Batch(cmd, m.input.Focus())
}

// SetConversation refreshes the transcript. It returns the spinner tick
// when typing starts.
func (m *Model) SetConversation(conv models.Conversation, typing bool) tea.Cmd {
	started := typing && !m.typing
	m.conv = conv
	m.typing = typing
	m.viewport.SetContent(m.render())
	m.viewport.GotoBottom()
	if started {
		return m.spinner.Tick
	}
	return nil
}

func (m Model) Typing() bool {
	return m.typing
}

func (m Model) Input() string {
	return m.input.Value()
}

func (m Model) render() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	body := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	for i, msg := range m.conv.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		label := botStyle.Render("Buddy")
		if msg.Sender == models.SenderUser {
			label = userStyle.Render("You")
		}
		b.WriteString(label + " " + timeStyle.Render(msg.Time.Local().Format("15:04")) + "\n")
		b.WriteString(body.Render(msg.Text))
	}
	return b.String()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Send, m.keys.Back}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.typing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.input.Blur()
			return m, func() tea.Msg { return BackMsg{} }
		case key.Matches(msg, m.keys.Send):
			text := m.input.Value()
			if strings.TrimSpace(text) == "" {
				return m, nil
			}
			m.input.Reset()
			id := m.conv.ID
			return m, func() tea.Msg { return SendMsg{ID: id, Text: text} }
		case msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	status := ""
	if m.typing {
		status = m.spinner.View() + " Buddy is typing…"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(m.conv.Title),
		disclaimerStyle.Render(constants.MedicalDisclaimer),
		"",
		m.viewport.View(),
		status,
		m.input.View(),
	)
}

// SetSize sizes the transcript; the header, status and input take five rows
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.viewport.Width = width
	m.viewport.Height = max(height-5, 1)
	m.input.Width = max(width-4, 10)
	m.viewport.SetContent(m.render())
}
