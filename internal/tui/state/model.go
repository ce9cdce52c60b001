package state

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sutrr/internal/app"
	"github.com/julianstephens/sutrr/internal/constants"
	apperrors "github.com/julianstephens/sutrr/internal/errors"
	"github.com/julianstephens/sutrr/internal/models"
	"github.com/julianstephens/sutrr/internal/tui/components/chatlist"
	"github.com/julianstephens/sutrr/internal/tui/components/checkins"
	"github.com/julianstephens/sutrr/internal/tui/components/conversation"
	"github.com/julianstephens/sutrr/internal/tui/components/journal"
)

// NoticeTimeout is how long a status-line notice stays visible
const NoticeTimeout = 5 * time.Second

// JournalFormModel backs the write and edit forms
type JournalFormModel struct {
	Text string
	Mood models.Mood
}

// RenameFormModel backs the conversation rename form
type RenameFormModel struct {
	ID    string
	Title string
}

// CheckinFormModel backs the check-in form. Raw holds free-text input for
// categories without labels.
type CheckinFormModel struct {
	Category string
	Value    int
	Raw      string
}

// ConfirmationFormModel represents the form model for confirmations
type ConfirmationFormModel struct {
	Confirmed bool
}

// ClearNoticeMsg hides the notice with the same sequence number
type ClearNoticeMsg struct {
	Seq int
}

// Model represents the shared state for the TUI
type Model struct {
	App              *app.App
	State            constants.SessionState
	PreviousState    constants.SessionState
	Keys             KeyMap
	Help             help.Model
	ChatList         chatlist.Model
	Conversation     conversation.Model
	JournalList      journal.Model
	Checkins         checkins.Model
	Form             *huh.Form
	JournalForm      *JournalFormModel
	RenameForm       *RenameFormModel
	CheckinForm      *CheckinFormModel
	ConfirmationForm *ConfirmationFormModel
	Confirmation     constants.ConfirmationMsg
	EditingEntryID   string
	DetailEntryID    string
	ShowWelcome      bool
	Notice           string
	NoticeSeq        int
	Quitting         bool
	Width            int
	Height           int
}

// New creates a new state Model
func New(a *app.App) Model {
	m := Model{
		App:          a,
		State:        constants.StateChatList,
		Keys:         DefaultKeyMap(),
		Help:         help.New(),
		ChatList:     chatlist.New(nil, 0, 0),
		Conversation: conversation.New(0, 0),
		JournalList:  journal.New(nil, 0, 0),
		Checkins:     checkins.New(nil),
		ShowWelcome:  !a.Checkins.FirstVisitSeen(),
	}
	m.RefreshChats()
	m.RefreshJournal()
	m.RefreshCheckins()
	return m
}

// RefreshChats re-reads conversations into the list and the open chat
func (m *Model) RefreshChats() tea.Cmd {
	eng := m.App.Engine
	m.ChatList.SetConversations(eng.List(), eng.Typing)

	if m.State != constants.StateChat {
		return nil
	}
	conv, err := eng.Get(m.Conversation.ID())
	if err != nil {
		// deleted while open
		m.State = constants.StateChatList
		return nil
	}
	return m.Conversation.SetConversation(conv, eng.Typing(conv.ID))
}

func (m *Model) RefreshJournal() {
	m.JournalList.SetEntries(m.App.Journal.List(), m.App.JournalDeletion.IsSelected)
}

func (m *Model) RefreshCheckins() {
	m.Checkins.SetValues(m.App.Checkins.Values())
}

// SetNotice shows text in the status line and schedules its removal
func (m *Model) SetNotice(text string) tea.Cmd {
	if text == "" {
		return nil
	}
	m.NoticeSeq++
	m.Notice = text
	seq := m.NoticeSeq
	return tea.Tick(NoticeTimeout, func(time.Time) tea.Msg {
		return ClearNoticeMsg{Seq: seq}
	})
}

// ReportError shows the notice for err. Storage-write failures go through
// the app so they are logged and forwarded; they come back on App.Notices.
func (m *Model) ReportError(err error) tea.Cmd {
	if errors.Is(err, apperrors.ErrStorageWrite) {
		m.App.Notice(err)
		return nil
	}
	return m.SetNotice(apperrors.Notice(err))
}

// DismissWelcome hides the banner and persists the flag
func (m *Model) DismissWelcome() tea.Cmd {
	m.ShowWelcome = false
	return m.ReportError(m.App.Checkins.MarkFirstVisitSeen())
}

// ActionResultMsg reports a confirmed action. Actions run outside Update
// and only touch the app, so the model applies the outcome here.
type ActionResultMsg struct {
	Err    error
	Notice string
	// OpenChatID switches to the conversation when set
	OpenChatID string
}

// Result wraps an ActionResultMsg as a command
func Result(r ActionResultMsg) tea.Cmd {
	return func() tea.Msg { return r }
}
