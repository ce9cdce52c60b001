package chatlist

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/sutrr/internal/models"
)

func TestItemDescription(t *testing.T) {
	c := models.NewConversation("c1", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	if got := (Item{Conversation: c}).Description(); !strings.Contains(got, "wellness buddy") {
		t.Errorf("expected last message excerpt, got %q", got)
	}
	if got := (Item{Conversation: c, Typing: true}).Description(); !strings.HasSuffix(got, "typing…") {
		t.Errorf("expected typing marker, got %q", got)
	}
}

func TestKeysEmitMessages(t *testing.T) {
	now := time.Now()
	m := New([]models.Conversation{models.NewConversation("c1", now)}, 80, 20)

	tests := []struct {
		key  tea.KeyMsg
		want tea.Msg
	}{
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}, NewChatMsg{}},
		{tea.KeyMsg{Type: tea.KeyEnter}, OpenChatMsg{ID: "c1"}},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}, RenameChatMsg{ID: "c1"}},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")}, DeleteChatMsg{ID: "c1"}},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("D")}, ClearChatsMsg{}},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			_, cmd := m.Update(tt.key)
			if cmd == nil {
				t.Fatal("expected a command")
			}
			if got := cmd(); got != tt.want {
				t.Errorf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestEmptyList(t *testing.T) {
	m := New(nil, 80, 20)
	if m.SelectedID() != "" {
		t.Error("expected no selection")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("open on an empty list should do nothing")
	}
	if !strings.Contains(m.View(), "No conversations yet") {
		t.Error("expected empty state text")
	}
}
