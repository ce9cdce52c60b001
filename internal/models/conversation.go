package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/sutrr/internal/constants"
	apperrors "github.com/julianstephens/sutrr/internal/errors"
)

// Sender identifies who wrote a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Valid reports whether s is one of the known senders
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderBot
}

// Message is a single chat line. Time is set once on creation.
type Message struct {
	Text   string    `json:"text"`
	Sender Sender    `json:"sender"`
	Time   time.Time `json:"time"`
}

// Conversation is a titled, ordered list of messages
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	UpdatedAt time.Time `json:"updatedAt"`
	// Renamed is set by an explicit rename and stops auto-titling
	Renamed bool `json:"renamed,omitempty"`
}

// NewConversation builds a conversation seeded with the greeting
func NewConversation(id string, now time.Time) Conversation {
	return Conversation{
		ID:    id,
		Title: constants.DefaultConversationTitle,
		Messages: []Message{
			{Text: constants.GreetingMessage, Sender: SenderBot, Time: now},
		},
		UpdatedAt: now,
	}
}

// HasDefaultTitle reports whether the title can still be derived from the
// first user message
func (c Conversation) HasDefaultTitle() bool {
	return !c.Renamed && !c.hasUserMessage()
}

func (c Conversation) hasUserMessage() bool {
	for _, m := range c.Messages {
		if m.Sender == SenderUser {
			return true
		}
	}
	return false
}

// Append adds a message, refreshes UpdatedAt and derives the title from the
// first user message
func (c *Conversation) Append(msg Message) {
	if msg.Sender == SenderUser && c.HasDefaultTitle() {
		c.Title = Truncate(msg.Text, constants.MaxTitleLength)
	}
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = msg.Time
}

// LastMessage returns the newest message, if any
func (c Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// Clone returns a deep copy safe to hand out of a repository
func (c Conversation) Clone() Conversation {
	out := c
	out.Messages = make([]Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return out
}

// Validate checks the stored invariants of a conversation
func (c Conversation) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("conversation id is required")
	}
	if len(c.Messages) == 0 {
		return fmt.Errorf("conversation %s has no messages", c.ID)
	}
	for i, m := range c.Messages {
		if strings.TrimSpace(m.Text) == "" {
			return fmt.Errorf("conversation %s message %d: %w", c.ID, i, apperrors.ErrEmptyInput)
		}
		if !m.Sender.Valid() {
			return fmt.Errorf("conversation %s message %d: invalid sender %q", c.ID, i, m.Sender)
		}
	}
	return nil
}

// Truncate returns at most n characters of s, counted in runes
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
