// Package consent carries journal text into a new conversation only after an
// explicit confirmation. A share is a two-phase request and confirm.
package consent

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/julianstephens/sutrr/internal/constants"
	apperrors "github.com/julianstephens/sutrr/internal/errors"
	"github.com/julianstephens/sutrr/internal/models"
)

var ErrUnknownShare = errors.New("share request not found or already used")

// Chat is the part of the conversation engine a confirmed share drives
type Chat interface {
	New() (models.Conversation, error)
	SendMessage(id, text string) (models.Conversation, error)
	Select(id string) error
}

// Request is a pending share awaiting the user's decision
type Request struct {
	Token   string
	Preview string
	Purpose string
	// SourceID optionally names the journal entry being shared
	SourceID string
}

type Bridge struct {
	mu      sync.Mutex
	chat    Chat
	pending map[string]pendingShare
}

type pendingShare struct {
	text     string
	sourceID string
}

func NewBridge(chat Chat) *Bridge {
	return &Bridge{chat: chat, pending: make(map[string]pendingShare)}
}

// RequestShare registers text for sharing and returns what the consent
// prompt must show. Nothing is written.
func (b *Bridge) RequestShare(text string) (Request, error) {
	return b.RequestEntryShare("", text)
}

// RequestEntryShare is RequestShare with the source journal entry id recorded
func (b *Bridge) RequestEntryShare(sourceID, text string) (Request, error) {
	if strings.TrimSpace(text) == "" {
		return Request{}, apperrors.ErrEmptyInput
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	token := uuid.NewString()
	b.pending[token] = pendingShare{text: text, sourceID: sourceID}
	return Request{
		Token:    token,
		Preview:  Preview(text),
		Purpose:  constants.SharePurposeNotice,
		SourceID: sourceID,
	}, nil
}

// ConfirmShare consumes token, starts a new conversation seeded with the
// templated text and selects it. A token works once.
func (b *Bridge) ConfirmShare(token string) (models.Conversation, error) {
	b.mu.Lock()
	share, ok := b.pending[token]
	delete(b.pending, token)
	b.mu.Unlock()
	if !ok {
		return models.Conversation{}, ErrUnknownShare
	}

	c, err := b.chat.New()
	if err != nil && c.ID == "" {
		return models.Conversation{}, fmt.Errorf("failed to start conversation: %w", err)
	}
	var writeErr error
	if err != nil {
		writeErr = err
	}

	c, err = b.chat.SendMessage(c.ID, Message(share.text))
	if err != nil {
		if !errors.Is(err, apperrors.ErrStorageWrite) {
			return c, err
		}
		writeErr = err
	}
	if err := b.chat.Select(c.ID); err != nil {
		return c, err
	}
	return c, writeErr
}

// CancelShare discards the request. Unknown tokens are ignored.
func (b *Bridge) CancelShare(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pending, token)
}

// Pending reports how many requests await a decision
func (b *Bridge) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Preview is the prefix of text carried into the chat
func Preview(text string) string {
	return models.Truncate(text, constants.SharePreviewLength)
}

// Message wraps the preview in the advice template
func Message(text string) string {
	return fmt.Sprintf(constants.ShareTemplate, Preview(text))
}
