package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/sutrr/internal/constants"
	apperrors "github.com/julianstephens/sutrr/internal/errors"
)

// Mood is the closed set of journal moods
type Mood string

const (
	MoodHappy   Mood = constants.MoodHappy
	MoodNeutral Mood = constants.MoodNeutral
	MoodSad     Mood = constants.MoodSad
)

// Moods lists every mood in display order
var Moods = []Mood{MoodHappy, MoodNeutral, MoodSad}

// ParseMood maps user input onto a Mood, case-insensitively. Empty input
// yields the default Neutral mood.
func ParseMood(s string) (Mood, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return MoodNeutral, nil
	}
	for _, m := range Moods {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid mood %q (expected Happy, Neutral or Sad)", s)
}

// Emoji returns the glyph shown next to an entry
func (m Mood) Emoji() string {
	switch m {
	case MoodHappy:
		return "😊"
	case MoodSad:
		return "😔"
	default:
		return "😐"
	}
}

// JournalEntry is one saved journal note
type JournalEntry struct {
	ID   string    `json:"id"`
	Date time.Time `json:"date"`
	Mood Mood      `json:"mood"`
	Text string    `json:"text"`
}

// Validate checks the stored invariants of an entry
func (e JournalEntry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("journal entry id is required")
	}
	if strings.TrimSpace(e.Text) == "" {
		return fmt.Errorf("journal entry %s: %w", e.ID, apperrors.ErrEmptyInput)
	}
	if _, err := ParseMood(string(e.Mood)); err != nil {
		return fmt.Errorf("journal entry %s: %w", e.ID, err)
	}
	return nil
}
