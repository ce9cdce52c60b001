package repository

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/julianstephens/sutrr/internal/constants"
	apperrors "github.com/julianstephens/sutrr/internal/errors"
	"github.com/julianstephens/sutrr/internal/logger"
	"github.com/julianstephens/sutrr/internal/models"
	"github.com/julianstephens/sutrr/internal/storage"
)

// Journal owns every journal entry, persisted under constants.KeyJournalEntries
type Journal struct {
	mu    sync.RWMutex
	store storage.Provider
	opts  options
	items []models.JournalEntry // newest first
}

func NewJournal(p storage.Provider, opts ...Option) *Journal {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	stored := storage.LoadJSON(p, constants.KeyJournalEntries, []models.JournalEntry{})
	items := make([]models.JournalEntry, 0, len(stored))
	for _, e := range stored {
		if e.Mood == "" {
			e.Mood = models.MoodNeutral
		}
		if err := e.Validate(); err != nil {
			logger.Warn("Skipping invalid stored journal entry", "error", err)
			continue
		}
		items = append(items, e)
	}

	return &Journal{store: p, opts: o, items: items}
}

func (r *Journal) indexOf(id string) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Journal) persist() error {
	return storage.SaveJSON(r.store, constants.KeyJournalEntries, r.items)
}

// List returns entries sorted by date, newest first
func (r *Journal) List() []models.JournalEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.JournalEntry, len(r.items))
	copy(out, r.items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

func (r *Journal) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.items))
	for i, e := range r.items {
		ids[i] = e.ID
	}
	return ids
}

func (r *Journal) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *Journal) Get(id string) (models.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.JournalEntry{}, fmt.Errorf("journal entry %s: %w", id, apperrors.ErrNotFound)
	}
	return r.items[i], nil
}

// Create saves a new entry. Text is trimmed and must not be empty; an empty
// mood defaults to Neutral.
func (r *Journal) Create(text string, mood models.Mood) (models.JournalEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.JournalEntry{}, apperrors.ErrEmptyInput
	}
	m, err := models.ParseMood(string(mood))
	if err != nil {
		return models.JournalEntry{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e := models.JournalEntry{
		ID:   r.opts.newID(),
		Date: r.opts.now(),
		Mood: m,
		Text: text,
	}
	r.items = append([]models.JournalEntry{e}, r.items...)
	return e, r.persist()
}

// Update applies mutate to the entry with id. The result must still be valid.
func (r *Journal) Update(id string, mutate func(*models.JournalEntry) error) (models.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.JournalEntry{}, fmt.Errorf("journal entry %s: %w", id, apperrors.ErrNotFound)
	}

	e := r.items[i]
	if err := mutate(&e); err != nil {
		return r.items[i], err
	}
	// id and date are immutable
	e.ID, e.Date = r.items[i].ID, r.items[i].Date
	if err := e.Validate(); err != nil {
		return r.items[i], err
	}
	r.items[i] = e
	return e, r.persist()
}

// Edit replaces the text of an entry under the same trimming rule as Create
func (r *Journal) Edit(id string, text string) (models.JournalEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.JournalEntry{}, apperrors.ErrEmptyInput
	}
	return r.Update(id, func(e *models.JournalEntry) error {
		e.Text = text
		return nil
	})
}

// SetMood changes the mood of an entry
func (r *Journal) SetMood(id string, mood models.Mood) (models.JournalEntry, error) {
	m, err := models.ParseMood(string(mood))
	if err != nil {
		return models.JournalEntry{}, err
	}
	return r.Update(id, func(e *models.JournalEntry) error {
		e.Mood = m
		return nil
	})
}

// Delete removes every entry whose id is in ids with a single write
func (r *Journal) Delete(ids []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := idSet(ids)
	kept := r.items[:0:0]
	for _, e := range r.items {
		if _, ok := set[e.ID]; !ok {
			kept = append(kept, e)
		}
	}
	n := len(r.items) - len(kept)
	if n == 0 {
		return 0, nil
	}
	r.items = kept
	return n, r.persist()
}
