package repository

import (
	"fmt"
	"sort"
	"sync"

	"github.com/julianstephens/sutrr/internal/constants"
	apperrors "github.com/julianstephens/sutrr/internal/errors"
	"github.com/julianstephens/sutrr/internal/logger"
	"github.com/julianstephens/sutrr/internal/models"
	"github.com/julianstephens/sutrr/internal/storage"
)

// Conversations owns every conversation and persists the whole collection
// under constants.KeyConversations after each mutation.
type Conversations struct {
	mu    sync.RWMutex
	store storage.Provider
	opts  options
	items []models.Conversation // newest first
}

// NewConversations loads the stored collection. Unreadable data yields an
// empty collection; invalid entries are skipped.
func NewConversations(p storage.Provider, opts ...Option) *Conversations {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	stored := storage.LoadJSON(p, constants.KeyConversations, []models.Conversation{})
	items := make([]models.Conversation, 0, len(stored))
	for _, c := range stored {
		if err := c.Validate(); err != nil {
			logger.Warn("Skipping invalid stored conversation", "error", err)
			continue
		}
		items = append(items, c)
	}

	return &Conversations{store: p, opts: o, items: items}
}

func (r *Conversations) indexOf(id string) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Conversations) persist() error {
	return storage.SaveJSON(r.store, constants.KeyConversations, r.items)
}

// List returns copies sorted by UpdatedAt, most recent first
func (r *Conversations) List() []models.Conversation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Conversation, len(r.items))
	for i, c := range r.items {
		out[i] = c.Clone()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// IDs returns every conversation id
func (r *Conversations) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.items))
	for i, c := range r.items {
		ids[i] = c.ID
	}
	return ids
}

func (r *Conversations) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *Conversations) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexOf(id) >= 0
}

func (r *Conversations) Get(id string) (models.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Conversation{}, fmt.Errorf("conversation %s: %w", id, apperrors.ErrNotFound)
	}
	return r.items[i].Clone(), nil
}

// Create inserts a new greeting-seeded conversation at the head. A write
// failure is returned alongside the created conversation.
func (r *Conversations) Create() (models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := models.NewConversation(r.opts.newID(), r.opts.now())
	r.items = append([]models.Conversation{c}, r.items...)
	return c.Clone(), r.persist()
}

// Update applies mutate to the conversation with id. If mutate fails nothing
// is changed. A write failure keeps the in-memory change and is returned.
func (r *Conversations) Update(id string, mutate func(*models.Conversation) error) (models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Conversation{}, fmt.Errorf("conversation %s: %w", id, apperrors.ErrNotFound)
	}

	c := r.items[i].Clone()
	if err := mutate(&c); err != nil {
		return r.items[i].Clone(), err
	}
	r.items[i] = c
	return c.Clone(), r.persist()
}

// Append adds msg to the conversation, stamping it with the current time
func (r *Conversations) Append(id string, text string, sender models.Sender) (models.Conversation, error) {
	return r.Update(id, func(c *models.Conversation) error {
		c.Append(models.Message{Text: text, Sender: sender, Time: r.opts.now()})
		return nil
	})
}

// Delete removes every conversation whose id is in ids with a single write.
// Unknown ids are ignored.
func (r *Conversations) Delete(ids []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := idSet(ids)
	kept := r.items[:0:0]
	for _, c := range r.items {
		if _, ok := set[c.ID]; !ok {
			kept = append(kept, c)
		}
	}
	n := len(r.items) - len(kept)
	if n == 0 {
		return 0, nil
	}
	r.items = kept
	return n, r.persist()
}
