package repository

import (
	"sync"

	"github.com/julianstephens/sutrr/internal/constants"
	"github.com/julianstephens/sutrr/internal/models"
	"github.com/julianstephens/sutrr/internal/storage"
)

// Checkins stores the last logged value per check-in category and the
// first-visit flag.
type Checkins struct {
	mu        sync.RWMutex
	store     storage.Provider
	values    models.CheckinValues
	firstSeen bool
}

func NewCheckins(p storage.Provider) *Checkins {
	values := storage.LoadJSON(p, constants.KeyCheckinValues, models.CheckinValues{})
	if values == nil {
		values = models.CheckinValues{}
	}
	return &Checkins{
		store:     p,
		values:    values,
		firstSeen: storage.LoadJSON(p, constants.KeyFirstVisitSeen, false),
	}
}

// Log validates and records value for category, overwriting the previous one
func (r *Checkins) Log(category string, value int) error {
	cat, err := models.ValidateCheckin(category, value)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.values[cat.Name] = value
	return storage.SaveJSON(r.store, constants.KeyCheckinValues, r.values)
}

// Values returns a copy of every logged value
func (r *Checkins) Values() models.CheckinValues {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(models.CheckinValues, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

func (r *Checkins) Value(category string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[category]
	return v, ok
}

func (r *Checkins) FirstVisitSeen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.firstSeen
}

// MarkFirstVisitSeen sets the welcome flag once
func (r *Checkins) MarkFirstVisitSeen() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.firstSeen {
		return nil
	}
	r.firstSeen = true
	return storage.SaveJSON(r.store, constants.KeyFirstVisitSeen, true)
}
