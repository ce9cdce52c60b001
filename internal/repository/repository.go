// Package repository holds the in-memory entity collections, each
// synchronized to a single key of a storage.Provider.
package repository

import (
	"time"

	"github.com/google/uuid"
)

// Option configures a repository
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

func defaultOptions() options {
	return options{
		now:   time.Now,
		newID: newID,
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator overrides id allocation
func WithIDGenerator(gen func() string) Option {
	return func(o *options) { o.newID = gen }
}

// newID returns a time-ordered UUIDv7, falling back to a random UUID
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
