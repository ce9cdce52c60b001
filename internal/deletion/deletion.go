// Package deletion gates destructive actions behind an explicit confirm and
// tracks multi-select state.
package deletion

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrNothingToDelete = errors.New("nothing selected to delete")
	ErrNoPendingDelete = errors.New("no deletion awaiting confirmation")
)

// Deleter removes the entities with the given ids and reports how many went
type Deleter interface {
	Delete(ids []string) (int, error)
}

// Kind distinguishes the confirmation wording
type Kind int

const (
	KindSingle Kind = iota
	KindBulk
	KindAll
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindBulk:
		return "bulk"
	case KindAll:
		return "all"
	default:
		return "unknown"
	}
}

// Request is the pending deletion shown to the user
type Request struct {
	IDs   []string
	Count int
	Kind  Kind
}

// Prompt returns a confirmation question for noun (e.g. "entry")
func (r Request) Prompt(noun string) string {
	switch r.Kind {
	case KindAll:
		return fmt.Sprintf("Delete all %d %s? This cannot be undone.", r.Count, plural(noun, r.Count))
	case KindBulk:
		return fmt.Sprintf("Delete %d %s? This cannot be undone.", r.Count, plural(noun, r.Count))
	default:
		return fmt.Sprintf("Delete this %s? This cannot be undone.", noun)
	}
}

func plural(noun string, n int) string {
	if n == 1 {
		return noun
	}
	if len(noun) > 1 && noun[len(noun)-1] == 'y' {
		return noun[:len(noun)-1] + "ies"
	}
	return noun + "s"
}

// Workflow holds at most one pending deletion and the current selection
type Workflow struct {
	mu       sync.Mutex
	target   Deleter
	all      func() []string
	pending  *Request
	selected map[string]struct{}
}

// New creates a workflow deleting through target. all lists every id for
// RequestDeleteAll.
func New(target Deleter, all func() []string) *Workflow {
	return &Workflow{
		target:   target,
		all:      all,
		selected: make(map[string]struct{}),
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// RequestDelete opens a confirmation for ids, replacing any pending one.
// Nothing is deleted until Confirm.
func (w *Workflow) RequestDelete(ids []string) (Request, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return Request{}, ErrNothingToDelete
	}

	kind := KindBulk
	if len(ids) == 1 {
		kind = KindSingle
	}
	return w.open(Request{IDs: ids, Count: len(ids), Kind: kind}), nil
}

// RequestDeleteSelected is RequestDelete over the current selection
func (w *Workflow) RequestDeleteSelected() (Request, error) {
	return w.RequestDelete(w.Selected())
}

// RequestDeleteAll opens a confirmation covering every current id
func (w *Workflow) RequestDeleteAll() (Request, error) {
	ids := dedupe(w.all())
	if len(ids) == 0 {
		return Request{}, ErrNothingToDelete
	}
	return w.open(Request{IDs: ids, Count: len(ids), Kind: KindAll}), nil
}

func (w *Workflow) open(r Request) Request {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = &r
	return r
}

// Pending returns the request awaiting confirmation
func (w *Workflow) Pending() (Request, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return Request{}, false
	}
	return *w.pending, true
}

// Confirm performs the pending deletion and clears the selection
func (w *Workflow) Confirm() (int, error) {
	w.mu.Lock()
	r := w.pending
	w.pending = nil
	if r != nil {
		w.selected = make(map[string]struct{})
	}
	w.mu.Unlock()

	if r == nil {
		return 0, ErrNoPendingDelete
	}
	return w.target.Delete(r.IDs)
}

// Cancel discards the pending deletion
func (w *Workflow) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return ErrNoPendingDelete
	}
	w.pending = nil
	return nil
}

// Toggle flips selection of id and reports whether it is now selected
func (w *Workflow) Toggle(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.selected[id]; ok {
		delete(w.selected, id)
		return false
	}
	w.selected[id] = struct{}{}
	return true
}

// SelectAll selects every id, or clears the selection when every id is
// already selected
func (w *Workflow) SelectAll(ids []string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ids = dedupe(ids)
	if len(ids) > 0 && len(w.selected) == len(ids) {
		all := true
		for _, id := range ids {
			if _, ok := w.selected[id]; !ok {
				all = false
				break
			}
		}
		if all {
			w.selected = make(map[string]struct{})
			return
		}
	}

	w.selected = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		w.selected[id] = struct{}{}
	}
}

func (w *Workflow) IsSelected(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.selected[id]
	return ok
}

// Selected returns the selected ids in sorted order
func (w *Workflow) Selected() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	ids := make([]string, 0, len(w.selected))
	for id := range w.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (w *Workflow) ClearSelection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selected = make(map[string]struct{})
}
