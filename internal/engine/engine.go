// Package engine drives conversations: the active pointer, message sends,
// renames, deletes and the delayed canned reply.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/sutrr/internal/constants"
	apperrors "github.com/julianstephens/sutrr/internal/errors"
	"github.com/julianstephens/sutrr/internal/logger"
	"github.com/julianstephens/sutrr/internal/models"
	"github.com/julianstephens/sutrr/internal/repository"
	"github.com/julianstephens/sutrr/internal/responder"
)

var (
	ErrClosed       = errors.New("conversation engine is closed")
	ErrInvalidDelay = errors.New("reply delay must be positive")
)

const eventBuffer = 64

// Options configures an Engine
type Options struct {
	// Delay before the canned reply lands. Zero means constants.DefaultReplyDelay.
	Delay     time.Duration
	Scheduler Scheduler
	Responder responder.Responder
	// OnNotice receives storage errors raised outside a caller's request,
	// i.e. while appending a delayed reply.
	OnNotice func(error)
}

// replyQueue serializes replies for one conversation. Only the head of
// pending has an armed timer.
type replyQueue struct {
	pending []string
	timer   Timer
	gen     uint64
	done    chan struct{}
}

type Engine struct {
	mu        sync.Mutex
	convos    *repository.Conversations
	responder responder.Responder
	sched     Scheduler
	delay     time.Duration
	onNotice  func(error)
	log       *log.Logger

	active string
	queues map[string]*replyQueue
	gen    uint64
	events chan Event
	closed bool
}

// New creates an engine over convos
func New(convos *repository.Conversations, opts Options) (*Engine, error) {
	if opts.Delay == 0 {
		opts.Delay = constants.DefaultReplyDelay
	}
	if opts.Delay < 0 || opts.Delay > constants.MaxReplyDelay {
		return nil, fmt.Errorf("%w: got %s, max %s", ErrInvalidDelay, opts.Delay, constants.MaxReplyDelay)
	}
	if opts.Scheduler == nil {
		opts.Scheduler = RealScheduler
	}
	if opts.Responder == nil {
		opts.Responder = responder.Default()
	}

	return &Engine{
		convos:    convos,
		responder: opts.Responder,
		sched:     opts.Scheduler,
		delay:     opts.Delay,
		onNotice:  opts.OnNotice,
		log:       logger.Component("engine"),
		queues:    make(map[string]*replyQueue),
		events:    make(chan Event, eventBuffer),
	}, nil
}

// Events delivers change notifications. Events are dropped when the buffer
// is full; consumers re-read state on every event anyway.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// emit must be called with e.mu held
func (e *Engine) emit(ev Event) {
	if e.closed {
		return
	}
	select {
	case e.events <- ev:
	default:
	}
}

func (e *Engine) debug(msg string, kv ...any) {
	if e.log != nil {
		e.log.Debug(msg, kv...)
	}
}

func (e *Engine) notice(err error) {
	if e.onNotice != nil {
		e.onNotice(err)
		return
	}
	logger.Error("Storage error while applying reply", "error", err)
}

func (e *Engine) List() []models.Conversation {
	return e.convos.List()
}

func (e *Engine) Get(id string) (models.Conversation, error) {
	return e.convos.Get(id)
}

// IDs returns every conversation id, for delete-all
func (e *Engine) IDs() []string {
	return e.convos.IDs()
}

// ActiveID returns the selected conversation, or "" in the list view
func (e *Engine) ActiveID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Active returns the selected conversation
func (e *Engine) Active() (models.Conversation, bool) {
	id := e.ActiveID()
	if id == "" {
		return models.Conversation{}, false
	}
	c, err := e.convos.Get(id)
	if err != nil {
		return models.Conversation{}, false
	}
	return c, true
}

// Select opens the conversation with id
func (e *Engine) Select(id string) error {
	if !e.convos.Exists(id) {
		return fmt.Errorf("conversation %s: %w", id, apperrors.ErrNotFound)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = id
	e.emit(Event{Kind: EventSelected, ConversationID: id})
	return nil
}

// Back returns to the list view. Pending replies keep running.
func (e *Engine) Back() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = ""
	e.emit(Event{Kind: EventSelected})
}

// New creates a conversation and selects it. On a write failure the
// conversation still exists in memory and the error is returned with it.
func (e *Engine) New() (models.Conversation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return models.Conversation{}, ErrClosed
	}
	c, err := e.convos.Create()
	e.active = c.ID
	e.emit(Event{Kind: EventCreated, ConversationID: c.ID})
	e.debug("Created conversation", "id", c.ID)
	return c, err
}

// SendMessage appends a user message and queues the canned reply. Blank
// text is rejected without any change.
func (e *Engine) SendMessage(id, text string) (models.Conversation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Conversation{}, apperrors.ErrEmptyInput
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return models.Conversation{}, ErrClosed
	}

	c, err := e.convos.Append(id, text, models.SenderUser)
	if errors.Is(err, apperrors.ErrNotFound) {
		return models.Conversation{}, err
	}
	// a write failure leaves the message in memory, so the reply still follows
	e.emit(Event{Kind: EventMessageAppended, ConversationID: id})
	e.enqueue(id, text)
	return c, err
}

// enqueue must be called with e.mu held
func (e *Engine) enqueue(id, text string) {
	q, ok := e.queues[id]
	if !ok {
		e.gen++
		q = &replyQueue{gen: e.gen, done: make(chan struct{})}
		e.queues[id] = q
		e.emit(Event{Kind: EventTypingChanged, ConversationID: id, Typing: true})
	}
	q.pending = append(q.pending, text)
	if q.timer == nil {
		e.arm(id, q)
	}
}

// arm must be called with e.mu held
func (e *Engine) arm(id string, q *replyQueue) {
	gen := q.gen
	q.timer = e.sched.AfterFunc(e.delay, func() { e.fire(id, gen) })
}

// fire appends the reply for the head of the queue. It drops the reply when
// the queue was cancelled or replaced, or the conversation is gone.
func (e *Engine) fire(id string, gen uint64) {
	var noticeErr error
	defer func() {
		if noticeErr != nil {
			e.notice(noticeErr)
		}
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	q, ok := e.queues[id]
	if !ok || q.gen != gen || e.closed || len(q.pending) == 0 {
		return
	}
	q.timer = nil
	text := q.pending[0]
	q.pending = q.pending[1:]

	if !e.convos.Exists(id) {
		e.finish(id, q)
		return
	}

	_, err := e.convos.Append(id, e.responder.Reply(text), models.SenderBot)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		e.finish(id, q)
		return
	case err != nil:
		noticeErr = err
	}
	e.emit(Event{Kind: EventMessageAppended, ConversationID: id})

	if len(q.pending) > 0 {
		e.arm(id, q)
		return
	}
	e.finish(id, q)
}

// finish must be called with e.mu held
func (e *Engine) finish(id string, q *replyQueue) {
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	delete(e.queues, id)
	close(q.done)
	e.emit(Event{Kind: EventTypingChanged, ConversationID: id, Typing: false})
}

// Typing reports whether a reply is pending for id
func (e *Engine) Typing(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.queues[id]
	return ok
}

// Pending returns the number of replies still queued for id
func (e *Engine) Pending(id string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if q, ok := e.queues[id]; ok {
		return len(q.pending)
	}
	return 0
}

// WaitIdle blocks until no reply is pending for id or ctx is done
func (e *Engine) WaitIdle(ctx context.Context, id string) error {
	e.mu.Lock()
	q, ok := e.queues[id]
	e.mu.Unlock()
	if !ok {
		return nil
	}

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Rename sets an explicit title. The trimmed title is stored as-is and
// disables auto-titling.
func (e *Engine) Rename(id, title string) (models.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Conversation{}, apperrors.ErrEmptyTitle
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.convos.Update(id, func(c *models.Conversation) error {
		c.Title = title
		c.Renamed = true
		return nil
	})
	if errors.Is(err, apperrors.ErrNotFound) {
		return c, err
	}
	e.emit(Event{Kind: EventRenamed, ConversationID: id})
	return c, err
}

// Delete removes conversations, cancels their pending replies and clears
// the active pointer when it was among them.
func (e *Engine) Delete(ids []string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, id := range ids {
		if q, ok := e.queues[id]; ok {
			e.finish(id, q)
		}
		if e.active == id {
			e.active = ""
		}
	}

	n, err := e.convos.Delete(ids)
	for _, id := range ids {
		e.emit(Event{Kind: EventDeleted, ConversationID: id})
	}
	e.debug("Deleted conversations", "requested", len(ids), "deleted", n)
	return n, err
}

// Close cancels every pending reply. Events is closed afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	for id, q := range e.queues {
		e.finish(id, q)
	}
	e.closed = true
	close(e.events)
}
