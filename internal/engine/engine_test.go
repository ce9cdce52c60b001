package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/sutrr/internal/constants"
	apperrors "github.com/julianstephens/sutrr/internal/errors"
	"github.com/julianstephens/sutrr/internal/models"
	"github.com/julianstephens/sutrr/internal/repository"
	"github.com/julianstephens/sutrr/internal/responder"
	"github.com/julianstephens/sutrr/internal/storage"
)

const delay = constants.DefaultReplyDelay

type fixture struct {
	eng   *Engine
	sched *ManualScheduler
	store *storage.MemoryStore

	mu      sync.Mutex
	notices []error
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		sched: NewManualScheduler(),
		store: storage.NewMemoryStore(),
	}
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	convos := repository.NewConversations(f.store, repository.WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}))
	eng, err := New(convos, Options{
		Scheduler: f.sched,
		OnNotice: func(err error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.notices = append(f.notices, err)
		},
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(eng.Close)
	f.eng = eng
	return f
}

func (f *fixture) mustGet(t *testing.T, id string) models.Conversation {
	t.Helper()
	c, err := f.eng.Get(id)
	if err != nil {
		t.Fatalf("Get(%s) failed: %v", id, err)
	}
	return c
}

func TestSendMessageScenario(t *testing.T) {
	f := newFixture(t)

	if n := len(f.eng.List()); n != 0 {
		t.Fatalf("List() len = %d, want 0", n)
	}
	c, err := f.eng.New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if f.eng.ActiveID() != c.ID {
		t.Errorf("ActiveID() = %q, want %q", f.eng.ActiveID(), c.ID)
	}

	if _, err := f.eng.SendMessage(c.ID, "Hi"); err != nil {
		t.Fatalf("SendMessage() failed: %v", err)
	}
	if got := f.mustGet(t, c.ID); len(got.Messages) != 2 {
		t.Fatalf("messages before delay = %d, want 2", len(got.Messages))
	}
	if !f.eng.Typing(c.ID) {
		t.Error("Typing() = false while reply is pending")
	}

	f.sched.Advance(delay - time.Millisecond)
	if got := f.mustGet(t, c.ID); len(got.Messages) != 2 {
		t.Fatalf("reply landed before the delay elapsed")
	}

	f.sched.Advance(time.Millisecond)
	list := f.eng.List()
	if len(list) != 1 {
		t.Fatalf("List() len = %d, want 1", len(list))
	}
	got := list[0]
	if len(got.Messages) != 3 {
		t.Fatalf("messages after delay = %d, want 3", len(got.Messages))
	}
	if got.Title != "Hi" {
		t.Errorf("Title = %q, want Hi", got.Title)
	}
	senders := []models.Sender{got.Messages[0].Sender, got.Messages[1].Sender, got.Messages[2].Sender}
	want := []models.Sender{models.SenderBot, models.SenderUser, models.SenderBot}
	for i := range want {
		if senders[i] != want[i] {
			t.Errorf("sender[%d] = %s, want %s", i, senders[i], want[i])
		}
	}
	if got.Messages[2].Text != constants.FallbackReply {
		t.Errorf("reply = %q, want fallback", got.Messages[2].Text)
	}
	if f.eng.Typing(c.ID) {
		t.Error("Typing() = true after reply landed")
	}
}

func TestSendMessageCannedReply(t *testing.T) {
	f := newFixture(t)
	c, _ := f.eng.New()

	q := "What are pelvic floor exercises?"
	if _, err := f.eng.SendMessage(c.ID, q); err != nil {
		t.Fatal(err)
	}
	f.sched.Advance(delay)

	got := f.mustGet(t, c.ID)
	last, _ := got.LastMessage()
	if last.Text != responder.Default().Reply(q) {
		t.Errorf("reply = %q, want canned answer", last.Text)
	}
}

func TestSendMessageBlank(t *testing.T) {
	f := newFixture(t)
	c, _ := f.eng.New()

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := f.eng.SendMessage(c.ID, text); !errors.Is(err, apperrors.ErrEmptyInput) {
			t.Errorf("SendMessage(%q) error = %v, want ErrEmptyInput", text, err)
		}
	}

	got := f.mustGet(t, c.ID)
	if len(got.Messages) != 1 || !got.UpdatedAt.Equal(c.UpdatedAt) {
		t.Errorf("blank send mutated conversation: %+v", got)
	}
	if f.eng.Typing(c.ID) || f.sched.Pending() != 0 {
		t.Error("blank send queued a reply")
	}
}

func TestSendMessageNotFound(t *testing.T) {
	f := newFixture(t)
	if _, err := f.eng.SendMessage("missing", "hello"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("SendMessage(missing) error = %v, want ErrNotFound", err)
	}
	if f.sched.Pending() != 0 {
		t.Error("reply queued for missing conversation")
	}
}

func TestRepliesAreSerialized(t *testing.T) {
	f := newFixture(t)
	c, _ := f.eng.New()

	f.eng.SendMessage(c.ID, "first")
	f.eng.SendMessage(c.ID, "second")
	if f.sched.Pending() != 1 {
		t.Fatalf("armed timers = %d, want 1", f.sched.Pending())
	}
	if f.eng.Pending(c.ID) != 2 {
		t.Fatalf("Pending() = %d, want 2", f.eng.Pending(c.ID))
	}

	f.sched.Advance(delay)
	if n := len(f.mustGet(t, c.ID).Messages); n != 4 {
		t.Fatalf("messages after first delay = %d, want 4", n)
	}
	if !f.eng.Typing(c.ID) {
		t.Error("Typing() should stay true while the second reply is queued")
	}

	f.sched.Advance(delay)
	got := f.mustGet(t, c.ID)
	if len(got.Messages) != 5 {
		t.Fatalf("messages after second delay = %d, want 5", len(got.Messages))
	}
	wantSenders := []models.Sender{models.SenderBot, models.SenderUser, models.SenderUser, models.SenderBot, models.SenderBot}
	for i, m := range got.Messages {
		if m.Sender != wantSenders[i] {
			t.Errorf("message %d sender = %s, want %s", i, m.Sender, wantSenders[i])
		}
	}
	if got.Title != "first" {
		t.Errorf("Title = %q, want first", got.Title)
	}
	if f.eng.Typing(c.ID) {
		t.Error("Typing() = true after queue drained")
	}
}

func TestDeleteDropsPendingReply(t *testing.T) {
	f := newFixture(t)
	c, _ := f.eng.New()
	other, _ := f.eng.New()

	f.eng.SendMessage(c.ID, "Hi")
	f.eng.SendMessage(other.ID, "Hello")

	n, err := f.eng.Delete([]string{c.ID})
	if err != nil || n != 1 {
		t.Fatalf("Delete() = %d, %v; want 1, nil", n, err)
	}
	if f.eng.Typing(c.ID) {
		t.Error("Typing() still true for deleted conversation")
	}
	if err := f.eng.WaitIdle(context.Background(), c.ID); err != nil {
		t.Errorf("WaitIdle() after delete = %v", err)
	}

	f.sched.Advance(delay)

	list := f.eng.List()
	if len(list) != 1 || list[0].ID != other.ID {
		t.Fatalf("List() = %+v, want only %s", list, other.ID)
	}
	if len(list[0].Messages) != 3 {
		t.Errorf("surviving conversation has %d messages, want 3", len(list[0].Messages))
	}
	if len(f.notices) != 0 {
		t.Errorf("unexpected notices: %v", f.notices)
	}
}

func TestDeleteActiveClearsPointer(t *testing.T) {
	f := newFixture(t)
	a, _ := f.eng.New()
	b, _ := f.eng.New()

	if err := f.eng.Select(a.ID); err != nil {
		t.Fatal(err)
	}
	f.eng.Delete([]string{b.ID})
	if f.eng.ActiveID() != a.ID {
		t.Errorf("deleting another conversation cleared the pointer")
	}

	f.eng.Delete([]string{a.ID})
	if f.eng.ActiveID() != "" {
		t.Errorf("ActiveID() = %q, want list view", f.eng.ActiveID())
	}
	if _, ok := f.eng.Active(); ok {
		t.Error("Active() reported a conversation after delete")
	}
}

func TestBackKeepsPendingReply(t *testing.T) {
	f := newFixture(t)
	c, _ := f.eng.New()
	f.eng.SendMessage(c.ID, "Hi")

	f.eng.Back()
	if f.eng.ActiveID() != "" {
		t.Fatal("Back() did not return to the list view")
	}
	f.sched.Advance(delay)

	if n := len(f.mustGet(t, c.ID).Messages); n != 3 {
		t.Errorf("messages = %d, want 3", n)
	}
}

func TestSelectUnknown(t *testing.T) {
	f := newFixture(t)
	if err := f.eng.Select("missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Select(missing) error = %v, want ErrNotFound", err)
	}
}

func TestRename(t *testing.T) {
	f := newFixture(t)
	c, _ := f.eng.New()

	if _, err := f.eng.Rename(c.ID, "  "); !errors.Is(err, apperrors.ErrEmptyTitle) {
		t.Errorf("Rename(blank) error = %v, want ErrEmptyTitle", err)
	}
	if _, err := f.eng.Rename("missing", "x"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Rename(missing) error = %v, want ErrNotFound", err)
	}

	long := strings.Repeat("x", 60)
	for i := 0; i < 2; i++ {
		got, err := f.eng.Rename(c.ID, "  "+long+" ")
		if err != nil {
			t.Fatalf("Rename() failed: %v", err)
		}
		if got.Title != long {
			t.Errorf("Title = %q, want untruncated %q", got.Title, long)
		}
	}

	f.eng.SendMessage(c.ID, "this would have been the title")
	if got := f.mustGet(t, c.ID); got.Title != long {
		t.Errorf("send after rename changed title to %q", got.Title)
	}
}

func TestRenameToSentinelStillSticks(t *testing.T) {
	f := newFixture(t)
	c, _ := f.eng.New()

	if _, err := f.eng.Rename(c.ID, constants.DefaultConversationTitle); err != nil {
		t.Fatal(err)
	}
	f.eng.SendMessage(c.ID, "Hi")
	if got := f.mustGet(t, c.ID); got.Title != constants.DefaultConversationTitle {
		t.Errorf("Title = %q, want explicit rename kept", got.Title)
	}
}

func TestReplyWriteFailureIsNoticed(t *testing.T) {
	f := newFixture(t)
	c, _ := f.eng.New()
	f.eng.SendMessage(c.ID, "Hi")

	f.store.FailWrites(errors.New("quota exceeded"))
	f.sched.Advance(delay)

	if len(f.notices) != 1 || !errors.Is(f.notices[0], apperrors.ErrStorageWrite) {
		t.Fatalf("notices = %v, want one ErrStorageWrite", f.notices)
	}
	if n := len(f.mustGet(t, c.ID).Messages); n != 3 {
		t.Errorf("in-memory reply missing: %d messages", n)
	}
}

func TestSendWriteFailureStillReplies(t *testing.T) {
	f := newFixture(t)
	c, _ := f.eng.New()

	f.store.FailWrites(errors.New("read-only"))
	_, err := f.eng.SendMessage(c.ID, "Hi")
	if !errors.Is(err, apperrors.ErrStorageWrite) {
		t.Fatalf("SendMessage() error = %v, want ErrStorageWrite", err)
	}
	f.store.FailWrites(nil)
	f.sched.Advance(delay)

	if n := len(f.mustGet(t, c.ID).Messages); n != 3 {
		t.Errorf("messages = %d, want 3", n)
	}
}

func TestWaitIdleContext(t *testing.T) {
	f := newFixture(t)
	c, _ := f.eng.New()
	f.eng.SendMessage(c.ID, "Hi")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := f.eng.WaitIdle(ctx, c.ID); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitIdle() error = %v, want DeadlineExceeded", err)
	}
}

func TestRealScheduler(t *testing.T) {
	convos := repository.NewConversations(storage.NewMemoryStore())
	eng, err := New(convos, Options{Delay: 5 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()

	c, _ := eng.New()
	if _, err := eng.SendMessage(c.ID, "Hi"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := eng.WaitIdle(ctx, c.ID); err != nil {
		t.Fatalf("WaitIdle() failed: %v", err)
	}
	got, _ := eng.Get(c.ID)
	if len(got.Messages) != 3 {
		t.Errorf("messages = %d, want 3", len(got.Messages))
	}
}

func TestNewRejectsBadDelay(t *testing.T) {
	convos := repository.NewConversations(storage.NewMemoryStore())
	for _, d := range []time.Duration{-time.Second, constants.MaxReplyDelay + time.Second} {
		if _, err := New(convos, Options{Delay: d}); !errors.Is(err, ErrInvalidDelay) {
			t.Errorf("New(delay=%s) error = %v, want ErrInvalidDelay", d, err)
		}
	}
}

func TestEvents(t *testing.T) {
	f := newFixture(t)
	c, _ := f.eng.New()
	f.eng.SendMessage(c.ID, "Hi")
	f.sched.Advance(delay)

	var kinds []EventKind
	for done := false; !done; {
		select {
		case ev := <-f.eng.Events():
			kinds = append(kinds, ev.Kind)
		default:
			done = true
		}
	}

	want := []EventKind{EventCreated, EventMessageAppended, EventTypingChanged, EventMessageAppended, EventTypingChanged}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestClose(t *testing.T) {
	f := newFixture(t)
	c, _ := f.eng.New()
	f.eng.SendMessage(c.ID, "Hi")

	f.eng.Close()
	f.eng.Close()

	if f.sched.Pending() != 0 {
		t.Error("Close() left a timer armed")
	}
	if _, err := f.eng.SendMessage(c.ID, "again"); !errors.Is(err, ErrClosed) {
		t.Errorf("SendMessage() after Close error = %v, want ErrClosed", err)
	}
	if _, ok := <-f.eng.Events(); ok {
		// drain buffered events until closed
		for range f.eng.Events() {
		}
	}
}
