package repository

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/sutrr/internal/constants"
	apperrors "github.com/julianstephens/sutrr/internal/errors"
	"github.com/julianstephens/sutrr/internal/models"
	"github.com/julianstephens/sutrr/internal/storage"
)

// testOpts returns a ticking clock and sequential ids so ordering is deterministic
func testOpts() []Option {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	seq := 0
	return []Option{
		WithClock(func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Minute)
		}),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%03d", seq)
		}),
	}
}

func TestConversationsCreate(t *testing.T) {
	p := storage.NewMemoryStore()
	repo := NewConversations(p, testOpts()...)

	c, err := repo.Create()
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if c.Title != constants.DefaultConversationTitle {
		t.Errorf("Title = %q, want %q", c.Title, constants.DefaultConversationTitle)
	}
	if len(c.Messages) != 1 || c.Messages[0].Sender != models.SenderBot || c.Messages[0].Text != constants.GreetingMessage {
		t.Errorf("Messages = %+v, want single greeting", c.Messages)
	}

	reloaded := NewConversations(p)
	if reloaded.Len() != 1 {
		t.Fatalf("reloaded Len() = %d, want 1", reloaded.Len())
	}
	got, err := reloaded.Get(c.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if !reflect.DeepEqual(got, c) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, c)
	}
}

func TestConversationsListOrder(t *testing.T) {
	repo := NewConversations(storage.NewMemoryStore(), testOpts()...)

	a, _ := repo.Create()
	b, _ := repo.Create()
	if _, err := repo.Append(a.ID, "hello", models.SenderUser); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	list := repo.List()
	if len(list) != 2 {
		t.Fatalf("List() len = %d, want 2", len(list))
	}
	if list[0].ID != a.ID || list[1].ID != b.ID {
		t.Errorf("List() order = [%s %s], want [%s %s]", list[0].ID, list[1].ID, a.ID, b.ID)
	}
}

func TestConversationsAutoTitle(t *testing.T) {
	repo := NewConversations(storage.NewMemoryStore(), testOpts()...)
	c, _ := repo.Create()

	long := strings.Repeat("abcdefghij", 5)
	c, err := repo.Append(c.ID, long, models.SenderUser)
	if err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	if c.Title != long[:40] {
		t.Errorf("Title = %q, want %q", c.Title, long[:40])
	}

	c, _ = repo.Append(c.ID, "second message", models.SenderUser)
	if c.Title != long[:40] {
		t.Errorf("second message changed title to %q", c.Title)
	}
}

func TestConversationsReturnsCopies(t *testing.T) {
	repo := NewConversations(storage.NewMemoryStore(), testOpts()...)
	c, _ := repo.Create()

	c.Messages[0].Text = "tampered"
	c.Title = "tampered"

	got, _ := repo.Get(c.ID)
	if got.Title == "tampered" || got.Messages[0].Text == "tampered" {
		t.Error("mutating a returned conversation changed repository state")
	}
}

func TestConversationsUpdateNotFound(t *testing.T) {
	repo := NewConversations(storage.NewMemoryStore(), testOpts()...)
	_, err := repo.Update("missing", func(*models.Conversation) error { return nil })
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}
}

func TestConversationsUpdateMutationError(t *testing.T) {
	repo := NewConversations(storage.NewMemoryStore(), testOpts()...)
	c, _ := repo.Create()

	boom := errors.New("boom")
	_, err := repo.Update(c.ID, func(c *models.Conversation) error {
		c.Title = "changed"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want boom", err)
	}
	got, _ := repo.Get(c.ID)
	if got.Title != constants.DefaultConversationTitle {
		t.Errorf("failed mutation was applied: title %q", got.Title)
	}
}

func TestConversationsDelete(t *testing.T) {
	p := storage.NewMemoryStore()
	repo := NewConversations(p, testOpts()...)
	a, _ := repo.Create()
	b, _ := repo.Create()
	c, _ := repo.Create()

	n, err := repo.Delete([]string{a.ID, c.ID, "unknown"})
	if err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Delete() = %d, want 2", n)
	}
	if ids := repo.IDs(); len(ids) != 1 || ids[0] != b.ID {
		t.Errorf("IDs() = %v, want [%s]", ids, b.ID)
	}

	n, err = repo.Delete([]string{a.ID})
	if err != nil || n != 0 {
		t.Errorf("Delete(already deleted) = %d, %v; want 0, nil", n, err)
	}

	if NewConversations(p).Len() != 1 {
		t.Error("deletion was not persisted")
	}
}

func TestConversationsWriteFailureKeepsState(t *testing.T) {
	p := storage.NewMemoryStore()
	repo := NewConversations(p, testOpts()...)
	c, _ := repo.Create()

	p.FailWrites(errors.New("disk full"))
	got, err := repo.Append(c.ID, "Hi", models.SenderUser)
	if !errors.Is(err, apperrors.ErrStorageWrite) {
		t.Fatalf("Append() error = %v, want ErrStorageWrite", err)
	}
	if len(got.Messages) != 2 {
		t.Errorf("returned conversation has %d messages, want 2", len(got.Messages))
	}
	current, _ := repo.Get(c.ID)
	if len(current.Messages) != 2 {
		t.Errorf("in-memory conversation has %d messages, want 2", len(current.Messages))
	}
}

func TestConversationsMalformedStore(t *testing.T) {
	p := storage.NewMemoryStore()
	if err := p.Set(constants.KeyConversations, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	if n := NewConversations(p).Len(); n != 0 {
		t.Errorf("Len() = %d, want 0 for malformed store", n)
	}

	// an entry without messages breaks the invariant and is skipped
	if err := p.Set(constants.KeyConversations, []byte(`[{"id":"a","title":"x","messages":[]},{"id":"b","title":"y","messages":[{"text":"hi","sender":"bot"}]}]`)); err != nil {
		t.Fatal(err)
	}
	repo := NewConversations(p)
	if ids := repo.IDs(); len(ids) != 1 || ids[0] != "b" {
		t.Errorf("IDs() = %v, want [b]", ids)
	}
}

func TestJournalCreate(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		mood     models.Mood
		wantErr  error
		wantText string
		wantMood models.Mood
	}{
		{name: "whitespace rejected", text: "   ", wantErr: apperrors.ErrEmptyInput},
		{name: "empty rejected", text: "", wantErr: apperrors.ErrEmptyInput},
		{name: "default mood", text: "Feeling okay today", wantText: "Feeling okay today", wantMood: models.MoodNeutral},
		{name: "trimmed", text: "  rested \n", mood: models.MoodHappy, wantText: "rested", wantMood: models.MoodHappy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewJournal(storage.NewMemoryStore(), testOpts()...)
			e, err := repo.Create(tt.text, tt.mood)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
				}
				if repo.Len() != 0 {
					t.Error("rejected entry was stored")
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() failed: %v", err)
			}
			if e.Text != tt.wantText || e.Mood != tt.wantMood {
				t.Errorf("Create() = %+v, want text %q mood %s", e, tt.wantText, tt.wantMood)
			}
		})
	}
}

func TestJournalCreateInvalidMood(t *testing.T) {
	repo := NewJournal(storage.NewMemoryStore(), testOpts()...)
	if _, err := repo.Create("text", models.Mood("Ecstatic")); err == nil {
		t.Error("Create() with unknown mood should fail")
	}
}

func TestJournalListNewestFirst(t *testing.T) {
	repo := NewJournal(storage.NewMemoryStore(), testOpts()...)
	if _, err := repo.Create("first", ""); err != nil {
		t.Fatal(err)
	}
	latest, err := repo.Create("Feeling okay today", "")
	if err != nil {
		t.Fatal(err)
	}

	list := repo.List()
	if len(list) != 2 || list[0].ID != latest.ID {
		t.Errorf("List() head = %+v, want %s", list, latest.ID)
	}
}

func TestJournalEdit(t *testing.T) {
	repo := NewJournal(storage.NewMemoryStore(), testOpts()...)
	e, _ := repo.Create("original", models.MoodSad)

	if _, err := repo.Edit(e.ID, "  "); !errors.Is(err, apperrors.ErrEmptyInput) {
		t.Errorf("Edit(blank) error = %v, want ErrEmptyInput", err)
	}
	if _, err := repo.Edit("missing", "text"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Edit(missing) error = %v, want ErrNotFound", err)
	}

	edited, err := repo.Edit(e.ID, " revised ")
	if err != nil {
		t.Fatalf("Edit() failed: %v", err)
	}
	if edited.Text != "revised" || !edited.Date.Equal(e.Date) || edited.Mood != models.MoodSad {
		t.Errorf("Edit() = %+v", edited)
	}

	moodChanged, err := repo.SetMood(e.ID, models.MoodHappy)
	if err != nil {
		t.Fatalf("SetMood() failed: %v", err)
	}
	if moodChanged.Mood != models.MoodHappy {
		t.Errorf("SetMood() mood = %s, want Happy", moodChanged.Mood)
	}
}

func TestJournalDelete(t *testing.T) {
	p := storage.NewMemoryStore()
	repo := NewJournal(p, testOpts()...)
	a, _ := repo.Create("a", "")
	b, _ := repo.Create("b", "")

	n, err := repo.Delete([]string{a.ID, b.ID})
	if err != nil || n != 2 {
		t.Fatalf("Delete() = %d, %v; want 2, nil", n, err)
	}
	if NewJournal(p).Len() != 0 {
		t.Error("deletion was not persisted")
	}
}

func TestCheckins(t *testing.T) {
	p := storage.NewMemoryStore()
	repo := NewCheckins(p)

	if err := repo.Log(constants.CheckinMood, 4); err != nil {
		t.Fatalf("Log(mood) failed: %v", err)
	}
	if err := repo.Log(constants.CheckinEnergy, 70); err != nil {
		t.Fatalf("Log(energy) failed: %v", err)
	}
	if err := repo.Log(constants.CheckinEnergy, 55); err != nil {
		t.Fatalf("Log(energy) overwrite failed: %v", err)
	}
	if err := repo.Log(constants.CheckinMood, 9); err == nil {
		t.Error("Log(mood, 9) should fail")
	}
	if err := repo.Log("sleep", 1); err == nil {
		t.Error("Log(unknown) should fail")
	}

	want := models.CheckinValues{constants.CheckinMood: 4, constants.CheckinEnergy: 55}
	if got := NewCheckins(p).Values(); !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}
}

func TestFirstVisitSeen(t *testing.T) {
	p := storage.NewMemoryStore()
	repo := NewCheckins(p)

	if repo.FirstVisitSeen() {
		t.Fatal("FirstVisitSeen() = true on a fresh store")
	}
	if err := repo.MarkFirstVisitSeen(); err != nil {
		t.Fatalf("MarkFirstVisitSeen() failed: %v", err)
	}
	if !NewCheckins(p).FirstVisitSeen() {
		t.Error("flag was not persisted")
	}
}
