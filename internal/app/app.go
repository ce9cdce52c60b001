// Package app assembles the repositories, the conversation engine, the share
// bridge and the deletion workflows around one store handle.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/sutrr/internal/backup"
	"github.com/julianstephens/sutrr/internal/consent"
	"github.com/julianstephens/sutrr/internal/deletion"
	"github.com/julianstephens/sutrr/internal/engine"
	apperrors "github.com/julianstephens/sutrr/internal/errors"
	"github.com/julianstephens/sutrr/internal/logger"
	"github.com/julianstephens/sutrr/internal/models"
	"github.com/julianstephens/sutrr/internal/repository"
	"github.com/julianstephens/sutrr/internal/responder"
	"github.com/julianstephens/sutrr/internal/storage"
)

const noticeBuffer = 16

// Notifier forwards a notice outside the process, e.g. to the tray app
type Notifier interface {
	NotifyContext(ctx context.Context, text string) error
}

// Config configures an App. The zero value is usable.
type Config struct {
	Delay     time.Duration
	Scheduler engine.Scheduler
	Responder responder.Responder
	// Notifier is optional; failures to reach it are logged and ignored
	Notifier Notifier
	// Repository options, used by tests for stable ids and times
	RepositoryOptions []repository.Option
}

type App struct {
	Store           storage.Provider
	Conversations   *repository.Conversations
	Journal         *repository.Journal
	Checkins        *repository.Checkins
	Engine          *engine.Engine
	Consent         *consent.Bridge
	ChatDeletion    *deletion.Workflow
	JournalDeletion *deletion.Workflow

	notifier Notifier
	notices  chan string
	wg       sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// New builds an App over a store that has already been loaded
func New(store storage.Provider, cfg Config) (*App, error) {
	a := &App{
		Store:    store,
		notifier: cfg.Notifier,
		notices:  make(chan string, noticeBuffer),
	}

	a.Conversations = repository.NewConversations(store, cfg.RepositoryOptions...)
	a.Journal = repository.NewJournal(store, cfg.RepositoryOptions...)
	a.Checkins = repository.NewCheckins(store)

	eng, err := engine.New(a.Conversations, engine.Options{
		Delay:     cfg.Delay,
		Scheduler: cfg.Scheduler,
		Responder: cfg.Responder,
		OnNotice:  func(err error) { a.Notice(err) },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start conversation engine: %w", err)
	}
	a.Engine = eng
	a.Consent = consent.NewBridge(eng)
	a.ChatDeletion = deletion.New(eng, eng.IDs)
	a.JournalDeletion = deletion.New(a.Journal, a.Journal.IDs)

	logger.Debug("Application ready",
		"store", store.GetConfigPath(),
		"conversations", a.Conversations.Len(),
		"journal_entries", a.Journal.Len())
	return a, nil
}

// Notices delivers user-facing notice text. Notices are dropped when nobody
// is reading. The channel is closed by Close.
func (a *App) Notices() <-chan string {
	return a.notices
}

// Notice turns err into notice text, publishes it and returns it. Errors
// that should stay silent return "".
func (a *App) Notice(err error) string {
	text := apperrors.Notice(err)
	if text == "" {
		return ""
	}
	logger.Warn("User notice", "notice", text, "error", err)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return text
	}
	select {
	case a.notices <- text:
	default:
	}

	if a.notifier != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := a.notifier.NotifyContext(ctx, text); err != nil {
				logger.Debug("Desktop notice not delivered", "error", err)
			}
		}()
	}
	return text
}

// ShareEntry opens a consent request for the journal entry with id
func (a *App) ShareEntry(id string) (consent.Request, error) {
	entry, err := a.Journal.Get(id)
	if err != nil {
		return consent.Request{}, err
	}
	return a.Consent.RequestEntryShare(entry.ID, entry.Text)
}

// SendAndWait sends text to conversation id and blocks until its reply
// queue drains or ctx is done
func (a *App) SendAndWait(ctx context.Context, id, text string) (models.Conversation, error) {
	if _, err := a.Engine.SendMessage(id, text); err != nil {
		if !errors.Is(err, apperrors.ErrStorageWrite) {
			return models.Conversation{}, err
		}
		a.Notice(err)
	}
	if err := a.Engine.WaitIdle(ctx, id); err != nil {
		return models.Conversation{}, err
	}
	return a.Engine.Get(id)
}

// Backup snapshots an SQLite store. Other backends return ("", nil).
func (a *App) Backup() (string, error) {
	if _, ok := a.Store.(*storage.SQLiteStore); !ok {
		return "", nil
	}
	return backup.NewManager(a.Store.GetConfigPath()).CreateBackup()
}

// PerformAutomaticBackup creates a backup and only logs failures
func (a *App) PerformAutomaticBackup() {
	if path, err := a.Backup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	} else if path != "" {
		logger.Debug("Automatic backup created", "path", path)
	}
}

// Close stops pending replies, waits for in-flight notices and closes the
// Notices channel. The store is left open for the caller to close.
func (a *App) Close() {
	a.Engine.Close()

	a.mu.Lock()
	already := a.closed
	a.closed = true
	a.mu.Unlock()

	a.wg.Wait()
	if !already {
		close(a.notices)
	}
}
