package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sutrr/internal/app"
	"github.com/julianstephens/sutrr/internal/constants"
	"github.com/julianstephens/sutrr/internal/logger"
	"github.com/julianstephens/sutrr/internal/storage"
)

const (
	// shortIDLength is the number of trailing id characters shown in lists
	shortIDLength = 8
	// replySlack is how much longer than the reply delay a command waits
	replySlack = 5 * time.Second
)

type Context struct {
	Store storage.Provider
	// Delay overrides the reply delay; zero keeps the default
	Delay time.Duration
	// Notifier receives notices raised while a command waits; optional
	Notifier app.Notifier
	// Prompt asks a yes/no question. Nil uses an interactive huh confirm.
	Prompt func(title, description string) (bool, error)
	// Stderr receives notices; nil means os.Stderr
	Stderr io.Writer

	app *app.App
}

// App builds the application over Store on first use
func (c *Context) App() (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	a, err := app.New(c.Store, app.Config{Delay: c.Delay, Notifier: c.Notifier})
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

// Notice publishes a tolerated error through the App and prints its notice
// text to Stderr
func (c *Context) Notice(err error) {
	a, aerr := c.App()
	if aerr != nil {
		logger.Warn("Notice dropped", "error", err)
		return
	}
	text := a.Notice(err)
	if text == "" {
		return
	}
	w := c.Stderr
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintln(w, text)
}

// ReplyTimeout bounds how long a command waits for pending replies
func (c *Context) ReplyTimeout() time.Duration {
	if c.Delay > 0 {
		return c.Delay + replySlack
	}
	return constants.DefaultReplyDelay + replySlack
}

// Close stops the application, if one was built
func (c *Context) Close() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
}

// Confirm asks before a destructive action. yes skips the question.
func (c *Context) Confirm(yes bool, title, description string) (bool, error) {
	if yes {
		return true, nil
	}
	if c.Prompt != nil {
		return c.Prompt(title, description)
	}

	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("confirmation prompt failed (use --yes to skip it): %w", err)
	}
	return ok, nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	a, err := c.App()
	if err != nil {
		logger.Warn("Automatic backup skipped", "error", err)
		return
	}
	a.PerformAutomaticBackup()
}

// ShortID returns the random tail of an id for display
func ShortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[len(id)-shortIDLength:]
}

// ResolveID matches ref against ids: a full id, or a unique prefix or suffix
func ResolveID(ids []string, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.New("id cannot be empty")
	}

	var matches []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) || strings.HasSuffix(id, ref) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no match for %q", ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q is ambiguous (%d matches)", ref, len(matches))
	}
}

// FormatTime renders a stored time in the local zone
func FormatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// Excerpt flattens text to one line of at most n runes
func Excerpt(text string, n int) string {
	flat := strings.Join(strings.Fields(text), " ")
	r := []rune(flat)
	if len(r) <= n {
		return flat
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
