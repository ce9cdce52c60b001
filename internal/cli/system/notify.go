package system

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/sutrr/internal/app"
	"github.com/julianstephens/sutrr/internal/cli"
	"github.com/julianstephens/sutrr/internal/notifier"
)

const checkinReminder = "How are you feeling today? Take a moment to check in."

type NotifyCmd struct {
	Text    string        `arg:"" optional:"" help:"Notice text. Defaults to a check-in reminder."`
	DryRun  bool          `help:"Print the notice to stdout instead of sending it."`
	Timeout time.Duration `help:"Give up after this long." default:"5s"`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	text := strings.TrimSpace(c.Text)
	if text == "" {
		text = checkinReminder
	}

	if c.DryRun {
		fmt.Println("[DryRun] " + text)
		return nil
	}

	var n app.Notifier = ctx.Notifier
	if n == nil {
		n = notifier.New()
	}

	sendCtx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()
	if err := n.NotifyContext(sendCtx, text); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}
