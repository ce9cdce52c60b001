package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/sutrr/internal/cli"
	"github.com/julianstephens/sutrr/internal/constants"
	apperrors "github.com/julianstephens/sutrr/internal/errors"
	"github.com/julianstephens/sutrr/internal/logger"
	"github.com/julianstephens/sutrr/internal/models"
)

type JournalCmd struct {
	Add    JournalAddCmd    `cmd:"" help:"Write a journal entry."`
	List   JournalListCmd   `cmd:"" help:"List journal entries, newest first."`
	Show   JournalShowCmd   `cmd:"" help:"Show a journal entry."`
	Edit   JournalEditCmd   `cmd:"" help:"Replace the text of a journal entry."`
	Delete JournalDeleteCmd `cmd:"" help:"Delete journal entries."`
	Share  JournalShareCmd  `cmd:"" help:"Share an entry with the AI buddy (asks for consent)."`
}

func resolve(ctx *cli.Context, ref string) (string, error) {
	a, err := ctx.App()
	if err != nil {
		return "", err
	}
	id, err := cli.ResolveID(a.Journal.IDs(), ref)
	if err != nil {
		return "", fmt.Errorf("journal entry %w", err)
	}
	return id, nil
}

// report prints the notice for a tolerated write failure and returns every
// other error
func report(ctx *cli.Context, err error, action string) error {
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrStorageWrite) {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	ctx.Notice(err)
	return nil
}

type JournalAddCmd struct {
	Text string `arg:"" help:"Entry text."`
	Mood string `help:"Mood: Happy, Neutral or Sad." default:"Neutral"`
}

func (c *JournalAddCmd) Run(ctx *cli.Context) error {
	mood, err := models.ParseMood(c.Mood)
	if err != nil {
		return err
	}
	a, err := ctx.App()
	if err != nil {
		return err
	}

	entry, err := a.Journal.Create(c.Text, mood)
	if err := report(ctx, err, "save entry"); err != nil {
		return err
	}
	fmt.Printf("Saved entry %s %s\n", cli.ShortID(entry.ID), entry.Mood.Emoji())
	return nil
}

type JournalListCmd struct {
	Mood string `help:"Only show entries with this mood."`
}

func (c *JournalListCmd) Run(ctx *cli.Context) error {
	var filter models.Mood
	if c.Mood != "" {
		m, err := models.ParseMood(c.Mood)
		if err != nil {
			return err
		}
		filter = m
	}

	a, err := ctx.App()
	if err != nil {
		return err
	}

	shown := 0
	for _, e := range a.Journal.List() {
		if filter != "" && e.Mood != filter {
			continue
		}
		fmt.Printf("%s  %s  %s %-7s  %s\n",
			cli.ShortID(e.ID),
			cli.FormatTime(e.Date),
			e.Mood.Emoji(), e.Mood,
			cli.Excerpt(e.Text, 60))
		shown++
	}
	if shown == 0 {
		fmt.Printf("No journal entries yet. Write one with '%s journal add'.\n", constants.AppName)
	}
	return nil
}

type JournalShowCmd struct {
	ID string `arg:"" help:"Entry ID (or a unique part of it)."`
}

func (c *JournalShowCmd) Run(ctx *cli.Context) error {
	id, err := resolve(ctx, c.ID)
	if err != nil {
		return err
	}
	a, _ := ctx.App()
	e, err := a.Journal.Get(id)
	if err != nil {
		return err
	}

	fmt.Printf("%s  %s %s\n\n%s\n", e.Date.Local().Format("Monday, January 2, 2006 15:04"), e.Mood.Emoji(), e.Mood, e.Text)
	return nil
}

type JournalEditCmd struct {
	ID   string `arg:"" help:"Entry ID (or a unique part of it)."`
	Text string `arg:"" optional:"" help:"New entry text."`
	Mood string `help:"New mood."`
}

func (c *JournalEditCmd) Run(ctx *cli.Context) error {
	if c.Text == "" && c.Mood == "" {
		return errors.New("nothing to change: pass new text and/or --mood")
	}
	id, err := resolve(ctx, c.ID)
	if err != nil {
		return err
	}
	a, _ := ctx.App()

	if c.Mood != "" {
		mood, err := models.ParseMood(c.Mood)
		if err != nil {
			return err
		}
		_, err = a.Journal.SetMood(id, mood)
		if err := report(ctx, err, "update mood"); err != nil {
			return err
		}
	}
	if c.Text != "" {
		_, err := a.Journal.Edit(id, c.Text)
		if err := report(ctx, err, "update entry"); err != nil {
			return err
		}
	}

	fmt.Printf("Updated entry %s\n", cli.ShortID(id))
	return nil
}

type JournalDeleteCmd struct {
	IDs []string `arg:"" optional:"" help:"Entry IDs (or unique parts of them)."`
	All bool     `help:"Delete every entry."`
	Yes bool     `short:"y" help:"Delete without asking."`
}

func (c *JournalDeleteCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	wf := a.JournalDeletion

	if c.All {
		if _, err := wf.RequestDeleteAll(); err != nil {
			return err
		}
	} else {
		ids := make([]string, 0, len(c.IDs))
		for _, ref := range c.IDs {
			id, err := resolve(ctx, ref)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		if _, err := wf.RequestDelete(ids); err != nil {
			return err
		}
	}

	req, _ := wf.Pending()
	ok, err := ctx.Confirm(c.Yes, req.Prompt("entry"), "")
	if err != nil || !ok {
		_ = wf.Cancel()
		if err == nil {
			fmt.Println("Delete cancelled.")
		}
		return err
	}

	n, err := wf.Confirm()
	if err := report(ctx, err, "delete entries"); err != nil {
		return err
	}
	noun := "entries"
	if n == 1 {
		noun = "entry"
	}
	fmt.Printf("Deleted %d %s\n", n, noun)
	return nil
}

type JournalShareCmd struct {
	ID  string `arg:"" help:"Entry ID (or a unique part of it)."`
	Yes bool   `short:"y" help:"Consent without asking."`
}

func (c *JournalShareCmd) Run(ctx *cli.Context) error {
	id, err := resolve(ctx, c.ID)
	if err != nil {
		return err
	}
	a, _ := ctx.App()

	req, err := a.ShareEntry(id)
	if err != nil {
		return err
	}

	description := fmt.Sprintf("%q\n\n%s", req.Preview, req.Purpose)
	ok, err := ctx.Confirm(c.Yes, "Share this entry with your AI buddy?", description)
	if err != nil || !ok {
		a.Consent.CancelShare(req.Token)
		if err == nil {
			fmt.Println("Nothing was shared.")
		}
		return err
	}

	convo, err := a.Consent.ConfirmShare(req.Token)
	if err := report(ctx, err, "share entry"); err != nil {
		return err
	}

	// let the buddy's reply land before the process exits
	waitCtx, cancel := context.WithTimeout(context.Background(), ctx.ReplyTimeout())
	defer cancel()
	if err := a.Engine.WaitIdle(waitCtx, convo.ID); err != nil {
		logger.Warn("Reply to shared entry still pending", "conversation", convo.ID, "error", err)
	}
	fmt.Printf("Started conversation %s from your entry.\n", cli.ShortID(convo.ID))
	fmt.Printf("Continue with: %s chat show %s\n", constants.AppName, cli.ShortID(convo.ID))
	return nil
}
