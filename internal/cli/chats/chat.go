package chats

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/sutrr/internal/cli"
	"github.com/julianstephens/sutrr/internal/constants"
	apperrors "github.com/julianstephens/sutrr/internal/errors"
	"github.com/julianstephens/sutrr/internal/models"
)

type ChatCmd struct {
	New    ChatNewCmd    `cmd:"" help:"Start a new conversation."`
	List   ChatListCmd   `cmd:"" help:"List conversations, most recent first."`
	Show   ChatShowCmd   `cmd:"" help:"Show the messages of a conversation."`
	Send   ChatSendCmd   `cmd:"" help:"Send a message and wait for the reply."`
	Rename ChatRenameCmd `cmd:"" help:"Rename a conversation."`
	Delete ChatDeleteCmd `cmd:"" help:"Delete conversations."`
	Clear  ChatClearCmd  `cmd:"" help:"Delete every conversation."`
}

func resolve(ctx *cli.Context, ref string) (string, error) {
	a, err := ctx.App()
	if err != nil {
		return "", err
	}
	id, err := cli.ResolveID(a.Engine.IDs(), ref)
	if err != nil {
		return "", fmt.Errorf("conversation %w", err)
	}
	return id, nil
}

type ChatNewCmd struct {
	Message string `arg:"" optional:"" help:"Optional first message."`
}

func (c *ChatNewCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}

	convo, err := a.Engine.New()
	if err != nil {
		if !errors.Is(err, apperrors.ErrStorageWrite) {
			return fmt.Errorf("failed to start conversation: %w", err)
		}
		ctx.Notice(err)
	}
	fmt.Printf("Started conversation %s\n", cli.ShortID(convo.ID))

	if c.Message == "" {
		printMessages(convo)
		return nil
	}
	return send(ctx, convo.ID, c.Message)
}

type ChatListCmd struct{}

func (c *ChatListCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}

	convos := a.Engine.List()
	if len(convos) == 0 {
		fmt.Printf("No conversations yet. Start one with '%s chat new'.\n", constants.AppName)
		return nil
	}

	for _, convo := range convos {
		last, _ := convo.LastMessage()
		fmt.Printf("%s  %s  %-40s  %s\n",
			cli.ShortID(convo.ID),
			cli.FormatTime(convo.UpdatedAt),
			cli.Excerpt(convo.Title, constants.MaxTitleLength),
			cli.Excerpt(last.Text, 50))
	}
	return nil
}

type ChatShowCmd struct {
	ID string `arg:"" help:"Conversation ID (or a unique part of it)."`
}

func (c *ChatShowCmd) Run(ctx *cli.Context) error {
	id, err := resolve(ctx, c.ID)
	if err != nil {
		return err
	}
	a, _ := ctx.App()
	convo, err := a.Engine.Get(id)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", convo.Title, cli.ShortID(convo.ID))
	fmt.Println(constants.MedicalDisclaimer)
	fmt.Println()
	printMessages(convo)
	return nil
}

type ChatSendCmd struct {
	ID   string `arg:"" help:"Conversation ID (or a unique part of it)."`
	Text string `arg:"" help:"Message text."`
}

func (c *ChatSendCmd) Run(ctx *cli.Context) error {
	id, err := resolve(ctx, c.ID)
	if err != nil {
		return err
	}
	return send(ctx, id, c.Text)
}

func send(ctx *cli.Context, id, text string) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(context.Background(), ctx.ReplyTimeout())
	defer cancel()

	before, err := a.Engine.Get(id)
	if err != nil {
		return err
	}
	convo, err := a.SendAndWait(waitCtx, id, text)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	for _, m := range convo.Messages[len(before.Messages):] {
		printMessage(m)
	}
	return nil
}

type ChatRenameCmd struct {
	ID    string `arg:"" help:"Conversation ID (or a unique part of it)."`
	Title string `arg:"" help:"New title."`
}

func (c *ChatRenameCmd) Run(ctx *cli.Context) error {
	id, err := resolve(ctx, c.ID)
	if err != nil {
		return err
	}
	a, _ := ctx.App()

	convo, err := a.Engine.Rename(id, c.Title)
	if err != nil {
		if !errors.Is(err, apperrors.ErrStorageWrite) {
			return fmt.Errorf("failed to rename conversation: %w", err)
		}
		ctx.Notice(err)
	}
	fmt.Printf("Renamed conversation %s to %q\n", cli.ShortID(convo.ID), convo.Title)
	return nil
}

type ChatDeleteCmd struct {
	IDs []string `arg:"" help:"Conversation IDs (or unique parts of them)."`
	Yes bool     `short:"y" help:"Delete without asking."`
}

func (c *ChatDeleteCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(c.IDs))
	for _, ref := range c.IDs {
		id, err := resolve(ctx, ref)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	req, err := a.ChatDeletion.RequestDelete(ids)
	if err != nil {
		return err
	}
	return confirmDelete(ctx, c.Yes, req.Prompt("conversation"))
}

type ChatClearCmd struct {
	Yes bool `short:"y" help:"Delete without asking."`
}

func (c *ChatClearCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}

	req, err := a.ChatDeletion.RequestDeleteAll()
	if err != nil {
		return fmt.Errorf("no conversations to delete: %w", err)
	}
	return confirmDelete(ctx, c.Yes, req.Prompt("conversation"))
}

func confirmDelete(ctx *cli.Context, yes bool, prompt string) error {
	a, _ := ctx.App()

	ok, err := ctx.Confirm(yes, prompt, "")
	if err != nil {
		_ = a.ChatDeletion.Cancel()
		return err
	}
	if !ok {
		_ = a.ChatDeletion.Cancel()
		fmt.Println("Delete cancelled.")
		return nil
	}

	n, err := a.ChatDeletion.Confirm()
	if err != nil {
		if !errors.Is(err, apperrors.ErrStorageWrite) {
			return fmt.Errorf("failed to delete conversations: %w", err)
		}
		ctx.Notice(err)
	}
	fmt.Printf("Deleted %d conversation(s)\n", n)
	return nil
}

func printMessages(convo models.Conversation) {
	for _, m := range convo.Messages {
		printMessage(m)
	}
}

func printMessage(m models.Message) {
	who := "You"
	if m.Sender == models.SenderBot {
		who = "Buddy"
	}
	fmt.Printf("[%s] %s: %s\n", m.Time.Local().Format("15:04"), who, m.Text)
}
