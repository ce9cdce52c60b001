package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/julianstephens/sutrr/internal/cli"
	apperrors "github.com/julianstephens/sutrr/internal/errors"
	"github.com/julianstephens/sutrr/internal/storage"
)

type DebugCmd struct {
	DBPath           *DebugDBPathCmd           `cmd:"" help:"Show database path."`
	Keys             *DebugKeysCmd             `cmd:"" help:"List stored keys and their sizes."`
	Dump             *DebugDumpCmd             `cmd:"" help:"Dump the raw JSON stored under a key."`
	DumpConversation *DebugDumpConversationCmd `cmd:"" help:"Dump a conversation as JSON."`
	DumpEntry        *DebugDumpEntryCmd        `cmd:"" help:"Dump a journal entry as JSON."`
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugKeysCmd struct{}

func (cmd *DebugKeysCmd) Run(ctx *cli.Context) error {
	keys, err := ctx.Store.Keys()
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	sort.Strings(keys)

	sizes := make(map[string]int, len(keys))
	for _, k := range keys {
		v, err := ctx.Store.Get(k)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", k, err)
		}
		sizes[k] = len(v)
	}
	return printJSON(sizes)
}

type DebugDumpCmd struct {
	Key string `arg:"" help:"Key to dump."`
}

func (cmd *DebugDumpCmd) Run(ctx *cli.Context) error {
	raw, err := storage.ReadJSON[json.RawMessage](ctx.Store, cmd.Key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return fmt.Errorf("key not found: %s", cmd.Key)
		}
		return err
	}
	return printJSON(raw)
}

type DebugDumpConversationCmd struct {
	ID string `arg:"" help:"ID of the conversation to dump."`
}

func (cmd *DebugDumpConversationCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	c, err := a.Conversations.Get(cmd.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("conversation not found: %s", cmd.ID)
		}
		return err
	}
	return printJSON(c)
}

type DebugDumpEntryCmd struct {
	ID string `arg:"" help:"ID of the journal entry to dump."`
}

func (cmd *DebugDumpEntryCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	e, err := a.Journal.Get(cmd.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("journal entry not found: %s", cmd.ID)
		}
		return err
	}
	return printJSON(e)
}
