package system

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/sutrr/internal/cli"
	"github.com/julianstephens/sutrr/internal/constants"
	"github.com/julianstephens/sutrr/internal/export"
)

type ExportCmd struct {
	Format string `help:"Export format: json or xlsx. Inferred from --output when omitted."`
	Output string `short:"o" help:"Output file." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	format, output, err := c.resolve(time.Now())
	if err != nil {
		return err
	}

	a, err := ctx.App()
	if err != nil {
		return err
	}
	snap := export.NewSnapshot(a.Engine.List(), a.Journal.List(), a.Checkins.Values(), time.Now())

	if err := export.ToFile(output, format, snap); err != nil {
		return err
	}
	fmt.Printf("✓ Exported %d conversation(s) and %d journal entries to %s\n",
		len(snap.Conversations), len(snap.JournalEntries), output)
	return nil
}

// resolve fills in whichever of format and output was left out
func (c *ExportCmd) resolve(now time.Time) (export.Format, string, error) {
	format := export.FormatJSON
	if c.Format != "" {
		f, err := export.ParseFormat(c.Format)
		if err != nil {
			return "", "", err
		}
		format = f
	} else if c.Output != "" {
		if f, err := export.ParseFormat(strings.TrimPrefix(filepath.Ext(c.Output), ".")); err == nil {
			format = f
		}
	}

	output := c.Output
	if output == "" {
		output = fmt.Sprintf("%s-export-%s.%s", constants.AppName, now.Format("20060102-150405"), format)
	}
	return format, output, nil
}
