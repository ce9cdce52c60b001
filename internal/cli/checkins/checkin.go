package checkins

import (
	"errors"
	"fmt"

	"github.com/julianstephens/sutrr/internal/cli"
	apperrors "github.com/julianstephens/sutrr/internal/errors"
	"github.com/julianstephens/sutrr/internal/models"
)

type CheckinCmd struct {
	Log  CheckinLogCmd  `cmd:"" help:"Log a check-in value (mood 1-5, energy 0-100, cycle 0-3)."`
	Show CheckinShowCmd `cmd:"" help:"Show the latest check-in values." default:"1"`
}

type CheckinLogCmd struct {
	Category string `arg:"" help:"Category: mood, energy or cycle."`
	Value    int    `arg:"" help:"Value within the category's range."`
}

func (c *CheckinLogCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}

	if err := a.Checkins.Log(c.Category, c.Value); err != nil {
		if !errors.Is(err, apperrors.ErrStorageWrite) {
			return err
		}
		ctx.Notice(err)
	}

	cat, _ := models.ValidateCheckin(c.Category, c.Value)
	fmt.Printf("Logged %s: %s\n", cat.Name, cat.Label(c.Value))
	return nil
}

type CheckinShowCmd struct{}

func (c *CheckinShowCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}

	values := a.Checkins.Values()
	if len(values) == 0 {
		fmt.Println("No check-ins logged yet.")
		return nil
	}
	for _, name := range models.CategoryNames() {
		v, ok := values[name]
		if !ok {
			continue
		}
		fmt.Printf("%-8s %s\n", name, models.CheckinCategories[name].Label(v))
	}
	return nil
}
