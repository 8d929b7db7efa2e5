package cli

import (
	"github.com/julianstephens/slotbook/internal/checkout"
	"github.com/julianstephens/slotbook/internal/timegrid"
	"github.com/julianstephens/slotbook/internal/week"
)

// WeekCmd prints a week and its blocked periods without the TUI.
type WeekCmd struct {
	Date   string `help:"Any date in the week (YYYY-MM-DD)."`
	Height int    `help:"Column height used for offsets." default:"700"`
}

func (c *WeekCmd) Run(ctx *Context) error {
	anchor, err := parseDate(c.Date)
	if err != nil {
		return err
	}
	ctrl, err := ctx.NewController()
	if err != nil {
		return err
	}

	layout := week.Render(anchor, ctrl, float64(c.Height))
	state := ctrl.State()

	ctx.println(layout.RangeLabel)
	ctx.println()
	for _, day := range layout.Columns {
		blocked := state.Blocked(day.ISO())
		if len(blocked) == 0 {
			ctx.printf("  %-10s  %s\n", day.Header(), "open")
			continue
		}
		for i, iv := range blocked {
			header := ""
			if i == 0 {
				header = day.Header()
			}
			ctx.printf("  %-10s  blocked %s\n", header, timegrid.FormatRange(iv.Start, iv.End))
		}
	}
	ctx.println()
	ctx.println(checkout.Describe(checkout.Build(state)))
	return nil
}
