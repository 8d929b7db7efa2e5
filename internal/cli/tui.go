package cli

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/logger"
	"github.com/julianstephens/slotbook/internal/tui"
)

type TuiCmd struct {
	Date    string `help:"Show the week containing this date (YYYY-MM-DD)."`
	Confirm bool   `help:"Ask before saving bookings."`
}

func (c *TuiCmd) Run(ctx *Context) error {
	anchor, err := parseDate(c.Date)
	if err != nil {
		return err
	}

	ctrl, err := ctx.NewController()
	if err != nil {
		return err
	}

	model := tui.NewModel(ctrl, ctx.Saver(), tui.Options{
		Anchor:        anchor,
		ConfirmSubmit: c.Confirm,
	})

	logger.Info("Starting calendar", "week", anchor.Format(constants.DateFormat))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// parseDate parses an optional YYYY-MM-DD flag; empty means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	return time.ParseInLocation(constants.DateFormat, s, time.Local)
}
