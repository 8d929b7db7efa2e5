package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/slotbook/internal/checkout"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/submit"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Results arrive regardless of what the user is doing meanwhile.
	if msg, ok := msg.(submitResultMsg); ok {
		return m.handleSubmitResult(msg)
	}
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.resize(msg.Width, msg.Height)
		return m, nil
	}

	switch m.state {
	case StateGoTo, StateConfirmSubmit:
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Cancel):
			m.apply(m.controller.Cancel())
			m.pending = ""
		case key.Matches(msg, m.keys.NextWeek):
			m.anchor = m.layout.Week.Next().Anchor
			m.relayout()
		case key.Matches(msg, m.keys.PrevWeek):
			m.anchor = m.layout.Week.Prev().Anchor
			m.relayout()
		case key.Matches(msg, m.keys.Today):
			m.anchor = m.opts.Clock()
			m.relayout()
		case key.Matches(msg, m.keys.GoTo):
			return m.openGoTo()
		case key.Matches(msg, m.keys.Up):
			m.checkout.CursorUp()
		case key.Matches(msg, m.keys.Down):
			m.checkout.CursorDown()
		case key.Matches(msg, m.keys.Remove):
			if item, ok := m.checkout.Selected(); ok {
				m.apply(checkout.Remove(m.controller.State(), item.ID))
			}
		case key.Matches(msg, m.keys.Submit):
			return m.startSubmit()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	height := m.geo.Height()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		col, row, ok := m.geo.Hit(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		date := m.layout.Columns[col].ISO()
		offset := m.geo.OffsetAt(msg.Y)
		now := m.opts.Clock()

		last := m.lastPress
		if last.date == date && last.row == row && now.Sub(last.at) <= constants.DoubleClickWindow {
			m.doubleClick = &press{date: date, row: row, offset: offset, at: now}
			m.lastPress = press{}
		} else {
			m.doubleClick = nil
			m.lastPress = press{date: date, row: row, offset: offset, at: now}
		}

		m.apply(m.controller.Press(date, offset, height))

	case tea.MouseActionMotion:
		// Leaving the pressed row turns the press into a drag.
		row := msg.Y - m.geo.Top
		if row != m.lastPress.row {
			m.lastPress = press{}
		}
		if dc := m.doubleClick; dc != nil && row != dc.row {
			m.doubleClick = nil
		}
		if date, ok := m.controller.Dragging(); ok {
			m.apply(m.controller.Move(date, m.geo.OffsetAt(msg.Y), height))
		}

	case tea.MouseActionRelease:
		if date, ok := m.controller.Dragging(); ok {
			m.apply(m.controller.Release(date, height))
			m.pending = ""
		}
		// The double click fires after the second release, aimed at the
		// middle of the pressed row.
		if dc := m.doubleClick; dc != nil {
			m.doubleClick = nil
			m.apply(m.controller.DoubleClick(dc.date, dc.offset+0.5, height))
		}
	}

	return m, nil
}

func (m Model) startSubmit() (tea.Model, tea.Cmd) {
	if m.submitting {
		m.setNotice(constants.NoticeSubmitBusy, severityInfo)
		return m, nil
	}

	entries, err := submit.Prepare(m.controller.State())
	if err != nil {
		res := submit.Apply(m.controller.State(), err)
		m.setNotice(res.Notice, severityInfo)
		return m, nil
	}

	if m.opts.ConfirmSubmit {
		m.confirm = &ConfirmFormModel{}
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Save %s?", bookingCount(len(entries)))).
					Affirmative("Save").
					Negative("Cancel").
					Value(&m.confirm.Confirmed),
			),
		)
		m.state = StateConfirmSubmit
		return m, m.form.Init()
	}

	return m.submit(entries)
}

// submit posts entries off the update loop; state changes only once the
// result message comes back.
func (m Model) submit(entries []submit.Entry) (tea.Model, tea.Cmd) {
	m.submitting = true
	m.setNotice(fmt.Sprintf("Saving %s...", bookingCount(len(entries))), severityInfo)

	saver := m.saver
	return m, func() tea.Msg {
		return submitResultMsg{err: submit.Send(context.Background(), saver, entries), sent: entries}
	}
}

func (m Model) handleSubmitResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	m.submitting = false

	res := submit.Settle(m.controller.State(), msg.sent, msg.err)
	m.apply(res.Effects)

	switch {
	case res.OK():
		m.setNotice(res.Notice, severitySuccess)
	case errors.Is(res.Err, submit.ErrNothingToSubmit):
		m.setNotice(res.Notice, severityInfo)
	default:
		m.setNotice(res.Notice, severityError)
	}
	return m, nil
}

func (m Model) openGoTo() (tea.Model, tea.Cmd) {
	m.goToForm = &GoToFormModel{Date: m.anchor.Format(constants.DateFormat)}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Go to date").
				Placeholder("YYYY-MM-DD").
				Value(&m.goToForm.Date).
				Validate(validateDate),
		),
	)
	m.state = StateGoTo
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateGrid
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		finished := m.state
		m.state = StateGrid
		m.form = nil
		switch finished {
		case StateGoTo:
			if t, err := time.ParseInLocation(constants.DateFormat, m.goToForm.Date, time.Local); err == nil {
				m.anchor = t
				m.relayout()
			}
		case StateConfirmSubmit:
			if m.confirm.Confirmed {
				entries, err := submit.Prepare(m.controller.State())
				if err != nil {
					m.setNotice(submit.Apply(m.controller.State(), err).Notice, severityInfo)
					return m, nil
				}
				return m.submit(entries)
			}
		}
		return m, nil
	case huh.StateAborted:
		m.state = StateGrid
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func validateDate(s string) error {
	if _, err := time.Parse(constants.DateFormat, s); err != nil {
		return errors.New("enter a date as YYYY-MM-DD")
	}
	return nil
}

func bookingCount(n int) string {
	if n == 1 {
		return "1 booking"
	}
	return fmt.Sprintf("%d bookings", n)
}
