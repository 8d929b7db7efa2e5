// Package week computes the Monday-start week shown by the calendar and the
// layout of its day columns.
package week

import (
	"fmt"
	"time"

	"github.com/julianstephens/slotbook/internal/booking"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/timegrid"
)

// Week is seven contiguous days starting on a Monday.
type Week struct {
	Anchor time.Time
	Start  time.Time
	End    time.Time
	Days   []Day
}

// Day is one column of the week.
type Day struct {
	Date time.Time
}

// ISO returns the YYYY-MM-DD key of the day.
func (d Day) ISO() string {
	return d.Date.Format(constants.DateFormat)
}

// Header returns the column title, e.g. "Fri, 12/5".
func (d Day) Header() string {
	return fmt.Sprintf("%s, %d/%d", d.Date.Format("Mon"), int(d.Date.Month()), d.Date.Day())
}

// Of returns the week containing anchor.
func Of(anchor time.Time) Week {
	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)

	days := make([]Day, constants.DaysPerWeek)
	for i := range days {
		days[i] = Day{Date: start.AddDate(0, 0, i)}
	}
	return Week{
		Anchor: anchor,
		Start:  start,
		End:    start.AddDate(0, 0, constants.DaysPerWeek-1),
		Days:   days,
	}
}

// Next returns the following week.
func (w Week) Next() Week {
	return Of(w.Anchor.AddDate(0, 0, constants.DaysPerWeek))
}

// Prev returns the preceding week.
func (w Week) Prev() Week {
	return Of(w.Anchor.AddDate(0, 0, -constants.DaysPerWeek))
}

// RangeLabel renders the week bounds as locale dates, e.g. "12/1/2025 - 12/7/2025".
func (w Week) RangeLabel() string {
	return localeDate(w.Start) + " - " + localeDate(w.End)
}

func localeDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

// HourLabel marks the top of an hour in the time column.
type HourLabel struct {
	Hour   int
	Offset float64
	Text   string
}

// HourLabels returns one label per hour of the window, inclusive of both ends.
func HourLabels(w timegrid.Window, height float64) []HourLabel {
	var labels []HourLabel
	for h := w.StartHour; h <= w.EndHour; h++ {
		labels = append(labels, HourLabel{
			Hour:   h,
			Offset: w.MinutesToOffset(float64(h*60), height),
			Text:   timegrid.FormatClock((h % 24) * 60),
		})
	}
	return labels
}

// Layout is everything needed to draw a week.
type Layout struct {
	Week       Week
	RangeLabel string
	Columns    []Day
	HourLabels []HourLabel
	// Restore draws every committed selection of the week.
	Restore []booking.Effect
}

// Render lays out the week containing anchor. Every day gets a selection
// list in state, and committed selections are restored as blocks.
func Render(anchor time.Time, c *booking.Controller, height float64) Layout {
	w := Of(anchor)
	state := c.State()

	var restore []booking.Effect
	for _, d := range w.Days {
		date := d.ISO()
		state.Ensure(date)
		for _, sel := range state.Selections(date) {
			restore = append(restore, c.BlockFor(sel, height))
		}
	}

	return Layout{
		Week:       w,
		RangeLabel: w.RangeLabel(),
		Columns:    w.Days,
		HourLabels: HourLabels(c.Window(), height),
		Restore:    restore,
	}
}
