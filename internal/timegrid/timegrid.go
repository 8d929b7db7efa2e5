// Package timegrid converts between clock times, minutes since midnight and
// vertical offsets inside a day column, and resolves interval overlap.
package timegrid

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/julianstephens/slotbook/internal/constants"
)

// Window describes the visible part of a day column.
type Window struct {
	StartHour     int
	EndHour       int
	Snap          int
	TopPadding    float64
	BottomPadding float64
}

// DefaultWindow returns the 6 AM to 10 PM window with 5 minute snapping.
func DefaultWindow() Window {
	return Window{
		StartHour:     constants.DefaultStartHour,
		EndHour:       constants.DefaultEndHour,
		Snap:          constants.DefaultSnapMinutes,
		TopPadding:    constants.DefaultTopPadding,
		BottomPadding: constants.DefaultBottomPadding,
	}
}

// StartMinute is the first visible minute.
func (w Window) StartMinute() int {
	return w.StartHour * 60
}

// EndMinute is the last visible minute.
func (w Window) EndMinute() int {
	return w.EndHour * 60
}

// TotalMinutes is the length of the visible window.
func (w Window) TotalMinutes() int {
	return (w.EndHour - w.StartHour) * 60
}

// Validate reports whether the window can be mapped onto a column.
func (w Window) Validate() error {
	if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
		return fmt.Errorf("invalid window hours %d-%d", w.StartHour, w.EndHour)
	}
	if w.Snap < 0 {
		return fmt.Errorf("snap must not be negative, got %d", w.Snap)
	}
	if w.TopPadding < 0 || w.BottomPadding < 0 {
		return fmt.Errorf("paddings must not be negative")
	}
	return nil
}

// MinutesToOffset maps minutes since midnight to an offset in a column of the
// given height.
func (w Window) MinutesToOffset(minutes float64, height float64) float64 {
	adj := height - w.TopPadding - w.BottomPadding
	return w.TopPadding + adj*(minutes-float64(w.StartMinute()))/float64(w.TotalMinutes())
}

// OffsetToMinutes is the inverse of MinutesToOffset. When the paddings
// swallow the whole column every offset maps to the window start.
func (w Window) OffsetToMinutes(offset float64, height float64) float64 {
	adj := height - w.TopPadding - w.BottomPadding
	if adj == 0 {
		return float64(w.StartMinute())
	}
	return float64(w.StartMinute()) + float64(w.TotalMinutes())*(offset-w.TopPadding)/adj
}

// ClampOffset keeps an offset inside the padded drawing area.
func (w Window) ClampOffset(offset float64, height float64) float64 {
	return math.Max(w.TopPadding, math.Min(offset, height-w.BottomPadding))
}

// SnappedMinute converts an offset to the nearest snapped minute.
func (w Window) SnappedMinute(offset float64, height float64) int {
	return Snap(w.OffsetToMinutes(offset, height), w.Snap)
}

// ParseClock parses H:MM into minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time format: %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if hour < 0 || hour > 24 || minute < 0 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("time out of range: %q", s)
	}
	return hour*60 + minute, nil
}

// Snap rounds minutes to the nearest multiple of granularity.
func Snap(minutes float64, granularity int) int {
	if granularity <= 0 {
		return int(math.Round(minutes))
	}
	return int(math.Round(minutes/float64(granularity))) * granularity
}

// FormatClock renders minutes since midnight in 12-hour form, e.g. "1:05 PM".
func FormatClock(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	suffix := "PM"
	if h < 12 {
		suffix = "AM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, m, suffix)
}

// FormatRange renders "h:MM AM to h:MM PM".
func FormatRange(start, end int) string {
	return FormatClock(start) + " to " + FormatClock(end)
}

// Overlaps is the half-open interval test: [a1,a2) and [b1,b2) share a minute.
func Overlaps(a1, a2, b1, b2 int) bool {
	return a1 < b2 && a2 > b1
}
