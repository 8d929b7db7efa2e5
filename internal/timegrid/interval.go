package timegrid

import (
	"fmt"

	"github.com/julianstephens/slotbook/internal/models"
)

// Interval is a half-open range of minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// Empty reports whether the interval covers no minute.
func (i Interval) Empty() bool {
	return i.Start >= i.End
}

// Duration returns the length in minutes, zero for empty intervals.
func (i Interval) Duration() int {
	if i.Empty() {
		return 0
	}
	return i.End - i.Start
}

// Contains reports whether minute falls inside [Start, End).
func (i Interval) Contains(minute float64) bool {
	return minute >= float64(i.Start) && minute < float64(i.End)
}

func (i Interval) String() string {
	return FormatRange(i.Start, i.End)
}

// ParseBlocked converts clock-time blocked periods into intervals.
func ParseBlocked(periods []models.BlockedPeriod) ([]Interval, error) {
	out := make([]Interval, 0, len(periods))
	for _, p := range periods {
		start, err := ParseClock(p.Start)
		if err != nil {
			return nil, fmt.Errorf("blocked period start: %w", err)
		}
		end, err := ParseClock(p.End)
		if err != nil {
			return nil, fmt.Errorf("blocked period end: %w", err)
		}
		if start >= end {
			return nil, fmt.Errorf("blocked period %s-%s must end after it starts", p.Start, p.End)
		}
		out = append(out, Interval{Start: start, End: end})
	}
	return out, nil
}

// TrimAgainstBlocked shrinks [start, end) until no block overlaps it. A block
// starting inside the interval clips the end to the block start; an interval
// starting inside a block has its start moved to the block end. The result
// may be empty, e.g. when a block covers the whole interval.
func TrimAgainstBlocked(start, end int, blocks []Interval) Interval {
	changed := true
	for changed {
		changed = false
		for _, b := range blocks {
			if !Overlaps(start, end, b.Start, b.End) {
				continue
			}
			if start < b.Start && end > b.Start {
				end = b.Start
				changed = true
			} else if start >= b.Start && start < b.End {
				start = b.End
				changed = true
			}
		}
	}
	return Interval{Start: start, End: end}
}

// IsWithinBlocked reports whether minute falls inside any block.
func IsWithinBlocked(minute int, blocks []Interval) bool {
	for _, b := range blocks {
		if minute >= b.Start && minute < b.End {
			return true
		}
	}
	return false
}
