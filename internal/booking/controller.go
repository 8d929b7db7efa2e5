package booking

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/timegrid"
)

type drag struct {
	date    string
	anchorY float64
	pending timegrid.Interval
}

// Controller is the drag state machine shared by all day columns. It is idle
// until a press outside a blocked period, dragging until the matching
// release, then idle again.
type Controller struct {
	state  *State
	window timegrid.Window
	active *drag
	newID  func() string
}

// NewController returns an idle controller committing into state.
func NewController(state *State, window timegrid.Window) *Controller {
	return &Controller{
		state:  state,
		window: window,
		newID:  func() string { return uuid.New().String() },
	}
}

// State returns the selection set the controller commits into.
func (c *Controller) State() *State {
	return c.state
}

// Window returns the time window used for offset conversion.
func (c *Controller) Window() timegrid.Window {
	return c.window
}

// Dragging reports the date of the drag in progress, if any.
func (c *Controller) Dragging() (string, bool) {
	if c.active == nil {
		return "", false
	}
	return c.active.date, true
}

// Press starts a drag at offset y in the column for date. Presses landing in
// a blocked period are ignored.
func (c *Controller) Press(date string, y, height float64) []Effect {
	effects := c.Cancel()

	y = c.window.ClampOffset(y, height)
	minute := c.window.SnappedMinute(y, height)
	if timegrid.IsWithinBlocked(minute, c.state.Blocked(date)) {
		return effects
	}

	c.active = &drag{
		date:    date,
		anchorY: y,
		pending: timegrid.Interval{Start: minute, End: minute},
	}
	return append(effects, Effect{
		Kind:        EffectCreateBlock,
		ID:          ProvisionalID(date),
		Date:        date,
		StartMin:    minute,
		EndMin:      minute,
		Top:         y,
		Height:      0,
		Provisional: true,
	})
}

// Move resizes the provisional block to span the press point and y, trimmed
// against the blocked periods of date.
func (c *Controller) Move(date string, y, height float64) []Effect {
	if c.active == nil || c.active.date != date {
		return nil
	}

	y = c.window.ClampOffset(y, height)
	top := math.Min(c.active.anchorY, y)
	bottom := math.Max(c.active.anchorY, y)

	start := c.window.SnappedMinute(top, height)
	end := c.window.SnappedMinute(bottom, height)
	iv := timegrid.TrimAgainstBlocked(start, end, c.state.Blocked(date))
	c.active.pending = iv

	block := c.blockEffect(EffectResizeBlock, ProvisionalID(date), date, iv.Start, iv.End, height)
	block.Provisional = true
	return []Effect{
		block,
		{
			Kind:     EffectPending,
			Date:     date,
			StartMin: iv.Start,
			EndMin:   iv.End,
			Text:     PendingText(date, iv.Start, iv.End),
		},
	}
}

// Release ends the drag on date. Degenerate intervals are discarded;
// otherwise every overlapping selection of that date is replaced by the new
// one.
func (c *Controller) Release(date string, height float64) []Effect {
	if c.active == nil || c.active.date != date {
		return nil
	}
	d := c.active
	c.active = nil

	provisional := Effect{Kind: EffectRemoveBlock, ID: ProvisionalID(date), Date: date, Provisional: true}
	if d.pending.Empty() {
		return []Effect{provisional}
	}

	sel := models.Selection{
		ID:       c.newID(),
		Date:     date,
		StartMin: d.pending.Start,
		EndMin:   d.pending.End,
	}

	var effects []Effect
	for _, old := range c.state.Commit(sel) {
		effects = append(effects, Effect{Kind: EffectRemoveBlock, ID: old.ID, Date: old.Date, StartMin: old.StartMin, EndMin: old.EndMin})
	}
	effects = append(effects,
		provisional,
		c.BlockFor(sel, height),
		Effect{Kind: EffectRefreshCheckout},
	)
	return effects
}

// DoubleClick removes the committed selection under offset y, if any.
func (c *Controller) DoubleClick(date string, y, height float64) []Effect {
	minute := c.window.OffsetToMinutes(y, height)
	for _, sel := range c.state.Selections(date) {
		iv := timegrid.Interval{Start: sel.StartMin, End: sel.EndMin}
		if !iv.Contains(minute) {
			continue
		}
		c.state.Remove(sel.ID)
		return []Effect{
			{Kind: EffectRemoveBlock, ID: sel.ID, Date: date, StartMin: sel.StartMin, EndMin: sel.EndMin},
			{Kind: EffectRefreshCheckout},
		}
	}
	return nil
}

// Cancel aborts a drag in progress without committing it.
func (c *Controller) Cancel() []Effect {
	if c.active == nil {
		return nil
	}
	date := c.active.date
	c.active = nil
	return []Effect{
		{Kind: EffectRemoveBlock, ID: ProvisionalID(date), Date: date, Provisional: true},
		{Kind: EffectPending, Date: date},
	}
}

// BlockFor returns the create effect drawing sel in a column of height.
func (c *Controller) BlockFor(sel models.Selection, height float64) Effect {
	return c.blockEffect(EffectCreateBlock, sel.ID, sel.Date, sel.StartMin, sel.EndMin, height)
}

func (c *Controller) blockEffect(kind EffectKind, id, date string, start, end int, height float64) Effect {
	top := c.window.MinutesToOffset(float64(start), height)
	bottom := c.window.MinutesToOffset(float64(end), height)
	return Effect{
		Kind:     kind,
		ID:       id,
		Date:     date,
		StartMin: start,
		EndMin:   end,
		Top:      top,
		Height:   math.Max(0, bottom-top),
	}
}

// PendingText is the live description of an interval being dragged.
func PendingText(date string, start, end int) string {
	return fmt.Sprintf("%s — %s", date, timegrid.FormatRange(start, end))
}
