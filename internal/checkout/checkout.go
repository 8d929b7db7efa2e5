package checkout

import (
	"fmt"
	"strings"

	"github.com/julianstephens/slotbook/internal/booking"
	"github.com/julianstephens/slotbook/internal/timegrid"
)

// Item is one line of the checkout list.
type Item struct {
	ID       string
	Date     string
	StartMin int
	EndMin   int
}

// Label renders "2025-12-05 — 9:00 AM to 10:00 AM".
func (i Item) Label() string {
	return booking.PendingText(i.Date, i.StartMin, i.EndMin)
}

// Summary is the flattened checkout view of every committed selection.
type Summary struct {
	Items []Item
	Total int
}

// TotalLabel renders the booking count, e.g. "Total: 1 booking".
func (s Summary) TotalLabel() string {
	return TotalLabel(s.Total)
}

// TotalLabel renders a booking count.
func TotalLabel(n int) string {
	if n == 1 {
		return "Total: 1 booking"
	}
	return fmt.Sprintf("Total: %d bookings", n)
}

// Build flattens state into checkout items ordered by date and start.
func Build(state *booking.State) Summary {
	all := state.All()
	items := make([]Item, 0, len(all))
	for _, sel := range all {
		items = append(items, Item{
			ID:       sel.ID,
			Date:     sel.Date,
			StartMin: sel.StartMin,
			EndMin:   sel.EndMin,
		})
	}
	return Summary{Items: items, Total: len(items)}
}

// Remove deletes the selection with id and returns the view updates: its
// block is detached and the checkout list rebuilt. Unknown ids change nothing.
func Remove(state *booking.State, id string) []booking.Effect {
	sel, ok := state.Remove(id)
	if !ok {
		return nil
	}
	return []booking.Effect{
		{Kind: booking.EffectRemoveBlock, ID: sel.ID, Date: sel.Date, StartMin: sel.StartMin, EndMin: sel.EndMin},
		{Kind: booking.EffectRefreshCheckout},
	}
}

// Describe is the plain-text form of the summary used outside the TUI.
func Describe(s Summary) string {
	var b strings.Builder
	for _, item := range s.Items {
		dur := timegrid.Interval{Start: item.StartMin, End: item.EndMin}.Duration()
		fmt.Fprintf(&b, "%s  (%d min)\n", item.Label(), dur)
	}
	b.WriteString(s.TotalLabel())
	return b.String()
}
