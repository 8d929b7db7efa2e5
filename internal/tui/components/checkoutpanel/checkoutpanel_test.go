package checkoutpanel

import (
	"fmt"
	"strings"
	"testing"

	"github.com/julianstephens/slotbook/internal/checkout"
)

func summaryOf(n int) checkout.Summary {
	items := make([]checkout.Item, n)
	for i := range items {
		items[i] = checkout.Item{ID: fmt.Sprintf("id-%d", i), Date: "2025-12-05", StartMin: 360 + i*60, EndMin: 390 + i*60}
	}
	return checkout.Summary{Items: items, Total: n}
}

func TestCursorStaysInRange(t *testing.T) {
	m := New(40, 8)
	m.SetSummary(summaryOf(3))

	m.CursorUp()
	if item, _ := m.Selected(); item.ID != "id-0" {
		t.Errorf("cursor moved above the first item: %s", item.ID)
	}
	for i := 0; i < 5; i++ {
		m.CursorDown()
	}
	if item, _ := m.Selected(); item.ID != "id-2" {
		t.Errorf("cursor moved past the last item: %s", item.ID)
	}

	m.SetSummary(summaryOf(1))
	if item, ok := m.Selected(); !ok || item.ID != "id-0" {
		t.Errorf("cursor not clamped after shrink: %+v %v", item, ok)
	}

	m.SetSummary(summaryOf(0))
	if _, ok := m.Selected(); ok {
		t.Error("Selected() on empty list reported an item")
	}
}

func TestViewScrollsToCursor(t *testing.T) {
	m := New(40, 7)
	m.SetSummary(summaryOf(10))
	for i := 0; i < 9; i++ {
		m.CursorDown()
	}

	out := m.View()
	if !strings.Contains(out, "Total: 10 bookings") {
		t.Error("view lacks the total")
	}
	if !strings.Contains(out, "› 2025-12-05") {
		t.Error("cursor row not visible after scrolling")
	}
}

func TestEmptyView(t *testing.T) {
	m := New(40, 8)
	m.SetSummary(checkout.Summary{})
	out := m.View()
	if !strings.Contains(out, "Total: 0 bookings") || !strings.Contains(out, "Drag on the calendar") {
		t.Errorf("empty view = %q", out)
	}
}
