package booking

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/timegrid"
)

const (
	testDate   = "2025-12-05"
	testHeight = 700.0
)

func testWindow() timegrid.Window {
	return timegrid.Window{StartHour: 6, EndHour: 22, Snap: 5, TopPadding: 20, BottomPadding: 20}
}

// newTestController returns a controller with sequential ids sel-1, sel-2, ...
func newTestController(blocked map[string][]timegrid.Interval) *Controller {
	c := NewController(NewState(blocked), testWindow())
	n := 0
	c.newID = func() string {
		n++
		return fmt.Sprintf("sel-%d", n)
	}
	return c
}

func offsetAt(minute int) float64 {
	return testWindow().MinutesToOffset(float64(minute), testHeight)
}

func dragSelect(c *Controller, date string, from, to int) []Effect {
	c.Press(date, offsetAt(from), testHeight)
	c.Move(date, offsetAt(to), testHeight)
	return c.Release(date, testHeight)
}

func TestPressCreatesProvisionalBlock(t *testing.T) {
	c := newTestController(nil)

	effects := c.Press(testDate, offsetAt(540), testHeight)
	if len(effects) != 1 {
		t.Fatalf("Press() returned %d effects, want 1", len(effects))
	}
	e := effects[0]
	if e.Kind != EffectCreateBlock || !e.Provisional || e.ID != ProvisionalID(testDate) {
		t.Errorf("Press() effect = %+v, want provisional create", e)
	}
	if e.Height != 0 {
		t.Errorf("provisional height = %v, want 0", e.Height)
	}
	if date, ok := c.Dragging(); !ok || date != testDate {
		t.Errorf("Dragging() = %q, %v", date, ok)
	}
}

func TestPressInsideBlockedIsIgnored(t *testing.T) {
	c := newTestController(map[string][]timegrid.Interval{testDate: {{Start: 780, End: 840}}})

	if effects := c.Press(testDate, offsetAt(800), testHeight); len(effects) != 0 {
		t.Fatalf("Press() inside block returned %v", kinds(effects))
	}
	if _, ok := c.Dragging(); ok {
		t.Error("controller should stay idle after a blocked press")
	}
	if effects := c.Move(testDate, offsetAt(900), testHeight); effects != nil {
		t.Errorf("Move() while idle returned %v", kinds(effects))
	}
}

func TestMoveUpdatesPendingText(t *testing.T) {
	c := newTestController(nil)
	c.Press(testDate, offsetAt(540), testHeight)

	effects := c.Move(testDate, offsetAt(600), testHeight)
	want := []EffectKind{EffectResizeBlock, EffectPending}
	if got := kinds(effects); !reflect.DeepEqual(got, want) {
		t.Fatalf("Move() kinds = %v, want %v", got, want)
	}
	if effects[1].Text != "2025-12-05 — 9:00 AM to 10:00 AM" {
		t.Errorf("pending text = %q", effects[1].Text)
	}
	if effects[0].Height <= 0 {
		t.Errorf("resized block height = %v", effects[0].Height)
	}
}

func TestDragUpwardsNormalisesInterval(t *testing.T) {
	c := newTestController(nil)
	dragSelect(c, testDate, 660, 600)

	got := c.State().Selections(testDate)
	if len(got) != 1 || got[0].StartMin != 600 || got[0].EndMin != 660 {
		t.Errorf("selections = %+v, want 600-660", got)
	}
}

func TestDragTrimmedAtBlockedStart(t *testing.T) {
	c := newTestController(map[string][]timegrid.Interval{testDate: {{Start: 780, End: 840}}})

	effects := dragSelect(c, testDate, 750, 870)

	got := c.State().Selections(testDate)
	if len(got) != 1 {
		t.Fatalf("got %d selections, want 1", len(got))
	}
	if got[0].StartMin != 750 || got[0].EndMin != 780 {
		t.Errorf("selection = %d-%d, want 750-780 (12:30-13:00)", got[0].StartMin, got[0].EndMin)
	}
	want := []EffectKind{EffectRemoveBlock, EffectCreateBlock, EffectRefreshCheckout}
	if got := kinds(effects); !reflect.DeepEqual(got, want) {
		t.Errorf("Release() kinds = %v, want %v", got, want)
	}
}

func TestReleaseWithoutMoveIsDiscarded(t *testing.T) {
	c := newTestController(nil)
	c.Press(testDate, offsetAt(540), testHeight)

	effects := c.Release(testDate, testHeight)
	if len(effects) != 1 || effects[0].Kind != EffectRemoveBlock || !effects[0].Provisional {
		t.Fatalf("Release() = %+v, want provisional removal only", effects)
	}
	if c.State().Count() != 0 {
		t.Errorf("Count() = %d, want 0", c.State().Count())
	}
	if _, ok := c.Dragging(); ok {
		t.Error("controller should be idle after release")
	}
}

func TestReleaseDoesNotTouchExistingWhenDegenerate(t *testing.T) {
	c := newTestController(nil)
	dragSelect(c, testDate, 540, 600)

	c.Press(testDate, offsetAt(570), testHeight)
	c.Release(testDate, testHeight)

	if c.State().Count() != 1 {
		t.Errorf("Count() = %d, want the existing selection kept", c.State().Count())
	}
}

func TestCommitReplacesOverlapping(t *testing.T) {
	c := newTestController(nil)
	dragSelect(c, testDate, 540, 600)
	dragSelect(c, testDate, 660, 720)
	dragSelect(c, testDate, 780, 840)

	effects := dragSelect(c, testDate, 570, 690)

	got := c.State().Selections(testDate)
	want := []models.Selection{
		{ID: "sel-4", Date: testDate, StartMin: 570, EndMin: 690},
		{ID: "sel-3", Date: testDate, StartMin: 780, EndMin: 840},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("selections = %+v, want %+v", got, want)
	}

	var removed []string
	for _, e := range effects {
		if e.Kind == EffectRemoveBlock && !e.Provisional {
			removed = append(removed, e.ID)
		}
	}
	if !reflect.DeepEqual(removed, []string{"sel-1", "sel-2"}) {
		t.Errorf("removed blocks = %v", removed)
	}
}

func TestCommitOnOtherDateIsIndependent(t *testing.T) {
	c := newTestController(nil)
	dragSelect(c, testDate, 540, 600)
	dragSelect(c, "2025-12-06", 540, 600)

	if c.State().Count() != 2 {
		t.Errorf("Count() = %d, want 2", c.State().Count())
	}
}

func TestDoubleClickRemovesSelection(t *testing.T) {
	c := newTestController(nil)
	dragSelect(c, testDate, 540, 600)
	dragSelect(c, testDate, 720, 780)
	before := c.State().Count()

	effects := c.DoubleClick(testDate, offsetAt(570), testHeight)
	want := []EffectKind{EffectRemoveBlock, EffectRefreshCheckout}
	if got := kinds(effects); !reflect.DeepEqual(got, want) {
		t.Fatalf("DoubleClick() kinds = %v, want %v", got, want)
	}
	if effects[0].ID != "sel-1" {
		t.Errorf("removed %q, want sel-1", effects[0].ID)
	}
	if c.State().Count() != before-1 {
		t.Errorf("Count() = %d, want %d", c.State().Count(), before-1)
	}
}

func TestDoubleClickOutsideSelection(t *testing.T) {
	c := newTestController(nil)
	dragSelect(c, testDate, 540, 600)

	if effects := c.DoubleClick(testDate, offsetAt(610), testHeight); effects != nil {
		t.Errorf("DoubleClick() after selection end = %v, want nothing", kinds(effects))
	}
	if c.State().Count() != 1 {
		t.Errorf("Count() = %d, want 1", c.State().Count())
	}
}

func TestCancelAbortsDrag(t *testing.T) {
	c := newTestController(nil)
	c.Press(testDate, offsetAt(540), testHeight)
	c.Move(testDate, offsetAt(600), testHeight)

	effects := c.Cancel()
	if len(effects) != 2 || effects[0].Kind != EffectRemoveBlock {
		t.Fatalf("Cancel() = %v", kinds(effects))
	}
	if effects := c.Release(testDate, testHeight); effects != nil {
		t.Errorf("Release() after cancel = %v", kinds(effects))
	}
	if c.State().Count() != 0 {
		t.Errorf("Count() = %d, want 0", c.State().Count())
	}
}

func TestMoveOnOtherColumnIsIgnored(t *testing.T) {
	c := newTestController(nil)
	c.Press(testDate, offsetAt(540), testHeight)

	if effects := c.Move("2025-12-06", offsetAt(600), testHeight); effects != nil {
		t.Errorf("Move() on other column = %v", kinds(effects))
	}
}

func kinds(effects []Effect) []EffectKind {
	out := make([]EffectKind, len(effects))
	for i, e := range effects {
		out[i] = e.Kind
	}
	return out
}
