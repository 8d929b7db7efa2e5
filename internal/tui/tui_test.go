package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/slotbook/internal/booking"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/submit"
	"github.com/julianstephens/slotbook/internal/timegrid"
)

// With a 120x23 terminal and the default window the grid has 18 body rows,
// one per hour plus a padding row at each end. Body row r starts at minute
// 360 + 60*(r-1) and sits on terminal row r+2. Columns are 10 cells wide
// after the 9 cell gutter.
const (
	termWidth  = 120
	termHeight = 23
	fridayX    = 9 + 4*10 + 5
	friday     = "2025-12-05"
)

func rowFor(minute int) int {
	return (minute-360)/60 + 1 + 2
}

type fakeSaver struct {
	mu    sync.Mutex
	err   error
	calls [][]submit.Entry
}

func (f *fakeSaver) Save(_ context.Context, entries []submit.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, entries)
	return f.err
}

func (f *fakeSaver) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func fixedClock() time.Time {
	return time.Date(2025, 12, 5, 12, 0, 0, 0, time.Local)
}

func newTestModel(t *testing.T, saver submit.Saver, blocked map[string][]timegrid.Interval) Model {
	t.Helper()
	ctrl := booking.NewController(booking.NewState(blocked), timegrid.DefaultWindow())
	m := NewModel(ctrl, saver, Options{Clock: fixedClock})
	return update(t, m, tea.WindowSizeMsg{Width: termWidth, Height: termHeight})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return model
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func drag(t *testing.T, m Model, x, fromMinute, toMinute int) Model {
	t.Helper()
	m = update(t, m, mouse(tea.MouseActionPress, x, rowFor(fromMinute)))
	m = update(t, m, mouse(tea.MouseActionMotion, x, rowFor(toMinute)))
	return update(t, m, mouse(tea.MouseActionRelease, x, rowFor(toMinute)))
}

// runCmd executes a command and feeds its message back, as the program loop
// would.
func runCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return update(t, m, cmd())
}

func TestDragCreatesSelection(t *testing.T) {
	m := newTestModel(t, nil, nil)

	m = update(t, m, mouse(tea.MouseActionPress, fridayX, rowFor(540)))
	m = update(t, m, mouse(tea.MouseActionMotion, fridayX, rowFor(600)))
	if want := friday + " — 9:00 AM to 10:00 AM"; m.pending != want {
		t.Errorf("pending = %q, want %q", m.pending, want)
	}
	if _, ok := m.blocks[booking.ProvisionalID(friday)]; !ok {
		t.Error("expected a provisional block while dragging")
	}

	m = update(t, m, mouse(tea.MouseActionRelease, fridayX, rowFor(600)))

	sels := m.controller.State().Selections(friday)
	if len(sels) != 1 || sels[0].StartMin != 540 || sels[0].EndMin != 600 {
		t.Fatalf("selections = %+v, want one 540-600", sels)
	}
	if _, ok := m.blocks[sels[0].ID]; !ok {
		t.Error("committed selection has no block")
	}
	if _, ok := m.blocks[booking.ProvisionalID(friday)]; ok {
		t.Error("provisional block should be gone after release")
	}
	if m.pending != "" {
		t.Errorf("pending = %q after release", m.pending)
	}
	if got := m.checkout.Summary().Total; got != 1 {
		t.Errorf("checkout total = %d, want 1", got)
	}
	if view := m.View(); !strings.Contains(view, "Total: 1 booking") {
		t.Error("view should show the checkout total")
	}
}

func TestReleaseOutsideColumnCommits(t *testing.T) {
	m := newTestModel(t, nil, nil)

	m = update(t, m, mouse(tea.MouseActionPress, fridayX, rowFor(540)))
	m = update(t, m, mouse(tea.MouseActionMotion, fridayX+30, rowFor(660)))
	m = update(t, m, mouse(tea.MouseActionRelease, fridayX+30, rowFor(660)))

	sels := m.controller.State().Selections(friday)
	if len(sels) != 1 || sels[0].EndMin != 660 {
		t.Fatalf("selections = %+v", sels)
	}
}

func TestClickWithoutDragCommitsNothing(t *testing.T) {
	m := newTestModel(t, nil, nil)

	m = update(t, m, mouse(tea.MouseActionPress, fridayX, rowFor(540)))
	m = update(t, m, mouse(tea.MouseActionRelease, fridayX, rowFor(540)))

	if n := m.controller.State().Count(); n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
	if len(m.blocks) != 0 {
		t.Errorf("blocks = %v, want none", m.blocks)
	}
}

func TestDoubleClickRemovesSelection(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m = drag(t, m, fridayX, 540, 600)

	y := rowFor(540)
	for i := 0; i < 2; i++ {
		m = update(t, m, mouse(tea.MouseActionPress, fridayX, y))
		m = update(t, m, mouse(tea.MouseActionRelease, fridayX, y))
	}

	if n := m.controller.State().Count(); n != 0 {
		t.Fatalf("Count() = %d after double click, want 0", n)
	}
	if len(m.blocks) != 0 {
		t.Errorf("blocks = %v, want none", m.blocks)
	}
	if got := m.checkout.Summary().TotalLabel(); got != "Total: 0 bookings" {
		t.Errorf("TotalLabel() = %q", got)
	}
}

func TestClickThenDragKeepsSelection(t *testing.T) {
	m := newTestModel(t, nil, nil)

	y := rowFor(540)
	m = update(t, m, mouse(tea.MouseActionPress, fridayX, y))
	m = update(t, m, mouse(tea.MouseActionRelease, fridayX, y))
	m = drag(t, m, fridayX, 540, 660)

	sels := m.controller.State().Selections(friday)
	if len(sels) != 1 || sels[0].StartMin != 540 || sels[0].EndMin != 660 {
		t.Fatalf("selections = %+v, want one 540-660", sels)
	}
	if m.doubleClick != nil {
		t.Error("a press that became a drag should not be pending as a double click")
	}
}

func TestSlowClicksAreNotDoubleClick(t *testing.T) {
	ctrl := booking.NewController(booking.NewState(nil), timegrid.DefaultWindow())
	now := fixedClock()
	m := NewModel(ctrl, nil, Options{Clock: func() time.Time { return now }})
	m = update(t, m, tea.WindowSizeMsg{Width: termWidth, Height: termHeight})
	m = drag(t, m, fridayX, 540, 600)

	y := rowFor(540)
	m = update(t, m, mouse(tea.MouseActionPress, fridayX, y))
	m = update(t, m, mouse(tea.MouseActionRelease, fridayX, y))
	now = now.Add(constants.DoubleClickWindow + time.Millisecond)
	m = update(t, m, mouse(tea.MouseActionPress, fridayX, y))
	m = update(t, m, mouse(tea.MouseActionRelease, fridayX, y))

	if n := m.controller.State().Count(); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestPressInBlockedPeriodIgnored(t *testing.T) {
	blocked := map[string][]timegrid.Interval{friday: {{Start: 780, End: 840}}}
	m := newTestModel(t, nil, blocked)

	m = update(t, m, mouse(tea.MouseActionPress, fridayX, rowFor(780)))
	if _, ok := m.controller.Dragging(); ok {
		t.Fatal("press inside a blocked period started a drag")
	}
	m = update(t, m, mouse(tea.MouseActionMotion, fridayX, rowFor(900)))
	m = update(t, m, mouse(tea.MouseActionRelease, fridayX, rowFor(900)))

	if n := m.controller.State().Count(); n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
}

func TestDragIsTrimmedAtBlockedPeriod(t *testing.T) {
	blocked := map[string][]timegrid.Interval{friday: {{Start: 780, End: 840}}}
	m := newTestModel(t, nil, blocked)

	m = drag(t, m, fridayX, 660, 900)

	sels := m.controller.State().Selections(friday)
	if len(sels) != 1 || sels[0].StartMin != 660 || sels[0].EndMin != 780 {
		t.Fatalf("selections = %+v, want 660-780", sels)
	}
}

func TestEscCancelsDrag(t *testing.T) {
	m := newTestModel(t, nil, nil)

	m = update(t, m, mouse(tea.MouseActionPress, fridayX, rowFor(540)))
	m = update(t, m, mouse(tea.MouseActionMotion, fridayX, rowFor(600)))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if _, ok := m.controller.Dragging(); ok {
		t.Error("drag still active after esc")
	}
	if len(m.blocks) != 0 || m.pending != "" {
		t.Errorf("blocks = %v, pending = %q", m.blocks, m.pending)
	}

	m = update(t, m, mouse(tea.MouseActionRelease, fridayX, rowFor(600)))
	if n := m.controller.State().Count(); n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
}

func TestWeekNavigationRestoresBlocks(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m = drag(t, m, fridayX, 540, 600)
	id := m.controller.State().All()[0].ID

	m = update(t, m, keyPress("n"))
	if got := m.layout.Columns[0].ISO(); got != "2025-12-08" {
		t.Fatalf("next week starts %s", got)
	}
	if _, ok := m.blocks[id]; ok {
		t.Error("block from another week is drawn")
	}
	if got := m.checkout.Summary().Total; got != 1 {
		t.Errorf("checkout total = %d, want 1 across weeks", got)
	}

	m = update(t, m, keyPress("p"))
	b, ok := m.blocks[id]
	if !ok {
		t.Fatal("block not restored after returning")
	}
	if b.StartMin != 540 || b.EndMin != 600 {
		t.Errorf("restored block = %+v", b)
	}
}

func TestKeyboardRemove(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m = drag(t, m, fridayX, 540, 600)
	m = drag(t, m, fridayX, 720, 780)

	m = update(t, m, keyPress("j"))
	item, ok := m.checkout.Selected()
	if !ok || item.StartMin != 720 {
		t.Fatalf("Selected() = %+v, %v", item, ok)
	}

	m = update(t, m, keyPress("x"))
	sels := m.controller.State().Selections(friday)
	if len(sels) != 1 || sels[0].StartMin != 540 {
		t.Fatalf("selections = %+v", sels)
	}
	if _, ok := m.blocks[item.ID]; ok {
		t.Error("removed selection is still drawn")
	}
}

func TestSubmitEmptyMakesNoRequest(t *testing.T) {
	saver := &fakeSaver{}
	m := newTestModel(t, saver, nil)

	m, cmd := updateCmd(t, m, keyPress("s"))
	if cmd != nil {
		t.Error("empty submit returned a command")
	}
	if saver.count() != 0 {
		t.Error("empty submit reached the saver")
	}
	if m.notice.text != constants.NoticeNothingToSubmit {
		t.Errorf("notice = %q", m.notice.text)
	}
}

func TestSubmitSuccessClears(t *testing.T) {
	saver := &fakeSaver{}
	m := newTestModel(t, saver, nil)
	m = drag(t, m, fridayX, 540, 600)

	m, cmd := updateCmd(t, m, keyPress("s"))
	if !m.submitting {
		t.Error("model should be submitting")
	}
	m = runCmd(t, m, cmd)

	if saver.count() != 1 {
		t.Fatalf("saver called %d times", saver.count())
	}
	want := []submit.Entry{{Date: friday, StartMin: 540, EndMin: 600}}
	if got := saver.calls[0]; len(got) != 1 || got[0] != want[0] {
		t.Errorf("payload = %+v, want %+v", got, want)
	}
	if m.submitting {
		t.Error("submitting not reset")
	}
	if m.notice.text != constants.NoticeSubmitSuccess || m.notice.severity != severitySuccess {
		t.Errorf("notice = %+v", m.notice)
	}
	if n := m.controller.State().Count(); n != 0 {
		t.Errorf("Count() = %d after success", n)
	}
	if len(m.blocks) != 0 {
		t.Errorf("blocks = %v after success", m.blocks)
	}
	if got := m.checkout.Summary().TotalLabel(); got != "Total: 0 bookings" {
		t.Errorf("TotalLabel() = %q", got)
	}
}

func TestSubmitBusy(t *testing.T) {
	saver := &fakeSaver{}
	m := newTestModel(t, saver, nil)
	m = drag(t, m, fridayX, 540, 600)

	m, first := updateCmd(t, m, keyPress("s"))
	m, second := updateCmd(t, m, keyPress("s"))
	if second != nil {
		t.Error("second submit returned a command")
	}
	if m.notice.text != constants.NoticeSubmitBusy {
		t.Errorf("notice = %q", m.notice.text)
	}

	_ = runCmd(t, m, first)
	if saver.count() != 1 {
		t.Errorf("saver called %d times", saver.count())
	}
}

func TestSelectionsAddedDuringSubmitSurvive(t *testing.T) {
	saver := &fakeSaver{}
	m := newTestModel(t, saver, nil)
	m = drag(t, m, fridayX, 540, 600)

	m, cmd := updateCmd(t, m, keyPress("s"))
	m = drag(t, m, fridayX, 660, 720)
	m = runCmd(t, m, cmd)

	if got := saver.calls[0]; len(got) != 1 || got[0].StartMin != 540 {
		t.Fatalf("payload = %+v, want only the 9 AM booking", got)
	}
	sels := m.controller.State().Selections(friday)
	if len(sels) != 1 || sels[0].StartMin != 660 || sels[0].EndMin != 720 {
		t.Fatalf("selections = %+v, want the unsent 660-720", sels)
	}
	if _, ok := m.blocks[sels[0].ID]; !ok {
		t.Error("unsent selection lost its block")
	}
	if got := m.checkout.Summary().TotalLabel(); got != "Total: 1 booking" {
		t.Errorf("TotalLabel() = %q", got)
	}
}

func TestSubmitFailureKeepsState(t *testing.T) {
	tests := []struct {
		name   string
		saver  submit.Saver
		notice string
	}{
		{
			name:   "rejected",
			saver:  &fakeSaver{err: fmt.Errorf("%w: success=false", submit.ErrRejected)},
			notice: constants.NoticeSubmitRejected,
		},
		{
			name:   "transport",
			saver:  &fakeSaver{err: fmt.Errorf("%w: connection refused", submit.ErrTransport)},
			notice: constants.NoticeSubmitError,
		},
		{
			name:   "no endpoint",
			saver:  nil,
			notice: constants.NoticeSubmitError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, tt.saver, nil)
			m = drag(t, m, fridayX, 540, 600)

			m, cmd := updateCmd(t, m, keyPress("s"))
			m = runCmd(t, m, cmd)

			if m.notice.text != tt.notice || m.notice.severity != severityError {
				t.Errorf("notice = %+v, want %q", m.notice, tt.notice)
			}
			if n := m.controller.State().Count(); n != 1 {
				t.Errorf("Count() = %d, want 1", n)
			}
			if len(m.blocks) != 1 {
				t.Errorf("blocks = %v, want the selection", m.blocks)
			}
		})
	}
}

func TestSubmitConfirmation(t *testing.T) {
	saver := &fakeSaver{}
	ctrl := booking.NewController(booking.NewState(nil), timegrid.DefaultWindow())
	m := NewModel(ctrl, saver, Options{Clock: fixedClock, ConfirmSubmit: true})
	m = update(t, m, tea.WindowSizeMsg{Width: termWidth, Height: termHeight})
	m = drag(t, m, fridayX, 540, 600)

	m = update(t, m, keyPress("s"))
	if m.State() != StateConfirmSubmit {
		t.Fatalf("State() = %v, want confirm", m.State())
	}
	if saver.count() != 0 {
		t.Error("saver called before confirmation")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.State() != StateGrid {
		t.Errorf("State() = %v after esc", m.State())
	}
	if n := m.controller.State().Count(); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestValidateDate(t *testing.T) {
	if err := validateDate("2025-12-05"); err != nil {
		t.Errorf("validateDate() error = %v", err)
	}
	if err := validateDate("12/5/2025"); err == nil {
		t.Error("validateDate() accepted a locale date")
	}
}
