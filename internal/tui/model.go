package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/slotbook/internal/booking"
	"github.com/julianstephens/slotbook/internal/checkout"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/submit"
	"github.com/julianstephens/slotbook/internal/tui/components/checkoutpanel"
	"github.com/julianstephens/slotbook/internal/tui/components/weekgrid"
	"github.com/julianstephens/slotbook/internal/week"
)

type SessionState int

const (
	StateGrid SessionState = iota
	StateGoTo
	StateConfirmSubmit
)

const (
	checkoutWidth = 40
	footerRows    = 3
	minGridRows   = 8
)

type GoToFormModel struct {
	Date string
}

type ConfirmFormModel struct {
	Confirmed bool
}

// Options configures a Model.
type Options struct {
	// Anchor is the date whose week is shown first. Zero means today.
	Anchor time.Time
	// ConfirmSubmit asks before posting bookings.
	ConfirmSubmit bool
	// Clock is used for double-click timing and the today marker.
	Clock func() time.Time
}

type severity int

const (
	severityInfo severity = iota
	severitySuccess
	severityError
)

type notice struct {
	text     string
	severity severity
}

// press remembers the last press for double-click detection.
type press struct {
	date   string
	row    int
	offset float64
	at     time.Time
}

type submitResultMsg struct {
	err  error
	sent []submit.Entry
}

type Model struct {
	controller *booking.Controller
	saver      submit.Saver
	opts       Options
	state      SessionState
	keys       KeyMap
	help       help.Model
	form       *huh.Form
	goToForm   *GoToFormModel
	confirm    *ConfirmFormModel

	anchor   time.Time
	layout   week.Layout
	geo      weekgrid.Geometry
	grid     weekgrid.Model
	checkout checkoutpanel.Model
	// blocks maps view handles (selection ids and provisional ids) to the
	// block currently drawn for them.
	blocks  map[string]booking.Effect
	pending string
	notice  notice

	submitting  bool
	lastPress   press
	doubleClick *press

	quitting bool
	width    int
	height   int
}

// NewModel returns the calendar for controller. saver may be nil, in which
// case every submission fails with a notice.
func NewModel(controller *booking.Controller, saver submit.Saver, opts Options) Model {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	anchor := opts.Anchor
	if anchor.IsZero() {
		anchor = opts.Clock()
	}

	state := controller.State()
	m := Model{
		controller: controller,
		saver:      saver,
		opts:       opts,
		state:      StateGrid,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		anchor:     anchor,
		grid:       weekgrid.New(controller.Window(), state.Blocked),
		checkout:   checkoutpanel.New(checkoutWidth, minGridRows),
		blocks:     make(map[string]booking.Effect),
	}
	m.resize(80+checkoutWidth, minGridRows+weekgrid.HeaderRows+footerRows)
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) ShortHelp() []key.Binding {
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

// State returns the current session state.
func (m Model) State() SessionState {
	return m.state
}

// resize recomputes geometry for a terminal of width x height and lays out
// the current week again.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	rows := height - weekgrid.HeaderRows - footerRows
	if rows < minGridRows {
		rows = minGridRows
	}
	m.geo = weekgrid.NewGeometry(width-checkoutWidth, rows)
	m.grid.SetGeometry(m.geo)
	m.checkout.SetSize(checkoutWidth, rows+weekgrid.HeaderRows)
	m.relayout()
}

// relayout draws the week containing the anchor from scratch. A drag in
// progress is cancelled since its geometry no longer applies.
func (m *Model) relayout() {
	m.apply(m.controller.Cancel())

	m.layout = week.Render(m.anchor, m.controller, m.geo.Height())
	m.blocks = make(map[string]booking.Effect, len(m.layout.Restore))
	m.apply(m.layout.Restore)

	m.grid.SetLayout(m.layout)
	m.grid.SetToday(m.opts.Clock().Format(constants.DateFormat))
	m.refreshCheckout()
}

// apply performs the view updates produced by a state transition.
func (m *Model) apply(effects []booking.Effect) {
	for _, e := range effects {
		switch e.Kind {
		case booking.EffectCreateBlock, booking.EffectResizeBlock:
			m.blocks[e.ID] = e
		case booking.EffectRemoveBlock:
			delete(m.blocks, e.ID)
		case booking.EffectPending:
			m.pending = e.Text
		case booking.EffectRefreshCheckout:
			m.refreshCheckout()
		}
	}
	m.grid.SetBlocks(m.blocks)
}

func (m *Model) refreshCheckout() {
	m.checkout.SetSummary(checkout.Build(m.controller.State()))
}

func (m *Model) setNotice(text string, sev severity) {
	m.notice = notice{text: text, severity: sev}
}
