// Package weekgrid draws a week of day columns as terminal cells. One cell
// row is one unit of column offset, so row r spans offsets [r, r+1).
package weekgrid

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/slotbook/internal/booking"
	"github.com/julianstephens/slotbook/internal/timegrid"
	"github.com/julianstephens/slotbook/internal/week"
)

const (
	GutterWidth  = 9
	MinColWidth  = 4
	HeaderRows   = 2
	coverEpsilon = 0.05
)

var (
	rangeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	todayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("205")).
			Bold(true)

	gutterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("236"))

	blockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("42"))

	provisionalStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("214"))
)

// Geometry places the grid on screen. The grid body starts Top rows below
// the top of the terminal, after the week label and the day headers.
type Geometry struct {
	Top      int
	ColWidth int
	Rows     int
}

// NewGeometry fits seven columns into width and rows body rows.
func NewGeometry(width, rows int) Geometry {
	col := (width - GutterWidth) / 7
	if col < MinColWidth {
		col = MinColWidth
	}
	return Geometry{Top: HeaderRows, ColWidth: col, Rows: rows}
}

// Height is the column height in offset units.
func (g Geometry) Height() float64 {
	return float64(g.Rows)
}

// Width is the total width of the gutter and the seven columns.
func (g Geometry) Width() int {
	return GutterWidth + 7*g.ColWidth
}

// Hit maps a terminal cell to a column index and body row.
func (g Geometry) Hit(x, y int) (col, row int, ok bool) {
	if x < GutterWidth || y < g.Top || y >= g.Top+g.Rows {
		return 0, 0, false
	}
	col = (x - GutterWidth) / g.ColWidth
	if col >= 7 {
		return 0, 0, false
	}
	return col, y - g.Top, true
}

// OffsetAt is the column offset of the top edge of terminal row y. Rows
// outside the body give offsets outside the column, left for the caller to
// clamp.
func (g Geometry) OffsetAt(y int) float64 {
	return float64(y - g.Top)
}

// Model renders one week.
type Model struct {
	geo     Geometry
	window  timegrid.Window
	layout  week.Layout
	blocked func(date string) []timegrid.Interval
	blocks  []booking.Effect
	today   string
}

func New(window timegrid.Window, blocked func(date string) []timegrid.Interval) Model {
	return Model{window: window, blocked: blocked}
}

func (m *Model) SetGeometry(g Geometry) {
	m.geo = g
}

func (m *Model) SetLayout(l week.Layout) {
	m.layout = l
}

func (m *Model) SetToday(date string) {
	m.today = date
}

// SetBlocks replaces the drawn blocks, keyed by view handle.
func (m *Model) SetBlocks(blocks map[string]booking.Effect) {
	m.blocks = make([]booking.Effect, 0, len(blocks))
	for _, b := range blocks {
		m.blocks = append(m.blocks, b)
	}
	sort.Slice(m.blocks, func(i, j int) bool {
		if m.blocks[i].Provisional != m.blocks[j].Provisional {
			return !m.blocks[i].Provisional
		}
		return m.blocks[i].Top < m.blocks[j].Top
	})
}

func (m Model) View() string {
	var b strings.Builder

	title := "‹ " + m.layout.RangeLabel + " ›"
	b.WriteString(lipgloss.PlaceHorizontal(m.geo.Width(), lipgloss.Center, rangeStyle.Render(title)))
	b.WriteString("\n")

	b.WriteString(strings.Repeat(" ", GutterWidth))
	for _, d := range m.layout.Columns {
		style := headerStyle
		if d.ISO() == m.today {
			style = todayStyle
		}
		b.WriteString(style.Width(m.geo.ColWidth).Align(lipgloss.Center).Render(fit(d.Header(), m.geo.ColWidth)))
	}

	labels := make(map[int]string)
	for _, l := range m.layout.HourLabels {
		row := int(l.Offset)
		if row >= m.geo.Rows {
			row = m.geo.Rows - 1
		}
		if _, taken := labels[row]; !taken {
			labels[row] = l.Text
		}
	}

	for row := 0; row < m.geo.Rows; row++ {
		b.WriteString("\n")
		b.WriteString(gutterStyle.Width(GutterWidth).Render(labels[row]))
		for _, d := range m.layout.Columns {
			b.WriteString(m.cell(d.ISO(), row))
		}
	}
	return b.String()
}

func (m Model) cell(date string, row int) string {
	top, bottom := float64(row), float64(row+1)
	w := m.geo.ColWidth

	for i := len(m.blocks) - 1; i >= 0; i-- {
		blk := m.blocks[i]
		if blk.Date != date || !covers(blk.Top, blk.Top+blk.Height, top, bottom) {
			continue
		}
		style := selectedStyle
		if blk.Provisional {
			style = provisionalStyle
		}
		text := ""
		if blk.Top >= top-coverEpsilon && blk.Height > 0 {
			text = timegrid.FormatRange(blk.StartMin, blk.EndMin)
		}
		return style.Width(w).Render(fit(text, w))
	}

	if m.blocked != nil {
		for _, iv := range m.blocked(date) {
			start := m.window.MinutesToOffset(float64(iv.Start), m.geo.Height())
			end := m.window.MinutesToOffset(float64(iv.End), m.geo.Height())
			if covers(start, end, top, bottom) {
				return blockedStyle.Render(strings.Repeat("░", w))
			}
		}
	}

	return emptyStyle.Render("│" + strings.Repeat(" ", w-1))
}

// covers reports whether [start, end) overlaps the row [top, bottom). A
// zero-height span covers the row it starts in.
func covers(start, end, top, bottom float64) bool {
	if end-start < coverEpsilon {
		return start >= top && start < bottom
	}
	return start < bottom-coverEpsilon && end > top+coverEpsilon
}

func fit(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
