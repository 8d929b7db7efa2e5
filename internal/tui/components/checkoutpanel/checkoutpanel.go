package checkoutpanel

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/slotbook/internal/checkout"
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// chrome is the border, padding, title and total lines around the list.
const (
	chromeWidth  = 4
	chromeHeight = 4
)

// Model lists every committed booking with a cursor for removal.
type Model struct {
	viewport viewport.Model
	summary  checkout.Summary
	cursor   int
	width    int
}

func New(width, height int) Model {
	m := Model{}
	m.SetSize(width, height)
	return m
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	innerW := max(1, width-chromeWidth)
	innerH := max(1, height-chromeHeight)
	if m.viewport.Width == 0 && m.viewport.Height == 0 {
		m.viewport = viewport.New(innerW, innerH)
	} else {
		m.viewport.Width = innerW
		m.viewport.Height = innerH
	}
	m.render()
}

// SetSummary replaces the list, keeping the cursor in range.
func (m *Model) SetSummary(s checkout.Summary) {
	m.summary = s
	if m.cursor >= len(s.Items) {
		m.cursor = len(s.Items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.render()
}

func (m Model) Summary() checkout.Summary {
	return m.summary
}

func (m *Model) CursorUp() {
	if m.cursor > 0 {
		m.cursor--
		m.render()
	}
}

func (m *Model) CursorDown() {
	if m.cursor < len(m.summary.Items)-1 {
		m.cursor++
		m.render()
	}
}

// Selected returns the item under the cursor.
func (m Model) Selected() (checkout.Item, bool) {
	if len(m.summary.Items) == 0 {
		return checkout.Item{}, false
	}
	return m.summary.Items[m.cursor], true
}

func (m *Model) render() {
	if len(m.summary.Items) == 0 {
		m.viewport.SetContent(emptyStyle.Render("Drag on the calendar to book."))
		m.viewport.SetYOffset(0)
		return
	}

	lines := make([]string, len(m.summary.Items))
	for i, item := range m.summary.Items {
		label := truncate(item.Label(), m.viewport.Width-2)
		if i == m.cursor {
			lines[i] = cursorStyle.Render("› " + label)
		} else {
			lines[i] = "  " + label
		}
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))

	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m Model) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Checkout"),
		m.viewport.View(),
		m.summary.TotalLabel(),
	)
	return boxStyle.Width(m.width - 2).Render(content)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
