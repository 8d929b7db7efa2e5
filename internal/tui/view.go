package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case StateGoTo, StateConfirmSubmit:
		if m.form == nil {
			break
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.form.View())
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.grid.View(), m.checkout.View()))
	b.WriteString("\n")
	b.WriteString(m.pendingLine())
	b.WriteString("\n")
	b.WriteString(m.noticeLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) pendingLine() string {
	if m.pending == "" {
		return mutedStyle.Render("Drag on a day to select a time range.")
	}
	return pendingStyle.Render(m.pending)
}

func (m Model) noticeLine() string {
	if m.notice.text == "" {
		return ""
	}
	switch m.notice.severity {
	case severitySuccess:
		return successStyle.Render(m.notice.text)
	case severityError:
		return dangerStyle.Render(m.notice.text)
	default:
		return infoStyle.Render(m.notice.text)
	}
}
