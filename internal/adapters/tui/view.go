package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	heldStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	columnStyle  = lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder())
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Italic(true)
)

// View renders the board.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %d - %s", m.league.DisplayName(), m.view.Season, m.owner)))
	b.WriteString("\n\n")

	if !m.loaded {
		if m.err != nil {
			b.WriteString(errorStyle.Render(m.err.Error()))
		} else {
			b.WriteString(pendingStyle.Render("loading..."))
		}
		b.WriteString("\n")
		return b.String()
	}

	pool := []string{headerStyle.Render("Pool")}
	for i, item := range m.view.Pool {
		pool = append(pool, m.line(i, "  ", item.ID, item.Label))
	}
	if len(m.view.Pool) == 0 {
		pool = append(pool, emptyStyle.Render("  (empty)"))
	}

	ranks := []string{headerStyle.Render("Standings")}
	for i, slot := range m.view.Slots {
		prefix := fmt.Sprintf("%d.", slot.Rank)
		if slot.Item == nil {
			ranks = append(ranks, m.line(len(m.view.Pool)+i, prefix, "", emptyStyle.Render("-")))
			continue
		}
		ranks = append(ranks, m.line(len(m.view.Pool)+i, prefix, slot.Item.ID, slot.Item.Label))
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		columnStyle.Render(strings.Join(pool, "\n")),
		columnStyle.Render(strings.Join(ranks, "\n")),
	))
	b.WriteString("\n")

	switch {
	case m.pending:
		b.WriteString(pendingStyle.Render("working..."))
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) line(index int, prefix, id, label string) string {
	text := fmt.Sprintf("%s %s", prefix, label)
	switch {
	case id != "" && id == m.held:
		text = heldStyle.Render(text + " *")
	case index == m.cursor:
		text = cursorStyle.Render(text)
	}
	if index == m.cursor {
		return "> " + text
	}
	return "  " + text
}

func (m Model) help() string {
	return fmt.Sprintf("j/k move - space pick up - 1-%d drop on rank - 0/p back to pool - enter save - r reload - q quit",
		len(m.view.Slots))
}
