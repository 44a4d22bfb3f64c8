package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/avatar-customizer/internal/session"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#A8DADC"))

	activeTabStyle = tabStyle.
			Bold(true).
			Foreground(lipgloss.Color("#1D3557")).
			Background(lipgloss.Color("#4ECDC4"))

	cellStyle = lipgloss.NewStyle().Width(6).Align(lipgloss.Right)

	pickedStyle = cellStyle.
			Bold(true).
			Foreground(lipgloss.Color("#95E1A3"))

	cursorStyle = cellStyle.Reverse(true)
)

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Avatar Customizer"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.sourceLabel()))
	b.WriteString("\n\n")

	switch m.state {
	case StateLoading:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Loading catalog..."))
		b.WriteString("\n\n")
	case StateError:
		b.WriteString(errorStyle.Render("Error occurred:"))
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString(fmt.Sprintf("  %s\n", m.err.Error()))
		}
		b.WriteString("\n")
	case StateReady:
		b.WriteString(m.viewReady())
	}

	b.WriteString(m.renderLogs())
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))

	return b.String()
}

func (m Model) sourceLabel() string {
	s := m.settings
	if s.Source == "dir" {
		return fmt.Sprintf("dir %s", s.Dir)
	}
	return fmt.Sprintf("%s/%s@%s via %s", s.User, s.Repo, s.Ref, s.Source)
}

func (m Model) viewReady() string {
	catalog := m.sess.Catalog()
	parts := catalog.AvailableParts()
	if len(parts) == 0 {
		return warningStyle.Render("No shapes found in the listing.") + "\n\n"
	}

	tab := m.tab
	if tab >= len(parts) {
		tab = 0
	}

	var tabs []string
	for i, part := range parts {
		label := fmt.Sprintf("%s (%d)", part, catalog.Len(part))
		if i == tab {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Render(m.renderGrid(parts[tab])),
		"  ",
		boxStyle.Render(renderPreview(m.images, m.sess.Latest())),
	)

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(m.statusLine()))
	b.WriteString("\n\n")
	return b.String()
}

// renderGrid lays out the shape ids of part, gridCols per row.
func (m Model) renderGrid(part string) string {
	ids := m.sess.Catalog().ShapeIDs(part)
	picked, hasPick := m.sess.Get(part)

	var rows []string
	var row []string
	for i, id := range ids {
		style := cellStyle
		switch {
		case i == m.cursor:
			style = cursorStyle
		case hasPick && id == picked:
			style = pickedStyle
		}
		row = append(row, style.Render(fmt.Sprintf("%d", id)))
		if len(row) == gridCols {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// statusLine summarizes shape counts and current picks per part.
func (m Model) statusLine() string {
	catalog := m.sess.Catalog()
	var fields []string
	for _, part := range catalog.Parts() {
		if id, ok := m.sess.Get(part); ok {
			fields = append(fields, fmt.Sprintf("%s:%d/%d", part, id, catalog.Len(part)))
		} else {
			fields = append(fields, fmt.Sprintf("%s:-/%d", part, catalog.Len(part)))
		}
	}
	return strings.Join(fields, "  ")
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case session.LevelError:
			style = errorStyle
			prefix = "✗"
		case session.LevelWarning:
			style = warningStyle
			prefix = "!"
		case session.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case session.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}
