package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/avitaltamir/sqli/internal/layout"
	"github.com/avitaltamir/sqli/internal/navigation"
	"github.com/avitaltamir/sqli/internal/panes"
	"github.com/avitaltamir/sqli/internal/theme"
)

// Instructions lists the keys that currently do something, for the footer.
// It only reads m.
func Instructions(m *Model) []panes.Hint {
	switch {
	case m.modals.IsActive():
		return []panes.Hint{
			{Key: "Tab", Desc: "next field"},
			{Key: "Enter", Desc: "confirm"},
			{Key: "Esc", Desc: "cancel"},
		}
	case m.bar.active():
		return m.bar.hints()
	case m.showHelp:
		return []panes.Hint{{Key: "any key", Desc: "close help"}}
	}

	var hints []panes.Hint
	if id, ok := m.nav.ActivePane(); ok {
		info := m.paneInfo(id)
		hints = append(hints, m.byID[id].Hints(info.Focus)...)

		// Mirrors HandleTab: an editing pane with several elements keeps
		// Tab, and the editor keeps it for indentation.
		editing := info.Focus == navigation.Editing
		if !editing || (info.ElementCount <= 1 && id != navigation.Workspace) {
			hints = append(hints, panes.Hint{Key: "Tab", Desc: "next pane"})
		}
	}
	for _, b := range m.keys.ShortHelp() {
		hints = append(hints, panes.Hint{Key: b.Help().Key, Desc: b.Help().Desc})
	}
	return hints
}

func (m *Model) renderInstructions() string {
	hints := Instructions(m)
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = theme.InstructionKey.Render(h.Key) + " " + theme.InstructionDesc.Render(h.Desc)
	}
	line := " " + strings.Join(parts, "  ")
	line = ansi.Truncate(line, m.width, "…")
	return lipgloss.NewStyle().Width(m.width).MaxHeight(1).Render(line)
}

// renderStatusBar renders the connection, the open file and the last
// status message.
func (m *Model) renderStatusBar() string {
	style := theme.StatusBarStyle.Width(m.width).MaxHeight(1)

	conn := m.connection
	if conn == "" {
		conn = "none"
	}
	connInfo := lipgloss.NewStyle().
		Foreground(theme.CyberCyan).
		Render(" " + theme.PanelDiamond + " " + conn)

	file := "untitled"
	if ref, ok := m.workspace.File(); ok {
		file = ref.Scope.String() + ":" + ref.Name()
	}
	fileInfo := lipgloss.NewStyle().
		Foreground(theme.MutedLavender).
		Render(" │ " + file)

	var status string
	if m.status != "" {
		s := theme.StatusInfo
		if m.statusErr {
			s = theme.StatusError
		}
		status = lipgloss.NewStyle().Foreground(theme.DimPurple).Render(" │ ") + s.Render(m.status)
	}

	themeName := lipgloss.NewStyle().
		Foreground(theme.LaserPurple).
		Render(theme.CurrentTheme().Name)
	version := lipgloss.NewStyle().
		Foreground(theme.DimPurple).
		Render(Version)

	left := connInfo + fileInfo + status
	right := themeName + " │ " + version + " "

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		left = ansi.Truncate(left, max(m.width-lipgloss.Width(right)-1, 0), "…")
		gap = max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	}
	return style.Render(left + strings.Repeat(" ", gap) + right)
}

// renderHelpOverlay draws the key reference over screen, in two columns.
func (m *Model) renderHelpOverlay(screen string) string {
	section := func(lines []string, title string, hints []panes.Hint) []string {
		lines = append(lines, theme.ModalTitle.Render(title))
		for _, h := range hints {
			lines = append(lines, "  "+theme.InstructionKey.Render(padRight(h.Key, 12))+theme.InstructionDesc.Render(h.Desc))
		}
		return append(lines, "")
	}

	var global []panes.Hint
	for _, group := range m.keys.FullHelp() {
		for _, b := range group {
			global = append(global, panes.Hint{Key: b.Help().Key, Desc: b.Help().Desc})
		}
	}
	left := section(nil, "GLOBAL", global)
	left = section(left, "HEADER", m.header.Hints(navigation.Editing))
	right := section(nil, "COLLECTIONS", m.collections.Hints(navigation.Editing))
	right = section(right, "WORKSPACE", m.workspace.Hints(navigation.Editing))
	right = section(right, "RESULTS", m.results.Hints(navigation.Editing))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Join(left, "\n"),
		"    ",
		strings.Join(right, "\n"),
	)
	box := lipgloss.NewStyle().
		Border(theme.DoubleBorder).
		BorderForeground(theme.CyberCyan).
		Padding(0, 2).
		Render(body + "\n" + theme.TextMutedStyle.Render("Press any key to close"))

	w, h := lipgloss.Width(box), lipgloss.Height(box)
	r := layout.Rect{
		X:      max((m.width-w)/2, 0),
		Y:      max((m.height-h)/2, 0),
		Width:  w,
		Height: h,
	}
	return layout.Overlay(screen, box, r)
}

func padRight(s string, width int) string {
	if n := ansi.StringWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s + " "
}
