package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avitaltamir/sqli/internal/panes"
	"github.com/avitaltamir/sqli/internal/theme"
)

// barMode selects what the one-line bar above the status line is asking
// for.
type barMode int

const (
	barHidden barMode = iota
	barSearch
	barReplaceFind
	barReplaceWith
	barCommand
)

// bar is the search, replace and command prompt.
type bar struct {
	mode  barMode
	input textinput.Model
	find  string
	width int
}

func newBar() bar {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.PromptStyle = theme.BarPrompt
	return bar{input: ti}
}

func (b *bar) active() bool {
	return b.mode != barHidden
}

func (b *bar) open(mode barMode, value string) {
	b.mode = mode
	b.input.Prompt = b.prompt()
	b.input.SetValue(value)
	b.input.CursorEnd()
	b.input.Focus()
}

func (b *bar) close() {
	b.mode = barHidden
	b.input.Blur()
	b.input.SetValue("")
	b.find = ""
}

func (b *bar) setWidth(w int) {
	b.width = w
	b.input.Width = max(w-len(b.input.Prompt)-2, 1)
}

func (b *bar) prompt() string {
	switch b.mode {
	case barSearch:
		return "Search: "
	case barReplaceFind:
		return "Replace: "
	case barReplaceWith:
		return fmt.Sprintf("Replace %q with: ", b.find)
	case barCommand:
		return ":"
	}
	return ""
}

func (b *bar) value() string {
	return b.input.Value()
}

func (b *bar) hints() []panes.Hint {
	switch b.mode {
	case barSearch:
		return []panes.Hint{
			{Key: "Enter/↓", Desc: "next"},
			{Key: "↑", Desc: "previous"},
			{Key: "Esc", Desc: "close"},
		}
	case barReplaceFind:
		return []panes.Hint{{Key: "Enter", Desc: "find"}, {Key: "Esc", Desc: "cancel"}}
	case barReplaceWith:
		return []panes.Hint{
			{Key: "Enter", Desc: "replace"},
			{Key: "^A", Desc: "replace all"},
			{Key: "Esc", Desc: "done"},
		}
	case barCommand:
		return []panes.Hint{
			{Key: ":w", Desc: "save"},
			{Key: ":q", Desc: "quit"},
			{Key: ":wq", Desc: "save and quit"},
			{Key: ":run", Desc: "run query"},
			{Key: "Esc", Desc: "cancel"},
		}
	}
	return nil
}

func (b *bar) View() string {
	return lipgloss.NewStyle().Width(b.width).MaxHeight(1).Render(b.input.View())
}

func (m *Model) openBar(mode barMode, value string) {
	m.bar.open(mode, value)
	m.relayout()
}

func (m *Model) closeBar() {
	m.bar.close()
	m.relayout()
}

// handleBarKey handles a key while the bar has the keyboard and reports
// whether a command asked to quit.
func (m *Model) handleBarKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "esc":
		m.closeBar()
		return false
	case "enter":
		return m.submitBar()
	}

	switch m.bar.mode {
	case barSearch:
		switch msg.String() {
		case "down":
			m.searchStep(true)
			return false
		case "up":
			m.searchStep(false)
			return false
		}
	case barReplaceWith:
		if msg.String() == "ctrl+a" {
			m.replaceAll(m.bar.value())
			return false
		}
	}

	m.bar.input, _ = m.bar.input.Update(msg)
	return false
}

func (m *Model) submitBar() bool {
	buf := m.workspace.Buffer()
	value := m.bar.value()

	switch m.bar.mode {
	case barSearch:
		if value == "" {
			buf.SetSearchPattern("")
			m.closeBar()
			return false
		}
		if value != buf.Pattern() {
			buf.SetSearchPattern(value)
		}
		m.searchStep(true)

	case barReplaceFind:
		if value == "" {
			m.closeBar()
			return false
		}
		buf.SetSearchPattern(value)
		m.bar.find = value
		m.openBar(barReplaceWith, "")
		if buf.SearchForward(false) {
			m.workspace.Reveal()
		} else {
			m.setStatus("Pattern not found")
		}

	case barReplaceWith:
		m.replaceNext(value)

	case barCommand:
		m.closeBar()
		return m.runCommand(value)
	}
	return false
}

func (m *Model) searchStep(forward bool) {
	buf := m.workspace.Buffer()
	var found bool
	if forward {
		found = buf.SearchForward(false)
	} else {
		found = buf.SearchBack(false)
	}
	if !found {
		m.setStatus("Pattern not found")
		return
	}
	m.workspace.Reveal()
	pos := buf.LastMatch()
	m.setStatus(fmt.Sprintf("Match at Ln %d, Col %d", pos.Line+1, pos.Column+1))
}

// replaceNext replaces the highlighted match and moves to the next one. With
// no match highlighted it only searches.
func (m *Model) replaceNext(replacement string) {
	buf := m.workspace.Buffer()
	if buf.ReplaceNext(replacement) {
		m.workspace.MarkModified()
		if buf.SearchForward(false) {
			m.workspace.Reveal()
			m.setStatus("Replaced 1 occurrence")
		} else {
			m.setStatus("Replaced 1 occurrence, no more matches")
		}
		return
	}
	if buf.SearchForward(false) {
		m.workspace.Reveal()
		m.setStatus("Press Enter to replace the highlighted match")
		return
	}
	m.setStatus("Pattern not found")
}

func (m *Model) replaceAll(replacement string) {
	n := m.workspace.Buffer().ReplaceAll(replacement)
	if n > 0 {
		m.workspace.MarkModified()
	}
	m.closeBar()
	m.workspace.Reveal()
	m.setStatus(fmt.Sprintf("Replaced %d occurrences", n))
}

// runCommand executes a command-mode line and reports whether to quit.
func (m *Model) runCommand(line string) bool {
	cmd := strings.TrimPrefix(strings.TrimSpace(line), ":")
	switch cmd {
	case "":
		return false
	case "w":
		m.saveQuery()
	case "q":
		return m.requestQuit()
	case "q!":
		return true
	case "wq":
		if m.saveQuery() {
			return true
		}
	case "run":
		m.runQuery()
	default:
		m.setError("Unknown command: " + cmd)
	}
	return false
}
