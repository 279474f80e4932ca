package panes

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/avitaltamir/sqli/internal/layout"
	"github.com/avitaltamir/sqli/internal/navigation"
	"github.com/avitaltamir/sqli/internal/theme"
)

// Header sub-elements.
const (
	HeaderSelector = iota
	HeaderRunButton
	headerElementCount
)

const (
	connectionLabel = "Connection "
	runLabel        = "Run Query"
	noConnections   = "no connections"
)

// Header shows the connection selector and the run button.
type Header struct {
	connections []string
	selected    int

	running bool
	frame   int

	area     layout.Rect
	prevRect layout.Rect
	nextRect layout.Rect
	selRect  layout.Rect
	runRect  layout.Rect
}

// NewHeader creates an empty header.
func NewHeader() *Header {
	return &Header{}
}

func (h *Header) ID() navigation.PaneID { return navigation.Header }

func (h *Header) ElementCount() int { return headerElementCount }

func (h *Header) Area() layout.Rect { return h.area }

// SetArea stores the pane rectangle and lays out its controls.
func (h *Header) SetArea(area layout.Rect) {
	h.area = area
	h.layoutControls()
}

// SetConnections replaces the selectable connections and selects current if
// present.
func (h *Header) SetConnections(names []string, current string) {
	h.connections = append([]string(nil), names...)
	h.selected = 0
	for i, n := range h.connections {
		if n == current {
			h.selected = i
		}
	}
	h.layoutControls()
}

// Connection returns the selected connection name.
func (h *Header) Connection() (string, bool) {
	if len(h.connections) == 0 {
		return "", false
	}
	return h.connections[h.selected], true
}

// SetRunning toggles the spinner on the run button.
func (h *Header) SetRunning(running bool) {
	h.running = running
	h.frame = 0
}

// Running reports whether a query is in flight.
func (h *Header) Running() bool {
	return h.running
}

// Tick advances the spinner.
func (h *Header) Tick() {
	if h.running {
		h.frame = (h.frame + 1) % len(theme.SpinnerDots)
	}
}

func (h *Header) selectorText() string {
	name, ok := h.Connection()
	if !ok {
		name = noConnections
	}
	return theme.SelectorLeft + " " + name + " " + theme.SelectorRight
}

func (h *Header) runText() string {
	icon := "▶"
	if h.running {
		icon = theme.SpinnerDots[h.frame]
	}
	return "[ " + icon + " " + runLabel + " ]"
}

// layoutControls places the selector after its label and the run button at
// the right edge of the single inner row.
func (h *Header) layoutControls() {
	if h.area.Empty() {
		return
	}
	inner := h.area.Inner(1)

	x := inner.X + 1 + ansi.StringWidth(connectionLabel)
	selWidth := ansi.StringWidth(h.selectorText())
	h.selRect = layout.Rect{X: x, Y: inner.Y, Width: selWidth, Height: 1}
	h.prevRect = layout.Rect{X: x, Y: inner.Y, Width: 1, Height: 1}
	h.nextRect = layout.Rect{X: x + selWidth - 1, Y: inner.Y, Width: 1, Height: 1}

	runWidth := ansi.StringWidth(h.runText())
	h.runRect = layout.Rect{X: inner.X + inner.Width - runWidth - 1, Y: inner.Y, Width: runWidth, Height: 1}
}

func (h *Header) cycle(delta int) Command {
	if len(h.connections) == 0 {
		return None()
	}
	h.selected = (h.selected + delta + len(h.connections)) % len(h.connections)
	h.layoutControls()
	return Command{Kind: CmdSelectConnection, Connection: h.connections[h.selected]}
}

// HandleActiveKey handles keys while the header is active.
func (h *Header) HandleActiveKey(msg tea.KeyMsg, nav *navigation.Manager) (Command, error) {
	switch msg.String() {
	case "enter":
		return None(), nav.StartEditing(h.ID())
	case "down", "j":
		return None(), nav.ActivatePane(navigation.Collections)
	}
	return None(), nil
}

// HandleEditingKey handles keys while the header is editing.
func (h *Header) HandleEditingKey(msg tea.KeyMsg, nav *navigation.Manager) (Command, error) {
	current, err := nav.CurrentElement(h.ID())
	if err != nil {
		return None(), err
	}

	switch msg.String() {
	case "esc":
		return None(), nav.StopEditing(h.ID())
	case "left", "h":
		if current == HeaderSelector {
			return h.cycle(-1), nil
		}
		return None(), nav.SetCurrentElement(h.ID(), HeaderSelector)
	case "right", "l":
		if current == HeaderSelector {
			return h.cycle(1), nil
		}
	case "enter":
		if current == HeaderRunButton {
			return Command{Kind: CmdRunQuery}, nil
		}
		return None(), nav.SetCurrentElement(h.ID(), HeaderRunButton)
	}
	return None(), nil
}

// HandleClick handles presses on the selector arrows and the run button.
func (h *Header) HandleClick(msg tea.MouseMsg, info navigation.PaneInfo) (Command, bool) {
	switch {
	case h.runRect.Contains(msg.X, msg.Y):
		return Command{Kind: CmdRunQuery}, true
	case h.prevRect.Contains(msg.X, msg.Y):
		return h.cycle(-1), true
	case h.nextRect.Contains(msg.X, msg.Y):
		return h.cycle(1), true
	}
	return None(), false
}

func (h *Header) HandleScroll(delta int) {}

// Hints lists the header's keys for the footer.
func (h *Header) Hints(focus navigation.FocusType) []Hint {
	if focus == navigation.Editing {
		return []Hint{
			{Key: "←/→", Desc: "connection"},
			{Key: "Tab", Desc: "next control"},
			{Key: "Enter", Desc: "run"},
			{Key: "Esc", Desc: "done"},
		}
	}
	return []Hint{
		{Key: "Enter", Desc: "edit"},
		{Key: "↓", Desc: "collections"},
	}
}

// View renders the header.
func (h *Header) View(info navigation.PaneInfo) string {
	if h.area.Empty() {
		return ""
	}

	editing := info.Focus == navigation.Editing
	selStyle := lipgloss.NewStyle().Foreground(theme.PureWhite)
	runStyle := lipgloss.NewStyle().Foreground(theme.MatrixGreen).Bold(true)
	if editing && info.CurrentElement == HeaderSelector {
		selStyle = selStyle.Foreground(theme.ElectricYellow).Bold(true)
	}
	if editing && info.CurrentElement == HeaderRunButton {
		runStyle = runStyle.Background(theme.Twilight).Foreground(theme.MagentaBlaze)
	}
	if h.running {
		runStyle = runStyle.Foreground(theme.ElectricYellow)
	}

	inner := h.area.Inner(1)
	left := " " + theme.ModalLabel.Render(connectionLabel) + selStyle.Render(h.selectorText())
	right := runStyle.Render(h.runText()) + " "
	gap := max(inner.Width-ansi.StringWidth(left)-ansi.StringWidth(right), 1)
	row := left + strings.Repeat(" ", gap) + right

	opts := theme.PanelTitleOptions{Title: theme.PanelDiamond + " SQLI", ScrollPercent: -1}
	return theme.RenderPanelWithTitle(row, opts, h.area.Width, h.area.Height, info.Focus)
}
