package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/avitaltamir/sqli/internal/theme"
)

// RadioOption is one choice in a RadioGroup.
type RadioOption struct {
	Label string
	Value string
}

// RadioGroup is a single-line, single-choice selector.
type RadioGroup struct {
	Options  []RadioOption
	selected int
}

// NewRadioGroup creates a group with the first option selected.
func NewRadioGroup(options ...RadioOption) *RadioGroup {
	return &RadioGroup{Options: options}
}

// Selected returns the selected index.
func (g *RadioGroup) Selected() int {
	return g.selected
}

// SetSelected selects index i if it exists.
func (g *RadioGroup) SetSelected(i int) {
	if i >= 0 && i < len(g.Options) {
		g.selected = i
	}
}

// Value returns the selected option's value.
func (g *RadioGroup) Value() string {
	if len(g.Options) == 0 {
		return ""
	}
	return g.Options[g.selected].Value
}

// Next selects the following option, wrapping.
func (g *RadioGroup) Next() {
	if len(g.Options) > 0 {
		g.selected = (g.selected + 1) % len(g.Options)
	}
}

// Previous selects the preceding option, wrapping.
func (g *RadioGroup) Previous() {
	if len(g.Options) > 0 {
		g.selected = (g.selected - 1 + len(g.Options)) % len(g.Options)
	}
}

// HandleKey moves the selection with the arrow keys and reports whether the
// key was consumed.
func (g *RadioGroup) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyLeft, tea.KeyUp:
		g.Previous()
		return true
	case tea.KeyRight, tea.KeyDown, tea.KeySpace:
		g.Next()
		return true
	}
	return false
}

// HandleClick selects the option under column x, measured from the start of
// the rendered line. It reports whether an option was hit.
func (g *RadioGroup) HandleClick(x int) bool {
	pos := 0
	for i, opt := range g.Options {
		w := optionWidth(opt)
		if x >= pos && x < pos+w {
			g.selected = i
			return true
		}
		pos += w + radioSpacing
	}
	return false
}

const radioSpacing = 2

func optionWidth(opt RadioOption) int {
	return ansi.StringWidth(theme.RadioOn + " " + opt.Label)
}

// View renders the options on one line, highlighting the focused group.
func (g *RadioGroup) View(focused bool) string {
	on := lipgloss.NewStyle().Foreground(theme.CyberCyan).Bold(true)
	off := theme.TextBody
	if focused {
		on = on.Foreground(theme.ElectricYellow)
	}

	parts := make([]string, len(g.Options))
	for i, opt := range g.Options {
		if i == g.selected {
			parts[i] = on.Render(theme.RadioOn + " " + opt.Label)
		} else {
			parts[i] = off.Render(theme.RadioOff + " " + opt.Label)
		}
	}
	return strings.Join(parts, strings.Repeat(" ", radioSpacing))
}
