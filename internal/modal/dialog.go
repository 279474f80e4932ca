package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/avitaltamir/sqli/internal/layout"
	"github.com/avitaltamir/sqli/internal/theme"
)

// Dialog geometry
const (
	DefaultWidthPercent  = 40
	DefaultHeightPercent = 35

	ButtonWidth  = 12
	ButtonHeight = 3
	ButtonGap    = 2

	dialogMargin     = 1
	minContentHeight = 3
)

// Button is one entry in a dialog's button row.
type Button struct {
	ID     ButtonID
	Label  string
	Danger bool
}

// Dialog is the frame shared by every modal: a centered, titled box with a
// content region above a row of buttons.
//
// Geometry is computed by SetArea and kept until the next call, so the
// rectangles View draws are exactly the ones HitTest checks.
type Dialog struct {
	Title         string
	WidthPercent  int
	HeightPercent int
	Buttons       []Button

	// FocusedButton is the index into Buttons drawn as focused, or -1.
	FocusedButton int

	frame       layout.Rect
	content     layout.Rect
	buttonRects []layout.Rect
}

// NewDialog creates a dialog sized widthPercent by heightPercent of the area
// it is later given. Zero percentages use the defaults.
func NewDialog(title string, widthPercent, heightPercent int, buttons ...Button) *Dialog {
	if widthPercent <= 0 {
		widthPercent = DefaultWidthPercent
	}
	if heightPercent <= 0 {
		heightPercent = DefaultHeightPercent
	}
	return &Dialog{
		Title:         title,
		WidthPercent:  widthPercent,
		HeightPercent: heightPercent,
		Buttons:       buttons,
		FocusedButton: -1,
	}
}

// minSize returns the smallest frame that still fits the button row and a
// content region.
func (d *Dialog) minSize() (int, int) {
	n := len(d.Buttons)
	buttons := n*ButtonWidth + max(n-1, 0)*ButtonGap
	w := buttons + 2 + 2*dialogMargin
	h := minContentHeight + ButtonHeight + 2 + 2*dialogMargin
	return w, h
}

// SetArea lays the dialog out inside area.
func (d *Dialog) SetArea(area layout.Rect) {
	frame := area.Centered(d.WidthPercent, d.HeightPercent)

	minW, minH := d.minSize()
	if frame.Width < minW {
		frame.Width = min(minW, area.Width)
		frame.X = area.X + (area.Width-frame.Width)/2
	}
	if frame.Height < minH {
		frame.Height = min(minH, area.Height)
		frame.Y = area.Y + (area.Height-frame.Height)/2
	}
	d.frame = frame

	inner := frame.Inner(1).Inner(dialogMargin)
	content, row := inner.SplitBottom(ButtonHeight)
	d.content = content

	n := len(d.Buttons)
	total := n*ButtonWidth + max(n-1, 0)*ButtonGap
	x := row.X + max((row.Width-total)/2, 0)

	d.buttonRects = make([]layout.Rect, n)
	for i := range d.Buttons {
		d.buttonRects[i] = layout.Rect{X: x, Y: row.Y, Width: ButtonWidth, Height: row.Height}
		x += ButtonWidth + ButtonGap
	}
}

// Rect returns the frame rectangle from the last SetArea.
func (d *Dialog) Rect() layout.Rect {
	return d.frame
}

// ContentRect returns the region the modal's fields are drawn in.
func (d *Dialog) ContentRect() layout.Rect {
	return d.content
}

// ButtonRects returns the button rectangles from the last SetArea.
func (d *Dialog) ButtonRects() []layout.Rect {
	return d.buttonRects
}

// HitTest maps a left press to an action. It returns Close outside the
// frame and Custom on a button. ok is false when the press landed inside the
// frame but on no button, leaving it to the content.
func (d *Dialog) HitTest(msg tea.MouseMsg) (action Action, ok bool) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return None(), true
	}
	if !d.frame.Contains(msg.X, msg.Y) {
		return Close(), true
	}
	for i, r := range d.buttonRects {
		if r.Contains(msg.X, msg.Y) {
			return Custom(d.Buttons[i].ID), true
		}
	}
	return None(), false
}

// ButtonIndex returns the index of the button with id, or -1.
func (d *Dialog) ButtonIndex(id ButtonID) int {
	for i, b := range d.Buttons {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// Render draws the frame around content, which is clipped to ContentRect.
func (d *Dialog) Render(content string) string {
	f := d.frame
	if f.Width < 4 || f.Height < 3 {
		return ""
	}

	border := theme.DoubleBorder
	borderStyle := lipgloss.NewStyle().Foreground(theme.CyberCyan)
	innerWidth := f.Width - 2

	lines := make([]string, 0, f.Height)
	lines = append(lines, d.titleBorder(innerWidth, border, borderStyle))

	body := make([]string, f.Height-2)
	for i := range body {
		body[i] = strings.Repeat(" ", innerWidth)
	}

	// Content rows relative to the inside of the border.
	offX := d.content.X - f.X - 1
	offY := d.content.Y - f.Y - 1
	for i, line := range strings.Split(content, "\n") {
		if i >= d.content.Height {
			break
		}
		body[offY+i] = padCells(offX) + fit(line, d.content.Width) + padCells(innerWidth-offX-d.content.Width)
	}

	if len(d.buttonRects) > 0 {
		rowY := d.buttonRects[0].Y - f.Y - 1
		btnLines := d.renderButtons()
		startX := d.buttonRects[0].X - f.X - 1
		for i, l := range btnLines {
			y := rowY + i
			if y < 0 || y >= len(body) {
				continue
			}
			lineWidth := ansi.StringWidth(l)
			body[y] = padCells(startX) + l + padCells(innerWidth-startX-lineWidth)
		}
	}

	for _, l := range body {
		lines = append(lines, borderStyle.Render(border.Left)+fit(l, innerWidth)+borderStyle.Render(border.Right))
	}
	lines = append(lines, borderStyle.Render(border.BottomLeft+strings.Repeat(border.Bottom, innerWidth)+border.BottomRight))

	return strings.Join(lines, "\n")
}

func (d *Dialog) titleBorder(innerWidth int, border lipgloss.Border, style lipgloss.Style) string {
	title := " " + d.Title + " "
	title = ansi.Truncate(title, innerWidth, "")
	tw := ansi.StringWidth(title)
	left := (innerWidth - tw) / 2
	right := innerWidth - tw - left
	return style.Render(border.TopLeft+strings.Repeat(border.Top, left)) +
		theme.ModalTitle.Render(title) +
		style.Render(strings.Repeat(border.Top, right)+border.TopRight)
}

// renderButtons draws the button row as ButtonHeight lines.
func (d *Dialog) renderButtons() []string {
	rows := make([]string, ButtonHeight)
	gap := padCells(ButtonGap)
	for i, b := range d.Buttons {
		style := theme.ButtonNormal
		switch {
		case i == d.FocusedButton:
			style = theme.ButtonFocused
		case b.Danger:
			style = theme.ButtonDanger
		}
		fg := lipgloss.NewStyle().Foreground(style.GetForeground()).Bold(i == d.FocusedButton)
		edge := lipgloss.NewStyle().Foreground(style.GetBorderTopForeground())

		label := ansi.Truncate(b.Label, ButtonWidth-2, "")
		lw := ansi.StringWidth(label)
		lpad := (ButtonWidth - 2 - lw) / 2
		rpad := ButtonWidth - 2 - lw - lpad

		if i > 0 {
			for r := range rows {
				rows[r] += gap
			}
		}
		rows[0] += edge.Render("╭" + strings.Repeat("─", ButtonWidth-2) + "╮")
		rows[1] += edge.Render("│") + padCells(lpad) + fg.Render(label) + padCells(rpad) + edge.Render("│")
		rows[2] += edge.Render("╰" + strings.Repeat("─", ButtonWidth-2) + "╯")
	}
	return rows
}

func padCells(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// fit truncates or pads s to exactly width cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	return s + padCells(width-ansi.StringWidth(s))
}
