package editor

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/avitaltamir/sqli/internal/theme"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

const gutterWidth = 4

// EnsureVisible adjusts the scroll offset so the cursor row is within a
// viewport of height rows.
func (b *Buffer) EnsureVisible(height int) {
	if height <= 0 {
		return
	}
	if b.row < b.scroll {
		b.scroll = b.row
	}
	if b.row >= b.scroll+height {
		b.scroll = b.row - height + 1
	}
	if b.scroll < 0 {
		b.scroll = 0
	}
}

// ScrollBy moves the viewport without moving the cursor.
func (b *Buffer) ScrollBy(delta int) {
	b.scroll = clamp(b.scroll+delta, 0, max(len(b.lines)-1, 0))
}

// Scroll returns the index of the first visible line.
func (b *Buffer) Scroll() int {
	return b.scroll
}

// ScreenToPosition converts a cell offset inside the rendered text area
// (excluding the gutter) to a buffer position.
func (b *Buffer) ScreenToPosition(x, y int) Position {
	row := clamp(b.scroll+y, 0, max(len(b.lines)-1, 0))
	x -= gutterWidth + 3
	if x < 0 || row >= len(b.lines) {
		return Position{Line: row}
	}

	col, cells := 0, 0
	for _, r := range b.lines[row] {
		w := runewidth.RuneWidth(r)
		if cells+w > x {
			break
		}
		cells += w
		col++
	}
	return Position{Line: row, Column: col}
}

// Render draws the visible part of the buffer with line numbers and SQL
// highlighting. The current match and, when showCursor is set, the cursor
// are overlaid on top of the highlighted text.
func (b *Buffer) Render(width, height int, showCursor bool) string {
	if height <= 0 {
		return ""
	}

	highlighted := strings.Split(Highlight(strings.Join(b.lines, "\n")), "\n")

	lineNumStyle := lipgloss.NewStyle().Foreground(theme.DimPurple)
	currentNumStyle := lipgloss.NewStyle().Foreground(theme.CyberCyan).Bold(true)
	sep := lipgloss.NewStyle().Foreground(theme.DimPurple).Render(" │ ")

	var out []string
	for i := b.scroll; i < len(b.lines) && len(out) < height; i++ {
		line := b.lines[i]
		hl := line
		if i < len(highlighted) {
			hl = highlighted[i]
		}

		if b.pattern != "" && i == b.lastMatch.Line {
			hl = overlayMatch(line, hl, b.lastMatch.Column, runewidth.StringWidth(b.pattern))
		}
		if showCursor && i == b.row {
			hl = overlayCursor(line, hl, b.col)
		}

		num := lineNumStyle.Render(padLeft(i+1, gutterWidth))
		if i == b.row {
			num = currentNumStyle.Render(padLeft(i+1, gutterWidth))
		}
		out = append(out, num+sep+hl)
	}

	if len(out) == 0 && showCursor {
		out = append(out, currentNumStyle.Render(padLeft(1, gutterWidth))+sep+cursorStyle().Render(" "))
	}

	return strings.Join(out, "\n")
}

// Highlight returns source with ANSI SQL syntax colouring.
func Highlight(source string) string {
	lexer := lexers.Get("sql")
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}
	return buf.String()
}

// overlayMatch paints the cells of the current match on top of a
// highlighted line. Columns are runes in raw and cells in hl.
func overlayMatch(raw, hl string, col, cells int) string {
	start := runewidth.StringWidth(string(prefixRunes(raw, col)))
	style := lipgloss.NewStyle().Background(theme.ElectricYellow).Foreground(lipgloss.Color("0"))

	total := ansi.StringWidth(hl)
	if start >= total {
		return hl
	}
	end := min(start+cells, total)
	return ansi.Cut(hl, 0, start) + style.Render(ansi.Strip(ansi.Cut(hl, start, end))) + ansi.Cut(hl, end, total)
}

// overlayCursor renders the cell under the cursor in reverse video.
func overlayCursor(raw, hl string, col int) string {
	rs := []rune(raw)
	start := runewidth.StringWidth(string(prefixRunes(raw, col)))
	total := ansi.StringWidth(hl)

	if col >= len(rs) || start >= total {
		return hl + cursorStyle().Render(" ")
	}

	r := rs[col]
	end := start + max(runewidth.RuneWidth(r), 1)
	return ansi.Cut(hl, 0, start) + cursorStyle().Render(string(r)) + ansi.Cut(hl, end, total)
}

func cursorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Reverse(true)
}

func prefixRunes(s string, n int) []rune {
	r := []rune(s)
	if n > len(r) {
		n = len(r)
	}
	if n < 0 {
		n = 0
	}
	return r[:n]
}

func padLeft(n, width int) string {
	s := strconv.Itoa(n)
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
