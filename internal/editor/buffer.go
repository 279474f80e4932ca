// Package editor implements the query text buffer: rune-addressed editing,
// pattern search and replace, and syntax-highlighted rendering.
package editor

import (
	"strings"
)

// Position is a (line, column) pair. Columns count runes, not bytes.
type Position struct {
	Line   int
	Column int
}

// Buffer is a line-oriented text buffer with a single cursor.
type Buffer struct {
	lines []string
	row   int
	col   int

	// Search state
	pattern   string
	lastMatch Position

	scroll int
}

// NewBuffer creates a buffer holding content.
func NewBuffer(content string) *Buffer {
	b := &Buffer{}
	b.SetContent(content)
	return b
}

// NewBufferFromLines creates a buffer from pre-split lines. An empty slice
// yields an empty buffer with zero lines.
func NewBufferFromLines(lines []string) *Buffer {
	b := &Buffer{lines: make([]string, len(lines))}
	copy(b.lines, lines)
	return b
}

// SetContent replaces the whole buffer and moves the cursor to the top.
func (b *Buffer) SetContent(content string) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	b.lines = strings.Split(content, "\n")
	b.row, b.col, b.scroll = 0, 0, 0
	b.lastMatch = Position{}
}

// Content returns the buffer text with trailing empty lines removed.
func (b *Buffer) Content() string {
	end := len(b.lines)
	for end > 0 && b.lines[end-1] == "" {
		end--
	}
	return strings.Join(b.lines[:end], "\n")
}

// Lines returns a copy of the buffer lines.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Cursor returns the cursor position.
func (b *Buffer) Cursor() Position {
	return Position{Line: b.row, Column: b.col}
}

// Jump moves the cursor to (row, col), clamped to the buffer.
func (b *Buffer) Jump(row, col int) {
	b.ensureLine()
	row = clamp(row, 0, len(b.lines)-1)
	b.row = row
	b.col = clamp(col, 0, b.lineLen(row))
}

// InsertRune inserts r at the cursor.
func (b *Buffer) InsertRune(r rune) {
	if r == '\n' {
		b.Newline()
		return
	}
	b.ensureLine()
	line := []rune(b.lines[b.row])
	line = append(line[:b.col], append([]rune{r}, line[b.col:]...)...)
	b.lines[b.row] = string(line)
	b.col++
}

// InsertString inserts s at the cursor, splitting on newlines.
func (b *Buffer) InsertString(s string) {
	for _, r := range strings.ReplaceAll(s, "\r\n", "\n") {
		b.InsertRune(r)
	}
}

// Newline splits the current line at the cursor.
func (b *Buffer) Newline() {
	b.ensureLine()
	line := []rune(b.lines[b.row])
	head, tail := string(line[:b.col]), string(line[b.col:])

	b.lines[b.row] = head
	b.lines = append(b.lines[:b.row+1], append([]string{tail}, b.lines[b.row+1:]...)...)
	b.row++
	b.col = 0
}

// Backspace deletes the rune before the cursor, joining lines at column 0.
func (b *Buffer) Backspace() {
	b.ensureLine()
	if b.col > 0 {
		line := []rune(b.lines[b.row])
		b.lines[b.row] = string(append(line[:b.col-1], line[b.col:]...))
		b.col--
		return
	}
	if b.row == 0 {
		return
	}
	prevLen := b.lineLen(b.row - 1)
	b.lines[b.row-1] += b.lines[b.row]
	b.lines = append(b.lines[:b.row], b.lines[b.row+1:]...)
	b.row--
	b.col = prevLen
}

// DeleteForward deletes the rune under the cursor, joining lines at the end.
func (b *Buffer) DeleteForward() {
	b.ensureLine()
	line := []rune(b.lines[b.row])
	if b.col < len(line) {
		b.lines[b.row] = string(append(line[:b.col], line[b.col+1:]...))
		return
	}
	if b.row+1 >= len(b.lines) {
		return
	}
	b.lines[b.row] += b.lines[b.row+1]
	b.lines = append(b.lines[:b.row+1], b.lines[b.row+2:]...)
}

// DeleteLine removes the cursor line entirely.
func (b *Buffer) DeleteLine() {
	if len(b.lines) <= 1 {
		b.lines = []string{""}
		b.row, b.col = 0, 0
		return
	}
	b.lines = append(b.lines[:b.row], b.lines[b.row+1:]...)
	if b.row >= len(b.lines) {
		b.row = len(b.lines) - 1
	}
	b.col = min(b.col, b.lineLen(b.row))
}

// MoveLeft moves the cursor one rune left, wrapping to the previous line.
func (b *Buffer) MoveLeft() {
	switch {
	case b.col > 0:
		b.col--
	case b.row > 0:
		b.row--
		b.col = b.lineLen(b.row)
	}
}

// MoveRight moves the cursor one rune right, wrapping to the next line.
func (b *Buffer) MoveRight() {
	switch {
	case b.col < b.lineLen(b.row):
		b.col++
	case b.row+1 < len(b.lines):
		b.row++
		b.col = 0
	}
}

// MoveUp moves the cursor up one line.
func (b *Buffer) MoveUp() {
	if b.row > 0 {
		b.row--
		b.col = min(b.col, b.lineLen(b.row))
	}
}

// MoveDown moves the cursor down one line.
func (b *Buffer) MoveDown() {
	if b.row+1 < len(b.lines) {
		b.row++
		b.col = min(b.col, b.lineLen(b.row))
	}
}

// Home moves to the start of the line.
func (b *Buffer) Home() { b.col = 0 }

// End moves to the end of the line.
func (b *Buffer) End() { b.col = b.lineLen(b.row) }

// Top moves to the start of the buffer.
func (b *Buffer) Top() { b.row, b.col = 0, 0 }

// Bottom moves to the end of the buffer.
func (b *Buffer) Bottom() {
	if len(b.lines) == 0 {
		return
	}
	b.row = len(b.lines) - 1
	b.col = b.lineLen(b.row)
}

func (b *Buffer) lineLen(row int) int {
	if row < 0 || row >= len(b.lines) {
		return 0
	}
	return len([]rune(b.lines[row]))
}

// ensureLine gives an empty buffer a single empty line so edits have a target.
func (b *Buffer) ensureLine() {
	if len(b.lines) == 0 {
		b.lines = []string{""}
		b.row, b.col = 0, 0
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
