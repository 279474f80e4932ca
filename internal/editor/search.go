package editor

import (
	"strings"
	"unicode/utf8"
)

// SetSearchPattern sets the active pattern and anchors the next search at
// the cursor. An empty pattern disables searching.
func (b *Buffer) SetSearchPattern(pattern string) {
	b.pattern = pattern
	b.lastMatch = b.Cursor()
}

// Pattern returns the active search pattern.
func (b *Buffer) Pattern() string {
	return b.pattern
}

// LastMatch returns the position of the most recent match.
func (b *Buffer) LastMatch() Position {
	return b.lastMatch
}

// SearchForward finds the next occurrence of the pattern after the last
// match, or from the top of the buffer when fromStart is set. When the scan
// reaches the end without a hit it wraps to the top and searches up to the
// original position.
func (b *Buffer) SearchForward(fromStart bool) bool {
	if b.pattern == "" || len(b.lines) == 0 {
		return false
	}

	start := Position{}
	if !fromStart {
		if !b.validLine(b.lastMatch.Line) {
			return false
		}
		start = Position{Line: b.lastMatch.Line, Column: b.lastMatch.Column + 1}
	}

	col := start.Column
	for i := start.Line; i < len(b.lines); i++ {
		if i > start.Line {
			col = 0
		}
		if c := indexFrom(b.lines[i], b.pattern, col); c >= 0 {
			b.recordMatch(i, c)
			return true
		}
	}

	if fromStart {
		return false
	}

	origin := b.lastMatch
	for i := 0; i <= origin.Line; i++ {
		c := indexFrom(b.lines[i], b.pattern, 0)
		if c < 0 || (i == origin.Line && c > origin.Column) {
			continue
		}
		b.recordMatch(i, c)
		return true
	}
	return false
}

// SearchBack finds the previous occurrence of the pattern before the last
// match, or from the end of the buffer when fromEnd is set. It wraps to the
// bottom symmetrically to SearchForward.
func (b *Buffer) SearchBack(fromEnd bool) bool {
	if b.pattern == "" || len(b.lines) == 0 {
		return false
	}

	var start Position
	if fromEnd {
		last := len(b.lines) - 1
		start = Position{Line: last, Column: b.lineLen(last)}
	} else {
		if !b.validLine(b.lastMatch.Line) {
			return false
		}
		start = b.lastMatch
	}

	col := start.Column
	for i := start.Line; i >= 0; i-- {
		if i < start.Line {
			col = b.lineLen(i)
		}
		if c := lastIndexBefore(b.lines[i], b.pattern, col); c >= 0 {
			b.recordMatch(i, c)
			return true
		}
	}

	if fromEnd {
		return false
	}

	origin := b.lastMatch
	for i := len(b.lines) - 1; i >= origin.Line; i-- {
		c := lastIndexBefore(b.lines[i], b.pattern, b.lineLen(i))
		if c < 0 || (i == origin.Line && c < origin.Column) {
			continue
		}
		b.recordMatch(i, c)
		return true
	}
	return false
}

// ReplaceNext replaces the match at the last match position, provided the
// pattern still matches there exactly. The last match moves to the end of
// the inserted text.
func (b *Buffer) ReplaceNext(replacement string) bool {
	if b.pattern == "" {
		return false
	}

	pos := b.lastMatch
	if !b.validLine(pos.Line) || pos.Column < 0 {
		return false
	}

	line := []rune(b.lines[pos.Line])
	pat := []rune(b.pattern)
	end := pos.Column + len(pat)
	if end > len(line) || string(line[pos.Column:end]) != b.pattern {
		return false
	}

	b.lines[pos.Line] = string(line[:pos.Column]) + replacement + string(line[end:])

	b.lastMatch.Column = pos.Column + utf8.RuneCountInString(replacement)
	b.Jump(pos.Line, b.lastMatch.Column)
	return true
}

// ReplaceAll replaces every occurrence of the pattern in the buffer and
// returns the number of replacements. Each line is scanned left to right and
// the scan resumes at the end of the inserted text, so replacement text is
// never searched again.
//
// The pass is bounded by the occurrences counted before it starts, and it
// also stops if a match lands on the previous position of an unchanged line.
func (b *Buffer) ReplaceAll(replacement string) int {
	if b.pattern == "" || len(b.lines) == 0 {
		return 0
	}

	limit := 0
	for _, line := range b.lines {
		limit += strings.Count(line, b.pattern)
	}

	var (
		count    int
		prev     Position
		prevLine string
		havePrev bool
	)

	for i := 0; i < len(b.lines) && count < limit; i++ {
		col := 0
		for count < limit {
			c := indexFrom(b.lines[i], b.pattern, col)
			if c < 0 {
				break
			}
			cur := Position{Line: i, Column: c}
			if havePrev && cur == prev && b.lines[i] == prevLine {
				break
			}

			b.lastMatch = cur
			if !b.ReplaceNext(replacement) {
				break
			}
			count++
			prev, prevLine, havePrev = cur, b.lines[i], true
			col = b.lastMatch.Column
		}
	}

	return count
}

func (b *Buffer) recordMatch(line, col int) {
	b.lastMatch = Position{Line: line, Column: col}
	b.Jump(line, col)
}

func (b *Buffer) validLine(line int) bool {
	return line >= 0 && line < len(b.lines)
}

// indexFrom returns the rune column of the first occurrence of pattern in
// line at or after column from, or -1.
func indexFrom(line, pattern string, from int) int {
	runes := []rune(line)
	if from < 0 {
		from = 0
	}
	if from > len(runes) {
		return -1
	}
	sub := string(runes[from:])
	i := strings.Index(sub, pattern)
	if i < 0 {
		return -1
	}
	return from + utf8.RuneCountInString(sub[:i])
}

// lastIndexBefore returns the rune column of the last occurrence of pattern
// lying entirely before column end, or -1.
func lastIndexBefore(line, pattern string, end int) int {
	runes := []rune(line)
	if end > len(runes) {
		end = len(runes)
	}
	if end < 0 {
		return -1
	}
	sub := string(runes[:end])
	i := strings.LastIndex(sub, pattern)
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(sub[:i])
}
