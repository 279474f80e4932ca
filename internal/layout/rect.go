package layout

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Rect is a cell rectangle on screen. X and Y are the top-left corner.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Inner shrinks r by margin cells on every side.
func (r Rect) Inner(margin int) Rect {
	out := Rect{
		X:      r.X + margin,
		Y:      r.Y + margin,
		Width:  r.Width - 2*margin,
		Height: r.Height - 2*margin,
	}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

// Centered returns a rectangle of percentX by percentY of r, centered in r.
func (r Rect) Centered(percentX, percentY int) Rect {
	w := r.Width * percentX / 100
	h := r.Height * percentY / 100
	return Rect{
		X:      r.X + (r.Width-w)/2,
		Y:      r.Y + (r.Height-h)/2,
		Width:  w,
		Height: h,
	}
}

// SplitBottom carves a strip of height rows off the bottom of r.
func (r Rect) SplitBottom(height int) (top, bottom Rect) {
	if height > r.Height {
		height = r.Height
	}
	top = Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height - height}
	bottom = Rect{X: r.X, Y: r.Y + r.Height - height, Width: r.Width, Height: height}
	return top, bottom
}

// Overlay draws block over bg with its top-left corner at r. Rows of block
// beyond r.Height are dropped. bg may contain ANSI styling.
func Overlay(bg, block string, r Rect) string {
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < r.Y+r.Height {
		bgLines = append(bgLines, "")
	}

	for i, line := range strings.Split(block, "\n") {
		if i >= r.Height {
			break
		}
		y := r.Y + i
		if y < 0 {
			continue
		}
		base := bgLines[y]
		left := ansi.Truncate(base, r.X, "")
		if w := ansi.StringWidth(left); w < r.X {
			left += strings.Repeat(" ", r.X-w)
		}
		right := ansi.Cut(base, r.X+r.Width, ansi.StringWidth(base))
		bgLines[y] = left + resetStyle + line + resetStyle + right
	}
	return strings.Join(bgLines, "\n")
}

const resetStyle = "\x1b[0m"
