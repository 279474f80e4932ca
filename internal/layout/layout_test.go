package layout

import (
	"testing"

	"github.com/avitaltamir/sqli/internal/navigation"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name          string
		width         int
		height        int
		percent       int
		barVisible    bool
		wantLeft      int
		wantRight     int
		wantWorkspace int
		wantResults   int
	}{
		{
			name:          "standard layout",
			width:         100,
			height:        40,
			percent:       DefaultCollectionsPercent,
			wantLeft:      20,
			wantRight:     80,
			wantWorkspace: 24, // 70% of 35
			wantResults:   11,
		},
		{
			name:          "bar takes a row from the main area",
			width:         100,
			height:        40,
			percent:       DefaultCollectionsPercent,
			barVisible:    true,
			wantLeft:      20,
			wantRight:     80,
			wantWorkspace: 23, // 70% of 34
			wantResults:   11,
		},
		{
			name:          "small terminal respects min width",
			width:         60,
			height:        20,
			percent:       DefaultCollectionsPercent,
			wantLeft:      20,
			wantRight:     40,
			wantWorkspace: 10,
			wantResults:   5,
		},
		{
			name:          "percent below minimum is clamped",
			width:         200,
			height:        40,
			percent:       5,
			wantLeft:      30,
			wantRight:     170,
			wantWorkspace: 24,
			wantResults:   11,
		},
		{
			name:          "percent above maximum is clamped",
			width:         200,
			height:        40,
			percent:       90,
			wantLeft:      100,
			wantRight:     100,
			wantWorkspace: 24,
			wantResults:   11,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Calculate(tt.width, tt.height, tt.percent, tt.barVisible)

			assert.Equal(t, tt.wantLeft, l.Collections.Width, "collections width")
			assert.Equal(t, tt.wantRight, l.Workspace.Width, "workspace width")
			assert.Equal(t, tt.wantRight, l.Results.Width, "results width")
			assert.Equal(t, tt.wantWorkspace, l.Workspace.Height, "workspace height")
			assert.Equal(t, tt.wantResults, l.Results.Height, "results height")
			assert.Equal(t, HeaderHeight, l.Header.Height)
			assert.Equal(t, tt.barVisible, !l.Bar.Empty())
		})
	}
}

func TestLayoutRegionsStack(t *testing.T) {
	l := Calculate(100, 40, DefaultCollectionsPercent, true)

	assert.Equal(t, l.Header.Height, l.Collections.Y)
	assert.Equal(t, l.Collections.X+l.Collections.Width, l.Workspace.X)
	assert.Equal(t, l.Workspace.Y+l.Workspace.Height, l.Results.Y)
	assert.Equal(t, l.Collections.Y+l.Collections.Height, l.Bar.Y)
	assert.Equal(t, l.Bar.Y+1, l.Status.Y)
	assert.Equal(t, l.Status.Y+1, l.Instructions.Y)
	assert.Equal(t, 39, l.Instructions.Y)
}

func TestPaneAt(t *testing.T) {
	l := Calculate(100, 40, DefaultCollectionsPercent, false)

	tests := []struct {
		name   string
		x, y   int
		want   navigation.PaneID
		wantOK bool
	}{
		{"header", 50, 1, navigation.Header, true},
		{"collections", 5, 10, navigation.Collections, true},
		{"workspace", 50, 10, navigation.Workspace, true},
		{"results", 50, 30, navigation.Results, true},
		{"status bar", 50, 38, "", false},
		{"off screen", 500, 500, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := l.PaneAt(tt.x, tt.y)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRect(t *testing.T) {
	t.Run("Contains is half-open", func(t *testing.T) {
		r := Rect{X: 2, Y: 3, Width: 4, Height: 2}

		assert.True(t, r.Contains(2, 3))
		assert.True(t, r.Contains(5, 4))
		assert.False(t, r.Contains(6, 4))
		assert.False(t, r.Contains(5, 5))
		assert.False(t, r.Contains(1, 3))
	})

	t.Run("Centered", func(t *testing.T) {
		r := Rect{Width: 100, Height: 40}

		c := r.Centered(40, 35)
		assert.Equal(t, Rect{X: 30, Y: 13, Width: 40, Height: 14}, c)
	})

	t.Run("Inner never goes negative", func(t *testing.T) {
		r := Rect{X: 0, Y: 0, Width: 1, Height: 1}

		in := r.Inner(2)
		assert.True(t, in.Empty())
		assert.Equal(t, 0, in.Width)
	})

	t.Run("SplitBottom", func(t *testing.T) {
		r := Rect{X: 1, Y: 1, Width: 10, Height: 8}

		top, bottom := r.SplitBottom(3)
		assert.Equal(t, Rect{X: 1, Y: 1, Width: 10, Height: 5}, top)
		assert.Equal(t, Rect{X: 1, Y: 6, Width: 10, Height: 3}, bottom)
	})

	t.Run("Overlay replaces the covered cells", func(t *testing.T) {
		bg := "......\n......\n......\n......"
		out := ansi.Strip(Overlay(bg, "ab\ncd\nef", Rect{X: 2, Y: 1, Width: 2, Height: 2}))

		assert.Equal(t, "......\n..ab..\n..cd..\n......", out)
	})

	t.Run("Overlay pads short background rows", func(t *testing.T) {
		out := ansi.Strip(Overlay("x", "ab", Rect{X: 3, Y: 1, Width: 2, Height: 1}))

		assert.Equal(t, "x\n   ab", out)
	})
}
