package layout

import "github.com/avitaltamir/sqli/internal/navigation"

// Layout constants
const (
	DefaultCollectionsPercent = 20
	MinCollectionsPercent     = 15
	MaxCollectionsPercent     = 50
	WorkspacePercent          = 70 // Workspace share of the right column
	HeaderHeight              = 3
	BarHeight                 = 1 // Search / command bar when visible
	StatusBarHeight           = 1
	InstructionsHeight        = 1
	MinPanelWidth             = 20
	MinPanelHeight            = 3
)

// Layout holds the calculated rectangles for every screen region.
type Layout struct {
	// Total terminal dimensions
	TotalWidth  int
	TotalHeight int

	Header       Rect
	Collections  Rect
	Workspace    Rect
	Results      Rect
	Bar          Rect // Zero when the bar is hidden
	Status       Rect
	Instructions Rect

	BarVisible bool
}

// Calculate computes the layout for a terminal of the given size.
// collectionsPercent controls the width of the collections tree.
func Calculate(width, height, collectionsPercent int, barVisible bool) Layout {
	l := Layout{
		TotalWidth:  width,
		TotalHeight: height,
		BarVisible:  barVisible,
	}

	// Clamp collections percentage to valid range
	if collectionsPercent < MinCollectionsPercent {
		collectionsPercent = MinCollectionsPercent
	}
	if collectionsPercent > MaxCollectionsPercent {
		collectionsPercent = MaxCollectionsPercent
	}

	footer := StatusBarHeight + InstructionsHeight
	if barVisible {
		footer += BarHeight
	}

	l.Header = Rect{X: 0, Y: 0, Width: width, Height: min(HeaderHeight, height)}
	mainY := l.Header.Height
	mainHeight := max(height-mainY-footer, MinPanelHeight*2)

	// Horizontal split
	leftWidth := max(width*collectionsPercent/100, MinPanelWidth)
	if leftWidth > width {
		leftWidth = width
	}
	rightWidth := max(width-leftWidth, 0)

	l.Collections = Rect{X: 0, Y: mainY, Width: leftWidth, Height: mainHeight}

	// Right column vertical split
	workspaceHeight := max(mainHeight*WorkspacePercent/100, MinPanelHeight)
	resultsHeight := max(mainHeight-workspaceHeight, MinPanelHeight)
	l.Workspace = Rect{X: leftWidth, Y: mainY, Width: rightWidth, Height: workspaceHeight}
	l.Results = Rect{X: leftWidth, Y: mainY + workspaceHeight, Width: rightWidth, Height: resultsHeight}

	y := mainY + mainHeight
	if barVisible {
		l.Bar = Rect{X: 0, Y: y, Width: width, Height: BarHeight}
		y += BarHeight
	}
	l.Status = Rect{X: 0, Y: y, Width: width, Height: StatusBarHeight}
	l.Instructions = Rect{X: 0, Y: y + StatusBarHeight, Width: width, Height: InstructionsHeight}

	return l
}

// Screen returns the full terminal rectangle.
func (l Layout) Screen() Rect {
	return Rect{Width: l.TotalWidth, Height: l.TotalHeight}
}

// PaneRect returns the rectangle of a pane.
func (l Layout) PaneRect(id navigation.PaneID) Rect {
	switch id {
	case navigation.Header:
		return l.Header
	case navigation.Collections:
		return l.Collections
	case navigation.Workspace:
		return l.Workspace
	case navigation.Results:
		return l.Results
	default:
		return Rect{}
	}
}

// PaneAt returns the pane under the given cell.
func (l Layout) PaneAt(x, y int) (navigation.PaneID, bool) {
	for _, id := range []navigation.PaneID{
		navigation.Header,
		navigation.Collections,
		navigation.Workspace,
		navigation.Results,
	} {
		if l.PaneRect(id).Contains(x, y) {
			return id, true
		}
	}
	return "", false
}
