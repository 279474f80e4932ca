package theme

// Tree icons
const (
	IconFolderCollapsed = "▸"
	IconFolderExpanded  = "▾"
	IconQuery           = "◇"
	IconUserScope       = "~"
	IconLocalScope      = "."
)

// Panel decorations
const (
	PanelDiamond = "◈"
)

// Radio and selector glyphs
const (
	RadioOn       = "◉"
	RadioOff      = "○"
	SelectorLeft  = "◀"
	SelectorRight = "▶"
)

// SpinnerDots are the frames shown while a query runs.
var SpinnerDots = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
