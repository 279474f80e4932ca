package theme

import "github.com/charmbracelet/lipgloss"

// Accent colors
var (
	MagentaBlaze   = lipgloss.Color("#FF00FF") // Primary accent, editing borders
	CyberCyan      = lipgloss.Color("#00FFFF") // Secondary accent, active borders
	HotPink        = lipgloss.Color("#FF10F0") // Selections
	MatrixGreen    = lipgloss.Color("#39FF14") // Success, run button
	NeonRed        = lipgloss.Color("#FF3131") // Errors, delete button
	ElectricYellow = lipgloss.Color("#FFFF00") // Search matches
	LaserPurple    = lipgloss.Color("#7B68EE") // Keys in the instructions footer
)

// Background colors
var (
	VoidPurple = lipgloss.Color("#0D0221") // Primary background
	DeepSpace  = lipgloss.Color("#1A0A2E") // Panel backgrounds
	Twilight   = lipgloss.Color("#2D1B4E") // Selected row background
	Abyss      = lipgloss.Color("#0A0A14") // Modal background
)

// Text colors, bright to dim
var (
	PureWhite     = lipgloss.Color("#FFFFFF")
	Silver        = lipgloss.Color("#E0E0E0")
	MutedLavender = lipgloss.Color("#888899")
	DimPurple     = lipgloss.Color("#4A4A6A")
)
