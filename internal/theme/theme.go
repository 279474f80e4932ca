package theme

import "github.com/charmbracelet/lipgloss"

// Theme holds all visual configuration for the application.
type Theme struct {
	Name   string
	Colors ColorPalette
}

// ColorPalette holds all color definitions.
type ColorPalette struct {
	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Focus     lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	Keys      lipgloss.Color

	// Background colors
	BgPrimary  lipgloss.Color
	BgPanel    lipgloss.Color
	BgSelected lipgloss.Color
	BgModal    lipgloss.Color

	// Text colors
	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color
	TextDim       lipgloss.Color
}

var (
	themes       []*Theme
	currentIndex int
)

func init() {
	themes = []*Theme{
		DefaultTheme(),
		HarborTheme(),
		LedgerTheme(),
	}
	ApplyTheme(themes[0])
}

// DefaultTheme returns the neon theme.
func DefaultTheme() *Theme {
	return &Theme{
		Name: "Neon",
		Colors: ColorPalette{
			Primary:       lipgloss.Color("#FF00FF"),
			Secondary:     lipgloss.Color("#00FFFF"),
			Focus:         lipgloss.Color("#FF10F0"),
			Success:       lipgloss.Color("#39FF14"),
			Error:         lipgloss.Color("#FF3131"),
			Warning:       lipgloss.Color("#FFFF00"),
			Keys:          lipgloss.Color("#7B68EE"),
			BgPrimary:     lipgloss.Color("#0D0221"),
			BgPanel:       lipgloss.Color("#1A0A2E"),
			BgSelected:    lipgloss.Color("#2D1B4E"),
			BgModal:       lipgloss.Color("#0A0A14"),
			TextPrimary:   lipgloss.Color("#FFFFFF"),
			TextSecondary: lipgloss.Color("#E0E0E0"),
			TextMuted:     lipgloss.Color("#888899"),
			TextDim:       lipgloss.Color("#4A4A6A"),
		},
	}
}

// HarborTheme is a calm blue-green palette.
func HarborTheme() *Theme {
	return &Theme{
		Name: "Harbor",
		Colors: ColorPalette{
			Primary:       lipgloss.Color("#F4A261"), // Buoy orange
			Secondary:     lipgloss.Color("#2A9D8F"), // Sea green
			Focus:         lipgloss.Color("#E9C46A"),
			Success:       lipgloss.Color("#8AB17D"),
			Error:         lipgloss.Color("#E76F51"),
			Warning:       lipgloss.Color("#E9C46A"),
			Keys:          lipgloss.Color("#90BEDE"),
			BgPrimary:     lipgloss.Color("#0B1D26"),
			BgPanel:       lipgloss.Color("#102A35"),
			BgSelected:    lipgloss.Color("#1D3E4C"),
			BgModal:       lipgloss.Color("#081419"),
			TextPrimary:   lipgloss.Color("#F1FAEE"),
			TextSecondary: lipgloss.Color("#D8E2DC"),
			TextMuted:     lipgloss.Color("#7F9BA6"),
			TextDim:       lipgloss.Color("#3E5C68"),
		},
	}
}

// LedgerTheme is a low-contrast green-on-black palette.
func LedgerTheme() *Theme {
	return &Theme{
		Name: "Ledger",
		Colors: ColorPalette{
			Primary:       lipgloss.Color("#B5E853"),
			Secondary:     lipgloss.Color("#63C5DA"),
			Focus:         lipgloss.Color("#D4F58B"),
			Success:       lipgloss.Color("#6BCB77"),
			Error:         lipgloss.Color("#FF6B6B"),
			Warning:       lipgloss.Color("#FFD93D"),
			Keys:          lipgloss.Color("#A29BFE"),
			BgPrimary:     lipgloss.Color("#0C0F0A"),
			BgPanel:       lipgloss.Color("#141A12"),
			BgSelected:    lipgloss.Color("#24301F"),
			BgModal:       lipgloss.Color("#080A07"),
			TextPrimary:   lipgloss.Color("#EAF2E3"),
			TextSecondary: lipgloss.Color("#C9D6C0"),
			TextMuted:     lipgloss.Color("#7D8C74"),
			TextDim:       lipgloss.Color("#3F4A3A"),
		},
	}
}

// AllThemes returns all available themes.
func AllThemes() []*Theme {
	return themes
}

// CurrentTheme returns the currently active theme.
func CurrentTheme() *Theme {
	return themes[currentIndex]
}

// CurrentThemeIndex returns the index of the current theme.
func CurrentThemeIndex() int {
	return currentIndex
}

// NextTheme cycles to the next theme and applies it.
func NextTheme() *Theme {
	currentIndex = (currentIndex + 1) % len(themes)
	ApplyTheme(themes[currentIndex])
	return themes[currentIndex]
}

// SetThemeIndex applies the theme at index. It returns false when index is
// out of bounds.
func SetThemeIndex(index int) bool {
	if index < 0 || index >= len(themes) {
		return false
	}
	currentIndex = index
	ApplyTheme(themes[currentIndex])
	return true
}

// ApplyTheme points the package color variables at t and rebuilds styles.
func ApplyTheme(t *Theme) {
	MagentaBlaze = t.Colors.Primary
	CyberCyan = t.Colors.Secondary
	HotPink = t.Colors.Focus
	MatrixGreen = t.Colors.Success
	NeonRed = t.Colors.Error
	ElectricYellow = t.Colors.Warning
	LaserPurple = t.Colors.Keys

	VoidPurple = t.Colors.BgPrimary
	DeepSpace = t.Colors.BgPanel
	Twilight = t.Colors.BgSelected
	Abyss = t.Colors.BgModal

	PureWhite = t.Colors.TextPrimary
	Silver = t.Colors.TextSecondary
	MutedLavender = t.Colors.TextMuted
	DimPurple = t.Colors.TextDim

	regenerateStyles()
}
