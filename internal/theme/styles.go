package theme

import (
	"fmt"
	"strings"

	"github.com/avitaltamir/sqli/internal/navigation"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Border definitions
var (
	// NeonBorder uses heavy lines; it marks the pane that owns raw input.
	NeonBorder = lipgloss.Border{
		Top:         "━",
		Bottom:      "━",
		Left:        "┃",
		Right:       "┃",
		TopLeft:     "┏",
		TopRight:    "┓",
		BottomLeft:  "┗",
		BottomRight: "┛",
	}

	// GlowBorder uses rounded corners for active and inactive panes.
	GlowBorder = lipgloss.Border{
		Top:         "─",
		Bottom:      "─",
		Left:        "│",
		Right:       "│",
		TopLeft:     "╭",
		TopRight:    "╮",
		BottomLeft:  "╰",
		BottomRight: "╯",
	}

	// DoubleBorder frames modal dialogs.
	DoubleBorder = lipgloss.Border{
		Top:         "═",
		Bottom:      "═",
		Left:        "║",
		Right:       "║",
		TopLeft:     "╔",
		TopRight:    "╗",
		BottomLeft:  "╚",
		BottomRight: "╝",
	}
)

// Text styles
var (
	TextBody       lipgloss.Style
	TextMutedStyle lipgloss.Style
)

// Tree styles
var (
	TreeFolder       lipgloss.Style
	TreeFile         lipgloss.Style
	TreeSelected     lipgloss.Style
	TreeSelectedDim  lipgloss.Style
	TreeFilterPrompt lipgloss.Style
)

// Button styles
var (
	ButtonNormal  lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonDanger  lipgloss.Style
)

// Modal styles
var (
	ModalTitle lipgloss.Style
	ModalLabel lipgloss.Style
	ModalError lipgloss.Style
)

// Results table styles
var (
	TableHeader   lipgloss.Style
	TableCell     lipgloss.Style
	TableSelected lipgloss.Style
)

// Status bar and footer styles
var (
	StatusBarStyle  lipgloss.Style
	StatusInfo      lipgloss.Style
	StatusError     lipgloss.Style
	InstructionKey  lipgloss.Style
	InstructionDesc lipgloss.Style
	BarPrompt       lipgloss.Style
)

// regenerateStyles rebuilds all style variables from the current colors.
func regenerateStyles() {
	TextBody = lipgloss.NewStyle().
		Foreground(PureWhite)

	TextMutedStyle = lipgloss.NewStyle().
		Foreground(MutedLavender).
		Italic(true)

	// Tree
	TreeFolder = lipgloss.NewStyle().
		Foreground(CyberCyan).
		Bold(true)

	TreeFile = lipgloss.NewStyle().
		Foreground(PureWhite)

	TreeSelected = lipgloss.NewStyle().
		Foreground(MagentaBlaze).
		Background(Twilight).
		Bold(true)

	TreeSelectedDim = lipgloss.NewStyle().
		Foreground(MagentaBlaze)

	TreeFilterPrompt = lipgloss.NewStyle().
		Foreground(ElectricYellow).
		Bold(true)

	// Buttons
	ButtonNormal = lipgloss.NewStyle().
		Border(GlowBorder).
		BorderForeground(DimPurple).
		Foreground(Silver).
		Align(lipgloss.Center)

	ButtonFocused = ButtonNormal.
		BorderForeground(MagentaBlaze).
		Foreground(MagentaBlaze).
		Bold(true)

	ButtonDanger = ButtonNormal.
		BorderForeground(NeonRed).
		Foreground(NeonRed)

	// Modal
	ModalTitle = lipgloss.NewStyle().
		Foreground(CyberCyan).
		Bold(true)

	ModalLabel = lipgloss.NewStyle().
		Foreground(MutedLavender)

	ModalError = lipgloss.NewStyle().
		Foreground(NeonRed).
		Bold(true)

	// Results
	TableHeader = lipgloss.NewStyle().
		Foreground(CyberCyan).
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(DimPurple)

	TableCell = lipgloss.NewStyle().
		Foreground(Silver)

	TableSelected = lipgloss.NewStyle().
		Foreground(PureWhite).
		Background(Twilight).
		Bold(true)

	// Footer
	StatusBarStyle = lipgloss.NewStyle().
		Foreground(Silver).
		Padding(0, 1)

	StatusInfo = lipgloss.NewStyle().
		Foreground(MatrixGreen)

	StatusError = lipgloss.NewStyle().
		Foreground(NeonRed).
		Bold(true)

	InstructionKey = lipgloss.NewStyle().
		Foreground(LaserPurple).
		Bold(true)

	InstructionDesc = lipgloss.NewStyle().
		Foreground(MutedLavender)

	BarPrompt = lipgloss.NewStyle().
		Foreground(ElectricYellow).
		Bold(true)
}

// FormatScrollIndicator returns a scroll percentage, or "" at the bottom.
func FormatScrollIndicator(percent float64) string {
	if percent >= 99.9 || percent < 0 {
		return ""
	}
	return fmt.Sprintf("%d%%", int(percent))
}

// PanelTitleOptions configures what to show in panel borders.
type PanelTitleOptions struct {
	Title         string  // Main title text, e.g. "COLLECTIONS"
	Info          string  // Right-aligned text in the top border, e.g. query timing
	ScrollPercent float64 // Scroll position (0-100), negative to hide
	BottomHints   string  // Key hints for the bottom border
}

// borderFor picks border shape and colors for a focus level.
func borderFor(focus navigation.FocusType) (lipgloss.Border, lipgloss.Color, lipgloss.Color) {
	switch focus {
	case navigation.Editing:
		return NeonBorder, MagentaBlaze, MagentaBlaze
	case navigation.Active:
		return GlowBorder, CyberCyan, CyberCyan
	default:
		return GlowBorder, DimPurple, DimPurple
	}
}

// RenderPanelWithTitle renders content inside a border with the title
// embedded in the top edge. The border reflects the pane's focus level.
func RenderPanelWithTitle(content string, opts PanelTitleOptions, width, height int, focus navigation.FocusType) string {
	if width < 4 || height < 2 {
		return ""
	}

	border, borderColor, titleColor := borderFor(focus)
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(titleColor).Bold(true)
	infoStyle := lipgloss.NewStyle().Foreground(MutedLavender)
	hintStyle := lipgloss.NewStyle().Foreground(MutedLavender)

	innerWidth := width - 2

	info := opts.Info
	if scroll := FormatScrollIndicator(opts.ScrollPercent); scroll != "" {
		if info != "" {
			info += " "
		}
		info += scroll
	}

	topBorder := buildTopBorder(border, borderStyle, titleStyle.Render(opts.Title), infoStyle.Render(info), innerWidth)
	bottomBorder := buildBottomBorder(border, borderStyle, hintStyle, opts.BottomHints, innerWidth)

	contentHeight := max(height-2, 0)
	contentLines := strings.Split(content, "\n")
	renderedLines := make([]string, contentHeight)

	for i := 0; i < contentHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		line = ansi.Truncate(line, innerWidth, "")
		if w := ansi.StringWidth(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		renderedLines[i] = borderStyle.Render(border.Left) + line + borderStyle.Render(border.Right)
	}

	var result strings.Builder
	result.WriteString(topBorder)
	result.WriteString("\n")
	if contentHeight > 0 {
		result.WriteString(strings.Join(renderedLines, "\n"))
		result.WriteString("\n")
	}
	result.WriteString(bottomBorder)

	return result.String()
}

// buildTopBorder creates the top edge: "╭──[ Title ]────[ info ]─╮".
func buildTopBorder(border lipgloss.Border, borderStyle lipgloss.Style, title, info string, innerWidth int) string {
	titleSegment := "[ " + title + " ]"
	if ansi.StringWidth(titleSegment) > innerWidth-2 {
		titleSegment = ansi.Truncate(titleSegment, max(innerWidth-2, 0), "")
	}

	var infoSegment string
	if ansi.Strip(info) != "" {
		infoSegment = "[ " + info + " ]"
	}

	leftFiller := 2
	titleWidth := ansi.StringWidth(titleSegment)
	infoWidth := ansi.StringWidth(infoSegment)
	if leftFiller+titleWidth+infoWidth+1 > innerWidth {
		infoSegment, infoWidth = "", 0
	}
	rightFiller := max(innerWidth-leftFiller-titleWidth, 0)

	var result strings.Builder
	result.WriteString(borderStyle.Render(border.TopLeft))
	result.WriteString(borderStyle.Render(strings.Repeat(border.Top, min(leftFiller, innerWidth))))
	result.WriteString(titleSegment)
	if infoSegment != "" {
		result.WriteString(borderStyle.Render(strings.Repeat(border.Top, rightFiller-infoWidth-1)))
		result.WriteString(infoSegment)
		result.WriteString(borderStyle.Render(border.Top))
	} else {
		result.WriteString(borderStyle.Render(strings.Repeat(border.Top, rightFiller)))
	}
	result.WriteString(borderStyle.Render(border.TopRight))

	return result.String()
}

// buildBottomBorder creates the bottom edge with optional key hints.
func buildBottomBorder(border lipgloss.Border, borderStyle, hintStyle lipgloss.Style, hints string, innerWidth int) string {
	if hints == "" {
		return borderStyle.Render(border.BottomLeft) +
			borderStyle.Render(strings.Repeat(border.Bottom, innerWidth)) +
			borderStyle.Render(border.BottomRight)
	}

	hintSegment := "[ " + hintStyle.Render(hints) + " ]"
	hintSegment = ansi.Truncate(hintSegment, max(innerWidth-2, 0), "")
	hintWidth := ansi.StringWidth(hintSegment)

	leftFiller := min(2, innerWidth)
	rightFiller := max(innerWidth-leftFiller-hintWidth, 0)

	var result strings.Builder
	result.WriteString(borderStyle.Render(border.BottomLeft))
	result.WriteString(borderStyle.Render(strings.Repeat(border.Bottom, leftFiller)))
	result.WriteString(hintSegment)
	result.WriteString(borderStyle.Render(strings.Repeat(border.Bottom, rightFiller)))
	result.WriteString(borderStyle.Render(border.BottomRight))

	return result.String()
}
