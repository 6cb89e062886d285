package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/focusroom/internal/progress"
)

// Gruvbox-inspired color palette.
var (
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorBlue   = lipgloss.Color("#83a598")
	colorPurple = lipgloss.Color("#d3869b")
	colorDim    = lipgloss.Color("#928374")
	colorFg     = lipgloss.Color("#ebdbb2")
	colorHeader = lipgloss.Color("#fe8019")
)

var (
	styleGreen  = lipgloss.NewStyle().Foreground(colorGreen)
	styleYellow = lipgloss.NewStyle().Foreground(colorYellow)
	styleBlue   = lipgloss.NewStyle().Foreground(colorBlue)
	stylePurple = lipgloss.NewStyle().Foreground(colorPurple)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleFg     = lipgloss.NewStyle().Foreground(colorFg)
	styleHeader = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	styleBold   = lipgloss.NewStyle().Foreground(colorFg).Bold(true)
)

// header renders a section header with an underline.
func header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", styleHeader.Render(upper), styleDim.Render(line))
}

// box wraps content in a rounded-border panel with an optional title.
func box(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		inner := styleHeader.Render(strings.ToUpper(title)) + "\n\n" + content
		return boxStyle.Render(inner)
	}
	return boxStyle.Render(content)
}

// placeholder renders the degraded view used when content cannot be drawn.
func placeholder(reason string) string {
	return box("", styleYellow.Render("⚠ Content unavailable")+"\n"+styleDim.Render(reason))
}

// Header renders a section header with an underline.
func Header(text string) string { return header(text) }

// Box wraps content in a rounded-border panel with an optional title.
func Box(title, content string) string { return box(title, content) }

// Dim renders text in the muted color.
func Dim(text string) string { return styleDim.Render(text) }

// Bold renders text in bold with the foreground color.
func Bold(text string) string { return styleBold.Render(text) }

// Good renders text in the positive (green) color.
func Good(text string) string { return styleGreen.Render(text) }

// Warn renders text in the warning (yellow) color.
func Warn(text string) string { return styleYellow.Render(text) }

// DayStatusPill returns a colored indicator for a day's progression state.
func DayStatusPill(status progress.DayStatus) string {
	switch status {
	case progress.DayDone:
		return styleDim.Render("✔ done")
	case progress.DayCurrent:
		return styleGreen.Render("● current")
	case progress.DayLocked:
		return styleDim.Render("○ locked")
	default:
		return styleDim.Render(string(status))
	}
}
