package tui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	ColorIce   = lipgloss.Color("#A8D8EA")
	ColorDeep  = lipgloss.Color("#596E79")
	ColorAlert = lipgloss.Color("#FF6B6B")
	ColorGood  = lipgloss.Color("#4ECDC4")
	ColorMuted = lipgloss.Color("#6c757d")
)

var (
	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorIce).
			Bold(true)

	StyleStatusGood = lipgloss.NewStyle().Foreground(ColorGood).Bold(true)
	StyleStatusBad  = lipgloss.NewStyle().Foreground(ColorAlert).Bold(true)

	StyleTableHeader = lipgloss.NewStyle().
				Foreground(ColorIce).
				Bold(true).
				Padding(0, 1)

	StyleTableRow = lipgloss.NewStyle().
			Padding(0, 1)

	StyleTableBorder = lipgloss.NewStyle().Foreground(ColorDeep)

	StyleMuted = lipgloss.NewStyle().Foreground(ColorMuted)
)

// State renders an up/down flag.
func State(up bool, text string) string {
	if up {
		return StyleStatusGood.Render(text)
	}
	return StyleStatusBad.Render(text)
}
