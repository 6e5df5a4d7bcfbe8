package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/jmylchreest/benchtheme/internal/theme"
)

var invalidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

// Swatch renders hex as a padded label on its own color. Invalid values are
// shown in red. Without a color terminal the label is rendered as plain text.
func Swatch(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil || !theme.IsHexColor(hex) {
		return invalidStyle.Render(hex + " (invalid)")
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(c.Hex())).
		Foreground(lipgloss.Color(textColor(c))).
		Padding(0, 1).
		Render(hex)
}

// textColor picks black or white text by lightness.
func textColor(c colorful.Color) string {
	if l, _, _ := c.Lab(); l > 0.5 {
		return "#000000"
	}
	return "#ffffff"
}
