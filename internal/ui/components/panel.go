package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillbuilder/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for stacked cards so
// they line up.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded-border card of the given outer width.
func Card(content string, width int) string {
	return theme.Card.Width(width).Render(content)
}

// AccentCard is a Card with a colored left rule, for generated content.
func AccentCard(content string, width int, accent color.Color) string {
	return lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(accent).
		Padding(0, 2).
		Width(width).
		Render(content)
}

// Center places content in the middle of a width x height area.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
