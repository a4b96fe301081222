// Package layout composes the fixed chrome around the active screen: a
// header bar, a footer of key hints and an optional side panel.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillbuilder/internal/ui/theme"
)

// Terminals smaller than this get a resize notice instead of the app.
const (
	MinWidth  = 60
	MinHeight = 20
)

// compactWidth is the width below which a side panel replaces the main
// content instead of sitting next to it.
const compactWidth = 90

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage fills the terminal with a centered resize notice.
func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(msg))
}

// HeaderStats is the journey summary on the right of the header. A zero
// Day hides it.
type HeaderStats struct {
	Day    int
	Streak int
}

func (s HeaderStats) render() string {
	if s.Day == 0 {
		return ""
	}
	day := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("Day %d", s.Day))
	streak := lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("🔥 %d", s.Streak))
	return day + "   " + streak
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border)

// RenderHeader draws the app name on the left, the screen title centered
// and the stats on the right. When the three do not fit they are packed
// left to right.
func RenderHeader(title string, stats HeaderStats, width int) string {
	inner := max(width-4, 0)

	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  SkillBuilder")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := stats.render()

	bw, cw, rw := lipgloss.Width(brand), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max((inner-cw)/2-bw, 1)
	rightGap := max(inner-bw-leftGap-cw-rw, 1)

	row := brand + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
	return bar.Width(width).Render(row)
}

// RenderFooter draws the key hints in one row.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar.Width(width).Render("  " + strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer, giving the content all
// the height the bars leave.
func RenderFrame(header, content, footer string, width, height int) string {
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(h).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// SplitWidth divides width between the main content and a side panel.
// On compact terminals the panel takes the full width.
func SplitWidth(width int) (main, side int) {
	if width < compactWidth {
		return 0, width
	}
	side = max(width*2/5, 40)
	return width - side, side
}
