package welcome

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillbuilder/internal/ui/theme"
)

const bannerArt = `
 ╔═╗╦╔═╦╦  ╦  ╔╗ ╦ ╦╦╦  ╔╦╗╔═╗╦═╗
 ╚═╗╠╩╗║║  ║  ╠╩╗║ ║║║   ║║║╣ ╠╦╝
 ╚═╝╩ ╩╩╩═╝╩═╝╚═╝╚═╝╩╩═╝═╩╝╚═╝╩╚═`

const bannerCompact = "S K I L L B U I L D E R"

// RenderBanner returns the SkillBuilder banner in the primary color. It
// falls back to a spaced title on terminals narrower than 40 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 40 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

var barLevels = []string{" ", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// RenderEqualizer draws a small animated equalizer. frame selects the bar
// heights so successive frames appear to bounce.
func RenderEqualizer(frame, bars int) string {
	const rows = 3
	heights := make([]int, bars)
	for i := range heights {
		// Deterministic pseudo-random walk per bar.
		heights[i] = (frame*(i+3) + i*i*5) % (rows*len(barLevels) - 1)
	}

	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		var b strings.Builder
		floor := (rows - 1 - r) * len(barLevels)
		for _, h := range heights {
			level := h - floor
			switch {
			case level >= len(barLevels):
				b.WriteString("█")
			case level <= 0:
				b.WriteString(" ")
			default:
				b.WriteString(barLevels[level])
			}
			b.WriteString(" ")
		}
		lines[r] = b.String()
	}
	return lipgloss.NewStyle().Foreground(theme.Primary).Render(strings.Join(lines, "\n"))
}
