package pack

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillbuilder/internal/playback"
	"github.com/abhisek/skillbuilder/internal/ui/components"
	"github.com/abhisek/skillbuilder/internal/ui/theme"
)

func (p *PackScreen) View(width, height int) string {
	if p.engine == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", p.errMsg))
	}

	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(theme.Title.Render(fmt.Sprintf("Day %d", p.day)) + "\n")
	b.WriteString(theme.Subtitle.Render("Your Daily Audio Pack") + "\n\n")

	b.WriteString(components.Card(p.renderNowPlaying(cw-6), cw) + "\n\n")

	b.WriteString(theme.SectionHeading.Render("Up Next") + "\n")
	b.WriteString(p.renderTrackList(cw) + "\n")

	b.WriteString(components.NewButton("Mark as Complete", "c", nil).View() + "\n")

	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Width(cw).Render(b.String()))
}

func (p *PackScreen) renderNowPlaying(width int) string {
	item := p.engine.Current()
	st := p.engine.State()

	var b strings.Builder
	b.WriteString(kindBadge(item.Kind) + "\n")
	b.WriteString(theme.Title.Render(item.Title) + "\n")
	b.WriteString(theme.Subtitle.Render(item.Artist) + "\n")
	if item.HasClip() {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.AI).Render(
			fmt.Sprintf("Clip %s to %s", playback.FormatTime(*item.ClipStartSec), playback.FormatTime(*item.ClipEndSec)),
		) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(components.TimeBar(
		playback.FormatTime(st.ElapsedSec),
		playback.FormatTime(item.DurationSec),
		p.engine.ProgressFraction(),
		width,
	) + "\n\n")

	toggle := "▶ Play"
	if st.IsPlaying {
		toggle = "⏸ Pause"
	}
	controls := theme.Hint.Render(fmt.Sprintf("⏮ %ds", SkipSec)) + "    " +
		theme.Selected.Render(toggle) + "    " +
		theme.Hint.Render(fmt.Sprintf("%ds ⏭", SkipSec))
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(controls))
	if p.engine.Status() == playback.StatusCompleted {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Success).Render("Pack finished. Mark it as complete when you're ready."))
	}
	return b.String()
}

func (p *PackScreen) renderTrackList(width int) string {
	st := p.engine.State()
	items := p.engine.Pack().Items

	var b strings.Builder
	for i, item := range items {
		marker := "  "
		if i == st.CurrentIndex {
			marker = "♪ "
			if st.IsPlaying {
				marker = "▶ "
			}
		}
		prefix := "  "
		style := theme.Unselected
		if i == p.cursor {
			prefix = "▸ "
			style = theme.Selected
		}

		left := prefix + marker + item.Title + " · " + item.Artist
		right := playback.FormatTime(item.DurationSec)
		gap := width - lipgloss.Width(left) - lipgloss.Width(right)
		if gap < 1 {
			gap = 1
		}
		b.WriteString(style.Render(left+strings.Repeat(" ", gap)+right) + "\n")
	}
	return b.String()
}

func kindBadge(k playback.Kind) string {
	c := theme.Secondary
	if k == playback.KindPodcast {
		c = theme.Accent
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render(strings.ToUpper(string(k)))
}
