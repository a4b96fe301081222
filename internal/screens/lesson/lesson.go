// Package lesson renders the recap shown after a day's pack is done.
package lesson

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillbuilder/internal/journey"
	"github.com/abhisek/skillbuilder/internal/router"
	"github.com/abhisek/skillbuilder/internal/screen"
	"github.com/abhisek/skillbuilder/internal/screens"
	"github.com/abhisek/skillbuilder/internal/ui/components"
	"github.com/abhisek/skillbuilder/internal/ui/layout"
	"github.com/abhisek/skillbuilder/internal/ui/theme"
)

// LessonScreen shows the AI summary and vocabulary for a completed day.
type LessonScreen struct {
	deps     screens.Deps
	day      int
	lessonID string
	scroll   int
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)
var _ journey.Mounted = (*LessonScreen)(nil)

// New creates the recap for day, the day that was just completed, showing
// the sheet attached to its pack.
func New(deps screens.Deps, day int, lessonID string) *LessonScreen {
	return &LessonScreen{deps: deps, day: day, lessonID: lessonID}
}

func (l *LessonScreen) Init() tea.Cmd {
	return nil
}

func (l *LessonScreen) Title() string {
	return "Lesson Sheet"
}

func (l *LessonScreen) JourneyScreen() journey.Screen {
	return journey.ScreenLessonSheet
}

func (l *LessonScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: "Return to Dashboard"},
		{Key: "Tab", Description: "Assistant"},
	}
}

func (l *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if l.scroll > 0 {
			l.scroll--
		}
	case "down", "j":
		l.scroll++
	case "enter", "esc":
		return l, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return l, nil
}

func (l *LessonScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Render(fmt.Sprintf("Lesson Sheet: Day %d", l.day)) + "\n\n")

	sheet, ok := l.deps.Journey.Catalog().Lesson(l.lessonID)
	if !ok {
		b.WriteString(theme.Hint.Render("No lesson sheet for this pack.") + "\n")
		return center(b.String(), cw, width)
	}

	badge := lipgloss.NewStyle().Foreground(theme.AI).Bold(true).Render("✦ AI Summary") +
		"  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render("[Generated]")
	summary := badge + "\n\n" + theme.Body.Width(cw-6).Render(sheet.Summary)
	b.WriteString(components.AccentCard(summary, cw, theme.AI) + "\n\n")

	b.WriteString(theme.SectionHeading.Render("Key Vocabulary") + "\n\n")
	for _, v := range sheet.Vocabulary {
		entry := theme.Title.Render(v.Word) + "\n" + theme.Subtitle.Width(cw-6).Render(v.Definition)
		b.WriteString(components.Card(entry, cw) + "\n")
	}

	lines := strings.Split(b.String(), "\n")
	maxScroll := len(lines) - height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if l.scroll > maxScroll {
		l.scroll = maxScroll
	}
	return center(strings.Join(lines[l.scroll:], "\n"), cw, width)
}

func center(content string, cw, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Width(cw).Render(content))
}
