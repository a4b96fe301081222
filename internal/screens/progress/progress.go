// Package progress is the journey dashboard for the active goal.
package progress

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/skillbuilder/internal/journey"
	"github.com/abhisek/skillbuilder/internal/router"
	"github.com/abhisek/skillbuilder/internal/screen"
	"github.com/abhisek/skillbuilder/internal/screens"
	"github.com/abhisek/skillbuilder/internal/screens/pack"
	"github.com/abhisek/skillbuilder/internal/ui/components"
	"github.com/abhisek/skillbuilder/internal/ui/layout"
	"github.com/abhisek/skillbuilder/internal/ui/theme"
)

// ProgressScreen shows the learner's standing and launches today's pack.
type ProgressScreen struct {
	deps screens.Deps
	menu components.Menu
}

var _ screen.Screen = (*ProgressScreen)(nil)
var _ screen.KeyHintProvider = (*ProgressScreen)(nil)
var _ journey.Mounted = (*ProgressScreen)(nil)

// New creates the dashboard. Stats are read from the controller on every
// render so they reflect days completed since.
func New(deps screens.Deps) *ProgressScreen {
	p := &ProgressScreen{deps: deps}
	p.menu = components.NewMenu([]components.MenuItem{
		{Label: "Start pack", Action: p.startPack},
		{Label: "Change Goal", Action: p.changeGoal},
	})
	return p
}

func (p *ProgressScreen) Init() tea.Cmd {
	return nil
}

func (p *ProgressScreen) Title() string {
	return "Your Journey"
}

func (p *ProgressScreen) JourneyScreen() journey.Screen {
	return journey.ScreenProgress
}

func (p *ProgressScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Tab", Description: "Assistant"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (p *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	p.menu, cmd = p.menu.Update(msg)
	return p, cmd
}

func (p *ProgressScreen) startPack() tea.Cmd {
	next := pack.New(p.deps)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (p *ProgressScreen) changeGoal() tea.Cmd {
	if err := p.deps.Journey.ClearGoal(context.Background()); err != nil {
		p.deps.Log().Warn("failed to persist goal change", zap.Error(err))
	}
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (p *ProgressScreen) View(width, height int) string {
	ctrl := p.deps.Journey
	prog := ctrl.Progress()
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Render("Hello "+ctrl.Catalog().Learner.FirstName) + "\n")
	b.WriteString(theme.Subtitle.Render("Your Journey Progress") + "\n\n")

	if goal, ok := ctrl.ActiveGoal(); ok {
		focus := theme.Hint.Render("Current Focus") + "\n" +
			theme.Title.Render(strings.TrimSpace(goal.Icon+" "+goal.Title)) + "\n" +
			theme.Subtitle.Width(cw-6).Render(goal.Description) + "\n\n" +
			components.NewProgressBar("Overall Progress", prog.Percent, true, cw-6).View()
		b.WriteString(components.Card(focus, cw) + "\n")
	}

	half := cw / 2
	streak := statCard(fmt.Sprintf("🔥 %d", prog.Streak), "Day Streak", half, theme.Accent)
	done := statCard(fmt.Sprintf("%d", prog.DaysCompleted), "Days Done", cw-half, theme.Primary)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, streak, done) + "\n\n")

	menu := p.menu
	menu.Items = append([]components.MenuItem(nil), p.menu.Items...)
	menu.Items[0].Label = fmt.Sprintf("Start Day %d Pack", prog.DayNumber())
	b.WriteString(menu.View())

	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Width(cw).Render(b.String()))
}

func statCard(value, label string, width int, accent color.Color) string {
	v := lipgloss.NewStyle().Foreground(accent).Bold(true).Render(value)
	return components.Card(v+"\n"+theme.Hint.Render(label), width)
}
