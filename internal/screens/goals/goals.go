// Package goals is the entry screen where the learner picks a path.
package goals

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/skillbuilder/internal/content"
	"github.com/abhisek/skillbuilder/internal/journey"
	"github.com/abhisek/skillbuilder/internal/router"
	"github.com/abhisek/skillbuilder/internal/screen"
	"github.com/abhisek/skillbuilder/internal/screens"
	"github.com/abhisek/skillbuilder/internal/screens/progress"
	"github.com/abhisek/skillbuilder/internal/ui/components"
	"github.com/abhisek/skillbuilder/internal/ui/layout"
	"github.com/abhisek/skillbuilder/internal/ui/theme"
)

// GoalsScreen lists the catalog goals.
type GoalsScreen struct {
	deps screens.Deps
	menu components.Menu
}

var _ screen.Screen = (*GoalsScreen)(nil)
var _ screen.KeyHintProvider = (*GoalsScreen)(nil)
var _ journey.Mounted = (*GoalsScreen)(nil)

// New creates the goal picker.
func New(deps screens.Deps) *GoalsScreen {
	g := &GoalsScreen{deps: deps}

	catalog := deps.Journey.Catalog()
	items := make([]components.MenuItem, 0, len(catalog.Goals)+1)
	for _, goal := range catalog.Goals {
		items = append(items, components.MenuItem{
			Label:  strings.TrimSpace(goal.Icon + " " + goal.Title),
			Detail: goal.Description,
			Action: g.selectGoal(goal),
		})
	}
	items = append(items, components.MenuItem{Label: "Exit", Action: func() tea.Cmd { return tea.Quit }})
	g.menu = components.NewMenu(items)
	return g
}

func (g *GoalsScreen) Init() tea.Cmd {
	return nil
}

func (g *GoalsScreen) Title() string {
	return "Choose a Goal"
}

func (g *GoalsScreen) JourneyScreen() journey.Screen {
	return journey.ScreenGoalSelection
}

func (g *GoalsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Tab", Description: "Assistant"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (g *GoalsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	g.menu, cmd = g.menu.Update(msg)
	return g, cmd
}

func (g *GoalsScreen) selectGoal(goal content.Goal) func() tea.Cmd {
	return func() tea.Cmd {
		if err := g.deps.Journey.SelectGoal(context.Background(), goal.ID); err != nil {
			g.deps.Log().Warn("failed to persist goal selection",
				zap.String("goal_id", goal.ID),
				zap.Error(err),
			)
		}
		next := progress.New(g.deps)
		return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}
}

func (g *GoalsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Render("What do you want to master?") + "\n")
	b.WriteString(theme.Subtitle.Render("Choose a path to start your daily audio journey.") + "\n\n")
	b.WriteString(g.menu.View())

	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Width(cw).Render(b.String()))
}
