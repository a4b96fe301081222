package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/skillbuilder/internal/assistant"
	"github.com/abhisek/skillbuilder/internal/clock"
	"github.com/abhisek/skillbuilder/internal/journey"
	"github.com/abhisek/skillbuilder/internal/router"
	"github.com/abhisek/skillbuilder/internal/screen"
	"github.com/abhisek/skillbuilder/internal/screens"
	"github.com/abhisek/skillbuilder/internal/screens/drawer"
	"github.com/abhisek/skillbuilder/internal/screens/goals"
	"github.com/abhisek/skillbuilder/internal/screens/progress"
	"github.com/abhisek/skillbuilder/internal/screens/welcome"
	"github.com/abhisek/skillbuilder/internal/ui/layout"
)

// Options holds the dependencies for the TUI.
type Options struct {
	Journey *journey.Controller
	Session *assistant.Session
	Ticks   *clock.Source
	Logger  *zap.Logger

	// Splash shows the animated welcome before the journey screens.
	Splash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	drawer  *drawer.Drawer
	journey *journey.Controller
	logger  *zap.Logger
	width   int
	height  int
}

// newAppModel starts on goal selection, or on the dashboard when a goal
// was restored.
func newAppModel(opts Options) AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ticks := opts.Ticks
	if ticks == nil {
		ticks = clock.NewSource(nil, clock.DefaultInterval)
	}
	session := opts.Session
	if session == nil {
		session = assistant.NewSession(nil, opts.Journey, assistant.WithLogger(logger))
	}

	deps := screens.Deps{Journey: opts.Journey, Ticks: ticks, Logger: logger}
	initial := func() []screen.Screen {
		stack := []screen.Screen{goals.New(deps)}
		if _, ok := opts.Journey.ActiveGoal(); ok {
			stack = append(stack, progress.New(deps))
		}
		return stack
	}

	var r *router.Router
	if opts.Splash {
		r = router.New(welcome.New(initial))
	} else {
		stack := initial()
		r = router.New(stack[0])
		for _, s := range stack[1:] {
			r.Push(s)
		}
	}

	m := AppModel{
		router:  r,
		drawer:  drawer.New(session, logger),
		journey: opts.Journey,
		logger:  logger,
	}
	m.syncScreen()
	return m
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.drawer.IsOpen() {
			return m, m.drawer.Update(msg)
		}
		if _, ok := m.router.Active().(*welcome.WelcomeScreen); ok {
			return m, m.router.Update(msg)
		}
		switch msg.String() {
		case "tab":
			return m, m.drawer.Toggle()
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
		cmd := m.router.Update(msg)
		m.syncScreen()
		return m, cmd
	}

	drawerCmd := m.drawer.Update(msg)
	routerCmd := m.router.Update(msg)
	m.syncScreen()
	return m, tea.Batch(drawerCmd, routerCmd)
}

// syncScreen tells the controller which journey screen is mounted so
// the assistant context follows navigation.
func (m AppModel) syncScreen() {
	if mounted, ok := m.router.Active().(journey.Mounted); ok {
		m.journey.SetScreen(mounted.JourneyScreen())
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	var stats layout.HeaderStats
	if _, ok := m.journey.ActiveGoal(); ok {
		p := m.journey.Progress()
		stats = layout.HeaderStats{Day: p.DayNumber(), Streak: p.Streak}
	}
	header := layout.RenderHeader(title, stats, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	var content string
	if m.drawer.IsOpen() {
		main, side := layout.SplitWidth(m.width)
		if main == 0 {
			content = m.drawer.View(side, contentHeight)
		} else {
			content = lipgloss.JoinHorizontal(lipgloss.Top,
				m.router.View(main, contentHeight),
				m.drawer.View(side, contentHeight),
			)
		}
	} else {
		content = m.router.View(m.width, contentHeight)
	}

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if m.drawer.IsOpen() {
		return m.drawer.KeyHints()
	}
	var hints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	}
	if len(hints) == 0 {
		hints = []layout.KeyHint{
			{Key: "Tab", Description: "Assistant"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	if m.router.Depth() > 1 {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	return hints
}

// Run starts the Bubble Tea program. Screens still on the stack are
// closed on exit so no tick subscription outlives the program.
func Run(opts Options) error {
	if opts.Journey == nil {
		return fmt.Errorf("app: journey controller is required")
	}
	m := newAppModel(opts)
	defer m.router.CloseAll()

	p := tea.NewProgram(m)
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
