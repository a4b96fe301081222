// Package drawer is the assistant side panel. It overlays whichever
// journey screen is mounted and talks to the conversation session.
package drawer

import (
	"context"
	"errors"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/skillbuilder/internal/assistant"
	"github.com/abhisek/skillbuilder/internal/ui/components"
	"github.com/abhisek/skillbuilder/internal/ui/layout"
	"github.com/abhisek/skillbuilder/internal/ui/theme"
)

// Starter is a canned prompt offered before the first message.
type Starter struct {
	Label  string
	Prompt string
}

// Starters are offered while the conversation is empty.
var Starters = []Starter{
	{Label: "Buffering issues?", Prompt: "Why is the track buffering?"},
	{Label: "Explain vocabulary", Prompt: "Explain 'Perseverance'"},
}

// replyMsg carries the assistant turn for an awaited exchange.
type replyMsg struct {
	exchangeID string
	turn       assistant.Turn
}

// Drawer is the assistant panel.
type Drawer struct {
	session  *assistant.Session
	logger   *zap.Logger
	input    components.TextInput
	spinner  spinner.Model
	viewport viewport.Model

	open       bool
	suggestion int
	rendered   int
}

// New creates a closed drawer bound to session.
func New(session *assistant.Session, logger *zap.Logger) *Drawer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Drawer{
		session: session,
		logger:  logger,
		input:   components.NewTextInput("Ask about today's lesson...", 500),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.AI)),
		),
		viewport:   viewport.New(),
		suggestion: -1,
	}
}

// IsOpen reports whether the drawer is showing.
func (d *Drawer) IsOpen() bool {
	return d.open
}

// CapturingInput is true while the drawer is open and owns the keyboard.
func (d *Drawer) CapturingInput() bool {
	return d.open
}

// Open shows the drawer and focuses the input.
func (d *Drawer) Open() tea.Cmd {
	d.open = true
	cmds := []tea.Cmd{d.input.Init()}
	if d.session.Pending() {
		cmds = append(cmds, d.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Close hides the drawer. A pending request keeps running and its reply
// is in the history the next time the drawer opens.
func (d *Drawer) Close() {
	d.open = false
	d.input.Model.Blur()
}

// Toggle opens a closed drawer and closes an open one.
func (d *Drawer) Toggle() tea.Cmd {
	if d.open {
		d.Close()
		return nil
	}
	return d.Open()
}

// KeyHints are shown in the footer while the drawer is open.
func (d *Drawer) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "↑↓", Description: "Suggestions"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "Esc", Description: "Close"},
	}
}

// Update handles drawer messages. Replies and spinner ticks are handled
// whether or not the drawer is open.
func (d *Drawer) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case replyMsg:
		d.suggestion = -1
		if msg.turn.IsFallback() {
			d.logger.Debug("assistant fallback shown", zap.String("exchange_id", msg.exchangeID))
		}
		return nil

	case spinner.TickMsg:
		if !d.session.Pending() {
			return nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		if !d.open {
			return nil
		}
		return d.handleKey(msg)
	}

	if !d.open {
		return nil
	}
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return cmd
}

func (d *Drawer) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "tab":
		d.Close()
		return nil
	case "enter":
		return d.submit()
	case "up":
		d.cycleSuggestion(-1)
		return nil
	case "down":
		d.cycleSuggestion(1)
		return nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		d.viewport, cmd = d.viewport.Update(msg)
		return cmd
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return cmd
}

func (d *Drawer) submit() tea.Cmd {
	ex, err := d.session.Submit(d.input.Value())
	switch {
	case errors.Is(err, assistant.ErrEmptyMessage):
		return nil
	case errors.Is(err, assistant.ErrRequestInFlight):
		return nil
	case err != nil:
		d.logger.Warn("assistant submit failed", zap.Error(err))
		return nil
	}

	d.input.Reset()
	d.suggestion = -1
	return tea.Batch(d.await(ex), d.spinner.Tick)
}

func (d *Drawer) await(ex *assistant.Exchange) tea.Cmd {
	session := d.session
	return func() tea.Msg {
		turn := session.Await(context.Background(), ex)
		return replyMsg{exchangeID: ex.ID(), turn: turn}
	}
}

// Suggestions are the starter prompts before the first message and the
// latest reply's follow-up questions afterwards.
func (d *Drawer) Suggestions() []string {
	history := d.session.History()
	if len(history) == 0 {
		out := make([]string, len(Starters))
		for i, s := range Starters {
			out[i] = s.Prompt
		}
		return out
	}
	last := history[len(history)-1]
	if last.Role == assistant.RoleAssistant && last.Reply != nil {
		return last.Reply.FollowUps
	}
	return nil
}

// cycleSuggestion moves through the suggestions and copies the chosen
// one into the input.
func (d *Drawer) cycleSuggestion(delta int) {
	s := d.Suggestions()
	if len(s) == 0 {
		return
	}
	next := d.suggestion + delta
	if next < 0 {
		next = len(s) - 1
	}
	if next >= len(s) {
		next = 0
	}
	d.suggestion = next
	d.input.SetValue(s[next])
}

// Input returns the current input text.
func (d *Drawer) Input() string {
	return d.input.Value()
}
