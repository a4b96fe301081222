// Package pack is the daily audio pack player.
package pack

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/skillbuilder/internal/clock"
	"github.com/abhisek/skillbuilder/internal/journey"
	"github.com/abhisek/skillbuilder/internal/playback"
	"github.com/abhisek/skillbuilder/internal/router"
	"github.com/abhisek/skillbuilder/internal/screen"
	"github.com/abhisek/skillbuilder/internal/screens"
	"github.com/abhisek/skillbuilder/internal/screens/lesson"
	"github.com/abhisek/skillbuilder/internal/ui/layout"
)

// SkipSec is how far the skip controls seek.
const SkipSec = 15

const completeTimeout = 5 * time.Second

// PackScreen plays today's pack.
//
// It holds at most one live tick subscription. The subscription exists
// only while the engine is playing and is cancelled on pause, on manual
// selection, on completion and when the screen closes.
type PackScreen struct {
	deps   screens.Deps
	engine *playback.Engine
	day    int
	sub    *clock.Subscription
	cursor int
	played map[int]bool
	errMsg string
}

var _ screen.Screen = (*PackScreen)(nil)
var _ screen.KeyHintProvider = (*PackScreen)(nil)
var _ screen.Closer = (*PackScreen)(nil)
var _ journey.Mounted = (*PackScreen)(nil)

// New creates a stopped player for the active goal's current pack.
func New(deps screens.Deps) *PackScreen {
	p := &PackScreen{
		deps:   deps,
		day:    deps.Journey.DayNumber(),
		played: make(map[int]bool),
	}
	engine, err := playback.NewEngine(deps.Journey.Pack())
	if err != nil {
		p.errMsg = err.Error()
		return p
	}
	p.engine = engine
	return p
}

func (p *PackScreen) Init() tea.Cmd {
	return nil
}

func (p *PackScreen) Title() string {
	return "Daily Pack"
}

func (p *PackScreen) JourneyScreen() journey.Screen {
	return journey.ScreenDailyPack
}

func (p *PackScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Space", Description: "Play/Pause"},
		{Key: "←→", Description: "Skip 15s"},
		{Key: "↑↓ Enter", Description: "Pick track"},
		{Key: "C", Description: "Mark as Complete"},
		{Key: "Tab", Description: "Assistant"},
	}
}

// Engine exposes the playback engine.
func (p *PackScreen) Engine() *playback.Engine {
	return p.engine
}

// Subscription returns the live tick subscription, or nil when idle.
func (p *PackScreen) Subscription() *clock.Subscription {
	return p.sub
}

// Close cancels any live subscription.
func (p *PackScreen) Close() {
	p.stopTicks()
}

func (p *PackScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if p.engine == nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return p, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return p, nil
	}

	switch msg := msg.(type) {
	case tickMsg:
		return p.handleTick(msg)
	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return p, nil
}

func (p *PackScreen) handleTick(msg tickMsg) (screen.Screen, tea.Cmd) {
	if p.sub == nil || msg.subID != p.sub.ID() {
		return p, nil
	}

	prev := p.engine.State().CurrentIndex
	ev := p.engine.Tick()
	switch ev {
	case playback.TickIgnored:
		p.stopTicks()
		return p, nil
	case playback.TickProgressed:
		p.played[p.engine.State().CurrentIndex] = true
	case playback.TickAdvanced:
		p.played[prev] = true
		if p.cursor == prev {
			p.cursor = p.engine.State().CurrentIndex
		}
	case playback.TickCompleted:
		p.played[prev] = true
		p.stopTicks()
		p.deps.Log().Debug("pack playback finished", zap.String("pack_id", p.engine.Pack().ID))
		return p, nil
	}
	return p, waitTick(p.sub)
}

func (p *PackScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "space", " ", "p":
		if p.engine.Toggle() {
			return p, p.startTicks()
		}
		p.stopTicks()
		return p, nil

	case "left", "h":
		p.engine.SeekRelative(-SkipSec)
	case "right", "l":
		p.engine.SeekRelative(SkipSec)

	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < p.engine.Len()-1 {
			p.cursor++
		}
	case "enter":
		if err := p.engine.SelectItem(p.cursor); err != nil {
			p.deps.Log().Warn("track selection rejected", zap.Error(err))
			return p, nil
		}
		p.played[p.cursor] = true
		return p, p.startTicks()

	case "c", "C":
		return p, p.complete()
	}
	return p, nil
}

// complete marks the day done whatever the playback state.
func (p *PackScreen) complete() tea.Cmd {
	p.stopTicks()
	p.engine.Pause()

	ctx, cancel := context.WithTimeout(context.Background(), completeTimeout)
	defer cancel()

	pack := p.engine.Pack()
	if _, err := p.deps.Journey.CompleteDay(ctx, len(p.played)); err != nil {
		p.deps.Log().Warn("failed to persist completed day",
			zap.String("pack_id", pack.ID),
			zap.Error(err),
		)
	}

	next := lesson.New(p.deps, p.day, pack.LessonSheetID)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

// startTicks replaces any live subscription with a fresh one.
func (p *PackScreen) startTicks() tea.Cmd {
	p.stopTicks()
	if p.deps.Ticks == nil {
		return nil
	}
	p.sub = p.deps.Ticks.Subscribe()
	return waitTick(p.sub)
}

func (p *PackScreen) stopTicks() {
	if p.sub == nil {
		return
	}
	p.sub.Cancel()
	p.sub = nil
}

// waitTick blocks on the next tick of sub. A cancelled subscription
// produces no message.
func waitTick(sub *clock.Subscription) tea.Cmd {
	return func() tea.Msg {
		t, ok := sub.Next()
		if !ok {
			return nil
		}
		return tickMsg{subID: sub.ID(), at: t}
	}
}
