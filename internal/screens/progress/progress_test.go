package progress

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillbuilder/internal/content"
	"github.com/abhisek/skillbuilder/internal/journey"
	"github.com/abhisek/skillbuilder/internal/router"
	"github.com/abhisek/skillbuilder/internal/screens"
	"github.com/abhisek/skillbuilder/internal/screens/pack"
)

func newDeps(t *testing.T) screens.Deps {
	t.Helper()
	catalog, err := content.Default()
	require.NoError(t, err)
	ctrl := journey.NewController(catalog)
	require.NoError(t, ctrl.SelectGoal(context.Background(), "goal_english"))
	return screens.Deps{Journey: ctrl}
}

func TestView_ShowsStats(t *testing.T) {
	p := New(newDeps(t))

	view := p.View(100, 40)
	assert.Contains(t, view, "Hello Saneer")
	assert.Contains(t, view, "Your Journey Progress")
	assert.Contains(t, view, "Current Focus")
	assert.Contains(t, view, "Improve English")
	assert.Contains(t, view, "Overall Progress")
	assert.Contains(t, view, "20%")
	assert.Contains(t, view, "Day Streak")
	assert.Contains(t, view, "Days Done")
	assert.Contains(t, view, "Start Day 7 Pack")
	assert.Contains(t, view, "Change Goal")
}

func TestView_ReflectsCompletedDay(t *testing.T) {
	deps := newDeps(t)
	p := New(deps)

	_, err := deps.Journey.CompleteDay(context.Background(), 2)
	require.NoError(t, err)

	view := p.View(100, 40)
	assert.Contains(t, view, "Start Day 8 Pack")
	assert.Contains(t, view, "25%")
}

func TestStart_PushesPack(t *testing.T) {
	p := New(newDeps(t))

	_, cmd := p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	push, ok := msg.(router.PushScreenMsg)
	require.True(t, ok, "expected PushScreenMsg, got %T", msg)
	_, ok = push.Screen.(*pack.PackScreen)
	assert.True(t, ok)
}

func TestJourneyScreen(t *testing.T) {
	assert.Equal(t, journey.ScreenProgress, New(newDeps(t)).JourneyScreen())
}
