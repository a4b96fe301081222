package lesson

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillbuilder/internal/content"
	"github.com/abhisek/skillbuilder/internal/journey"
	"github.com/abhisek/skillbuilder/internal/router"
	"github.com/abhisek/skillbuilder/internal/screens"
)

func newDeps(t *testing.T) screens.Deps {
	t.Helper()
	catalog, err := content.Default()
	require.NoError(t, err)
	return screens.Deps{Journey: journey.NewController(catalog)}
}

func TestView_ShowsSheet(t *testing.T) {
	l := New(newDeps(t), 7, "ls_001_eng")

	view := l.View(100, 60)
	assert.Contains(t, view, "Lesson Sheet: Day 7")
	assert.Contains(t, view, "AI Summary")
	assert.Contains(t, view, "Generated")
	assert.Contains(t, view, "Key Vocabulary")
	assert.Contains(t, view, "Perseverance")
}

func TestView_MissingSheet(t *testing.T) {
	l := New(newDeps(t), 3, "nope")

	assert.Contains(t, l.View(100, 30), "No lesson sheet")
}

func TestEnter_ReturnsToDashboard(t *testing.T) {
	l := New(newDeps(t), 7, "ls_001_eng")

	_, cmd := l.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
	assert.Equal(t, journey.ScreenLessonSheet, l.JourneyScreen())
}
