package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillbuilder/internal/router"
	"github.com/abhisek/skillbuilder/internal/screen"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{ name string }

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return s.name }
func (s *stubScreen) Title() string                          { return s.name }

func newTestWelcome(names ...string) (*WelcomeScreen, *int) {
	callCount := 0
	next := func() []screen.Screen {
		callCount++
		out := make([]screen.Screen, len(names))
		for i, n := range names {
			out[i] = &stubScreen{name: n}
		}
		return out
	}
	return New(next), &callCount
}

func sendTicks(w *WelcomeScreen, n int) {
	for i := 0; i < n; i++ {
		w.Update(tickMsg(time.Now()))
	}
}

func TestBannerAppearsAfterDelay(t *testing.T) {
	w, _ := newTestWelcome("goals")

	if strings.Contains(w.View(100, 30), "press any key") {
		t.Error("hint should not be visible at start")
	}

	sendTicks(w, 8)
	if w.elapsed != bannerAt {
		t.Errorf("expected elapsed %v, got %v", bannerAt, w.elapsed)
	}
	if !strings.Contains(w.View(100, 30), "press any key") {
		t.Error("hint should be visible once the banner shows")
	}
}

func TestElapsedCapped(t *testing.T) {
	w, callCount := newTestWelcome("goals")

	sendTicks(w, 50)
	if w.elapsed != totalDur {
		t.Errorf("expected elapsed capped at %v, got %v", totalDur, w.elapsed)
	}
	if *callCount != 0 {
		t.Errorf("splash must not transition without a key, got %d calls", *callCount)
	}
}

func TestKeypressReplacesWithSingleScreen(t *testing.T) {
	w, callCount := newTestWelcome("goals")

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("keypress should trigger transition")
	}
	msg := cmd()
	if seq, ok := msg.(tea.SequenceMsg); ok {
		if len(seq) != 1 {
			t.Fatalf("expected one command, got %d", len(seq))
		}
		msg = seq[0]()
	}
	replace, ok := msg.(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}
	if replace.Screen.Title() != "goals" {
		t.Errorf("expected goals screen, got %q", replace.Screen.Title())
	}
	if *callCount != 1 {
		t.Errorf("next should be called once, got %d", *callCount)
	}
}

func TestKeypressRestoresStack(t *testing.T) {
	w, _ := newTestWelcome("goals", "progress")

	_, cmd := w.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if cmd == nil {
		t.Fatal("keypress should trigger transition")
	}
	seq, ok := cmd().(tea.SequenceMsg)
	if !ok {
		t.Fatal("expected a sequence for a restored stack")
	}
	if len(seq) != 2 {
		t.Fatalf("expected replace then push, got %d commands", len(seq))
	}
	if _, ok := seq[0]().(router.ReplaceScreenMsg); !ok {
		t.Error("first command should replace the splash")
	}
	push, ok := seq[1]().(router.PushScreenMsg)
	if !ok {
		t.Fatal("second command should push")
	}
	if push.Screen.Title() != "progress" {
		t.Errorf("expected progress on top, got %q", push.Screen.Title())
	}
}

func TestTransitionOnlyOnce(t *testing.T) {
	w, callCount := newTestWelcome("goals")

	w.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	_, cmd := w.Update(tea.KeyPressMsg{Code: 'b', Text: "b"})
	if cmd != nil {
		t.Error("second keypress should not produce a command")
	}
	if *callCount != 1 {
		t.Errorf("next should be called exactly once, got %d", *callCount)
	}
}

func TestEqualizerShape(t *testing.T) {
	for frame := 0; frame < 20; frame++ {
		lines := strings.Split(RenderEqualizer(frame, 6), "\n")
		if len(lines) != 3 {
			t.Fatalf("frame %d: expected 3 rows, got %d", frame, len(lines))
		}
	}
}

func TestTitleEmpty(t *testing.T) {
	w, _ := newTestWelcome("goals")
	if w.Title() != "" {
		t.Errorf("expected empty title, got %q", w.Title())
	}
}
