package assistant

import (
	"strings"
	"testing"
)

func TestBuildSystemPrompt_Defaults(t *testing.T) {
	got := buildSystemPrompt(ContextSnapshot{Screen: "GoalSelection"})

	for _, want := range []string{
		"screen: GoalSelection.",
		"Goal: None selected.",
		"Day: 0.",
		"topics: General learning.",
		"structured JSON",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestBuildSystemPrompt_EmptyGoalTitle(t *testing.T) {
	empty := ""
	got := buildSystemPrompt(ContextSnapshot{Screen: "Progress", GoalTitle: &empty, DayNumber: 3})
	if !strings.Contains(got, "Goal: None selected.") {
		t.Errorf("empty goal title should read as none selected:\n%s", got)
	}
}
