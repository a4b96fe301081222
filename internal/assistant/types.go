package assistant

import "time"

// Role identifies who authored a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Step is one entry of a step-by-step flow.
type Step struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	ExpectedScreen string `json:"expectedScreen"`
}

// ChecklistItem is one entry of a checklist.
type ChecklistItem struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Hints []string `json:"hints"`
}

// Action is something the learner can do right away.
type Action struct {
	Label      string `json:"label"`
	ActionType string `json:"actionType"`
	Payload    string `json:"payload"`
}

// Response is the structured reply from the assistant gateway.
//
// Optional lists are nil when the field was absent from the payload and
// non-nil (possibly empty) when it was present. Renderers use the Has*
// accessors to tell the two apart.
type Response struct {
	Intent                 string          `json:"intent"`
	Confidence             float64         `json:"confidence"`
	UncertaintyExplanation *string         `json:"uncertaintyExplanation,omitempty"`
	Steps                  []Step          `json:"steps"`
	Checklist              []ChecklistItem `json:"checklist"`
	SuggestedActions       []Action        `json:"suggestedActions"`
	FollowUps              []string        `json:"followUps"`
}

func (r *Response) HasUncertainty() bool { return r.UncertaintyExplanation != nil }
func (r *Response) HasSteps() bool { return r.Steps != nil }
func (r *Response) HasChecklist() bool { return r.Checklist != nil }
func (r *Response) HasSuggestedActions() bool { return r.SuggestedActions != nil }
func (r *Response) HasFollowUps() bool { return r.FollowUps != nil }

// Turn is one entry in the conversation history. A user turn carries Text.
// An assistant turn carries either Reply or a fallback Text.
type Turn struct {
	Seq   int
	Role  Role
	Text  string
	Reply *Response
	At    time.Time
}

// IsFallback reports whether an assistant turn is a fallback apology.
func (t Turn) IsFallback() bool {
	return t.Role == RoleAssistant && t.Reply == nil
}

// ContextSnapshot is the point-in-time session context sent with each
// request. It is built fresh for every request.
type ContextSnapshot struct {
	Screen    string   `json:"screen"`
	GoalTitle *string  `json:"goalTitle,omitempty"`
	DayNumber int      `json:"dayNumber"`
	Topics    []string `json:"topics"`
}

// ContextProvider supplies the current session context.
type ContextProvider interface {
	Snapshot() ContextSnapshot
}

// ContextFunc adapts a function to ContextProvider.
type ContextFunc func() ContextSnapshot

func (f ContextFunc) Snapshot() ContextSnapshot { return f() }
