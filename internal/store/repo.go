package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// GoalProgress is the persisted progress for one learning goal.
type GoalProgress struct {
	DaysCompleted int     `json:"daysCompleted"`
	Streak        int     `json:"streak"`
	Percent       float64 `json:"percent"`
}

// SnapshotData captures journey progress at a point in time.
type SnapshotData struct {
	Version      int                     `json:"version"`
	ActiveGoalID string                  `json:"activeGoalId,omitempty"`
	Goals        map[string]GoalProgress `json:"goals,omitempty"`
}

// Snapshot represents a point-in-time capture of journey progress.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages progress snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	SessionID    string
	ExchangeID   string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID           int       `sql:"id"`
	Sequence     int64     `sql:"sequence"`
	Timestamp    time.Time `sql:"timestamp"`
	Provider     string    `sql:"provider"`
	Model        string    `sql:"model"`
	Purpose      string    `sql:"purpose"`
	SessionID    string    `sql:"session_id"`
	ExchangeID   string    `sql:"exchange_id"`
	InputTokens  int       `sql:"input_tokens"`
	OutputTokens int       `sql:"output_tokens"`
	LatencyMs    int64     `sql:"latency_ms"`
	Success      bool      `sql:"success"`
	ErrorMessage string    `sql:"error_message"`
	RequestBody  string    `sql:"request_body"`
	ResponseBody string    `sql:"response_body"`
}

// PurposeUsage aggregates LLM usage for one purpose label.
type PurposeUsage struct {
	Purpose      string `sql:"purpose"`
	Calls        int    `sql:"calls"`
	InputTokens  int    `sql:"input_tokens"`
	OutputTokens int    `sql:"output_tokens"`
	AvgLatencyMs int64  `sql:"avg_latency_ms"`
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string `sql:"model"`
	Calls        int    `sql:"calls"`
	InputTokens  int    `sql:"input_tokens"`
	OutputTokens int    `sql:"output_tokens"`
}

// TurnData captures one conversation turn for persistence.
type TurnData struct {
	SessionID  string
	TurnSeq    int
	Role       string
	Text       string
	Intent     string
	Confidence float64
	ReplyJSON  string
	Screen     string
}

// TurnRecord is a stored conversation turn.
type TurnRecord struct {
	ID         int       `sql:"id"`
	Sequence   int64     `sql:"sequence"`
	Timestamp  time.Time `sql:"timestamp"`
	SessionID  string    `sql:"session_id"`
	TurnSeq    int       `sql:"turn_seq"`
	Role       string    `sql:"role"`
	Text       string    `sql:"text"`
	Intent     string    `sql:"intent"`
	Confidence float64   `sql:"confidence"`
	ReplyJSON  string    `sql:"reply_json"`
	Screen     string    `sql:"screen"`
}

// PackEventData captures a learner finishing a day's pack.
type PackEventData struct {
	GoalID      string
	PackID      string
	DayNumber   int
	Action      string
	ItemsPlayed int
}

// PackEvent is a stored pack event.
type PackEvent struct {
	ID          int       `sql:"id"`
	Sequence    int64     `sql:"sequence"`
	Timestamp   time.Time `sql:"timestamp"`
	GoalID      string    `sql:"goal_id"`
	PackID      string    `sql:"pack_id"`
	DayNumber   int       `sql:"day_number"`
	Action      string    `sql:"action"`
	ItemsPlayed int       `sql:"items_played"`
}

// PackActionCompleted marks a day as finished.
const PackActionCompleted = "completed"

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// AppendTurn records one conversation turn.
	AppendTurn(ctx context.Context, data TurnData) error

	// RecentTurns returns the most recent turns across all sessions in
	// chronological order.
	RecentTurns(ctx context.Context, limit int) ([]TurnRecord, error)

	// AppendPackEvent records a pack event.
	AppendPackEvent(ctx context.Context, data PackEventData) error

	// PackEvents returns the pack events for a goal in chronological
	// order. An empty goalID returns events for every goal.
	PackEvents(ctx context.Context, goalID string) ([]PackEvent, error)
}
