package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/skillbuilder/internal/llm"
	"github.com/abhisek/skillbuilder/internal/store"
)

var (
	// ErrEmptyMessage is returned by Submit for blank input.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrRequestInFlight is returned by Submit while an exchange is pending.
	ErrRequestInFlight = errors.New("an assistant request is already in flight")
)

const (
	// FallbackText is the assistant turn appended when a request fails.
	FallbackText = "Sorry, I had trouble connecting."

	// UnconfiguredText replaces FallbackText when no provider is set up.
	UnconfiguredText = "The assistant isn't set up yet. Add an API key (for example GEMINI_API_KEY) and restart."
)

const recordTimeout = 5 * time.Second

// TurnRecorder persists conversation turns.
type TurnRecorder interface {
	AppendTurn(ctx context.Context, data store.TurnData) error
}

// Session owns the conversation history and the single in-flight request.
//
// History is append-only. Every Submit that succeeds is followed by
// exactly one assistant turn once its Exchange is awaited.
type Session struct {
	id       string
	gateway  Gateway
	provider ContextProvider
	recorder TurnRecorder
	logger   *zap.Logger
	clk      clock.Clock

	mu      sync.Mutex
	turns   []Turn
	pending bool
}

// Option configures a Session.
type Option func(*Session)

// WithRecorder persists every appended turn to r.
func WithRecorder(r TurnRecorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock used to timestamp turns.
func WithClock(c clock.Clock) Option {
	return func(s *Session) {
		if c != nil {
			s.clk = c
		}
	}
}

// NewSession creates an empty conversation. A nil gateway behaves like
// UnconfiguredGateway.
func NewSession(gateway Gateway, ctxProvider ContextProvider, opts ...Option) *Session {
	if gateway == nil {
		gateway = UnconfiguredGateway{}
	}
	s := &Session{
		id:       uuid.NewString(),
		gateway:  gateway,
		provider: ctxProvider,
		logger:   zap.NewNop(),
		clk:      clock.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID identifies this conversation in the store.
func (s *Session) ID() string {
	return s.id
}

// History returns a copy of every turn so far, oldest first.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Pending reports whether an exchange is waiting on the gateway.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Submit appends the user turn and returns a pending Exchange. The
// gateway is not contacted until the exchange is awaited.
func (s *Session) Submit(message string) (*Exchange, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return nil, ErrRequestInFlight
	}
	s.pending = true

	snap := s.currentContextSnapshot()
	turn := Turn{
		Seq:  len(s.turns),
		Role: RoleUser,
		Text: message,
		At:   s.clk.Now(),
	}
	s.turns = append(s.turns, turn)
	s.mu.Unlock()

	ex := &Exchange{
		id:       uuid.NewString(),
		message:  message,
		snapshot: snap,
		userTurn: turn,
	}

	s.logger.Debug("assistant message submitted",
		zap.String("exchange_id", ex.id),
		zap.Int("seq", turn.Seq),
		zap.String("screen", snap.Screen),
	)
	s.record(context.Background(), turn, snap.Screen)

	return ex, nil
}

// Await sends the exchange to the gateway and appends its assistant turn.
// It returns that turn. Calling Await again on the same exchange returns
// the same turn without contacting the gateway.
func (s *Session) Await(ctx context.Context, ex *Exchange) Turn {
	ex.once.Do(func() { s.resolve(ctx, ex) })
	return ex.Reply()
}

// Ask submits message and waits for its reply.
func (s *Session) Ask(ctx context.Context, message string) (Turn, error) {
	ex, err := s.Submit(message)
	if err != nil {
		return Turn{}, err
	}
	return s.Await(ctx, ex), nil
}

func (s *Session) resolve(ctx context.Context, ex *Exchange) {
	start := s.clk.Now()
	ctx = llm.WithCall(ctx, llm.Call{Purpose: "assistant", SessionID: s.id, ExchangeID: ex.id})
	resp, err := s.send(ctx, ex)
	if err == nil && resp == nil {
		err = &GatewayError{Kind: KindMalformedPayload, Err: errors.New("empty reply")}
	}

	s.mu.Lock()
	turn := Turn{
		Seq:  len(s.turns),
		Role: RoleAssistant,
		At:   s.clk.Now(),
	}
	if err != nil {
		turn.Text = fallbackText(err)
	} else {
		turn.Reply = resp
	}
	s.turns = append(s.turns, turn)
	s.pending = false
	s.mu.Unlock()

	ex.finish(turn, err)

	if err != nil {
		s.logger.Warn("assistant request failed",
			zap.String("exchange_id", ex.id),
			zap.Stringer("kind", FailureOf(err)),
			zap.Duration("latency", s.clk.Since(start)),
			zap.Error(err),
		)
	} else {
		s.logger.Debug("assistant reply received",
			zap.String("exchange_id", ex.id),
			zap.String("intent", resp.Intent),
			zap.Float64("confidence", resp.Confidence),
			zap.Duration("latency", s.clk.Since(start)),
		)
	}
	s.record(ctx, turn, ex.snapshot.Screen)
}

// send calls the gateway. A panicking gateway is reported as
// KindUnavailable so the exchange still gets its assistant turn.
func (s *Session) send(ctx context.Context, ex *Exchange) (resp *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = &GatewayError{Kind: KindUnavailable, Err: fmt.Errorf("gateway panic: %v", r)}
		}
	}()
	return s.gateway.Send(ctx, ex.message, ex.snapshot)
}

// currentContextSnapshot asks the provider for a fresh snapshot. It is
// never cached between submits.
func (s *Session) currentContextSnapshot() ContextSnapshot {
	if s.provider == nil {
		return ContextSnapshot{}
	}
	return s.provider.Snapshot()
}

func (s *Session) record(ctx context.Context, turn Turn, screen string) {
	if s.recorder == nil {
		return
	}

	data := store.TurnData{
		SessionID: s.id,
		TurnSeq:   turn.Seq,
		Role:      string(turn.Role),
		Text:      turn.Text,
		Screen:    screen,
	}
	if turn.Reply != nil {
		data.Intent = turn.Reply.Intent
		data.Confidence = turn.Reply.Confidence
		if b, err := json.Marshal(turn.Reply); err == nil {
			data.ReplyJSON = string(b)
		}
	}

	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := s.recorder.AppendTurn(rctx, data); err != nil {
		s.logger.Warn("failed to record conversation turn",
			zap.Int("seq", turn.Seq),
			zap.Error(err),
		)
	}
}

func fallbackText(err error) string {
	if errors.Is(err, ErrNotConfigured) {
		return UnconfiguredText
	}
	return FallbackText
}

// ExchangeState is the lifecycle position of one request.
type ExchangeState int

const (
	ExchangePending ExchangeState = iota
	ExchangeResolved
	ExchangeFailed
)

func (s ExchangeState) String() string {
	switch s {
	case ExchangePending:
		return "pending"
	case ExchangeResolved:
		return "resolved"
	case ExchangeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Exchange is the handle for one submitted message.
type Exchange struct {
	id       string
	message  string
	snapshot ContextSnapshot
	userTurn Turn

	once sync.Once

	mu      sync.Mutex
	state   ExchangeState
	failure FailureKind
	err     error
	reply   Turn
}

// ID uniquely identifies the exchange.
func (e *Exchange) ID() string { return e.id }

// Message is the trimmed user message.
func (e *Exchange) Message() string { return e.message }

// Snapshot is the context captured at submit time.
func (e *Exchange) Snapshot() ContextSnapshot { return e.snapshot }

// UserTurn is the turn appended by Submit.
func (e *Exchange) UserTurn() Turn { return e.userTurn }

func (e *Exchange) State() ExchangeState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Failure returns the gateway failure kind, or KindNone unless Failed.
func (e *Exchange) Failure() FailureKind {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.failure
}

// Err returns the underlying gateway error, if any.
func (e *Exchange) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Reply returns the assistant turn, or the zero Turn while pending.
func (e *Exchange) Reply() Turn {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reply
}

func (e *Exchange) finish(turn Turn, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reply = turn
	if err != nil {
		e.state = ExchangeFailed
		e.failure = FailureOf(err)
		e.err = err
		return
	}
	e.state = ExchangeResolved
}
