package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/abhisek/skillbuilder/internal/llm"
	"github.com/abhisek/skillbuilder/internal/store"
)

type sentMessage struct {
	message string
	snap    ContextSnapshot
}

// fakeGateway returns a fixed reply. When release is set, Send blocks
// until it is closed or the context ends.
type fakeGateway struct {
	mu      sync.Mutex
	sent    []sentMessage
	release chan struct{}
	entered chan struct{}
	resp    *Response
	err     error
}

func (f *fakeGateway) Send(ctx context.Context, message string, snap ContextSnapshot) (*Response, error) {
	f.mu.Lock()
	f.sent = append(f.sent, sentMessage{message: message, snap: snap})
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, &GatewayError{Kind: KindTimeout, Err: ctx.Err()}
		}
	}
	return f.resp, f.err
}

func (f *fakeGateway) calls() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

type fakeRecorder struct {
	mu    sync.Mutex
	turns []store.TurnData
	err   error
}

func (r *fakeRecorder) AppendTurn(_ context.Context, data store.TurnData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns = append(r.turns, data)
	return r.err
}

type panickingGateway struct{}

func (panickingGateway) Send(context.Context, string, ContextSnapshot) (*Response, error) {
	panic("nil map write")
}

func staticContext(screen string) ContextProvider {
	return ContextFunc(func() ContextSnapshot {
		return ContextSnapshot{Screen: screen, DayNumber: 7}
	})
}

func okReply() *Response {
	return &Response{Intent: "explain_concept", Confidence: 0.9, FollowUps: []string{"What else?"}}
}

func TestSubmit_EmptyMessage(t *testing.T) {
	s := NewSession(&fakeGateway{resp: okReply()}, staticContext("DailyPack"))

	for _, msg := range []string{"", "   ", "\n\t"} {
		_, err := s.Submit(msg)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	assert.Empty(t, s.History())
	assert.False(t, s.Pending())
}

func TestAsk_Success(t *testing.T) {
	gw := &fakeGateway{resp: okReply()}
	s := NewSession(gw, staticContext("DailyPack"), WithLogger(zaptest.NewLogger(t)))

	turn, err := s.Ask(context.Background(), "  Explain 'Perseverance'  ")
	require.NoError(t, err)

	require.NotNil(t, turn.Reply)
	assert.Equal(t, RoleAssistant, turn.Role)
	assert.Equal(t, "explain_concept", turn.Reply.Intent)
	assert.False(t, turn.IsFallback())

	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, RoleUser, history[0].Role)
	assert.Equal(t, "Explain 'Perseverance'", history[0].Text)
	assert.Equal(t, 0, history[0].Seq)
	assert.Equal(t, 1, history[1].Seq)
	assert.False(t, s.Pending())

	require.Len(t, gw.calls(), 1)
	assert.Equal(t, "Explain 'Perseverance'", gw.calls()[0].message)
}

func TestSubmit_SingleFlight(t *testing.T) {
	gw := &fakeGateway{
		resp:    okReply(),
		release: make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	s := NewSession(gw, staticContext("DailyPack"))

	ex, err := s.Submit("first")
	require.NoError(t, err)
	assert.Equal(t, ExchangePending, ex.State())
	assert.True(t, s.Pending())

	done := make(chan Turn, 1)
	go func() { done <- s.Await(context.Background(), ex) }()
	<-gw.entered

	_, err = s.Submit("second")
	require.ErrorIs(t, err, ErrRequestInFlight)
	require.Len(t, s.History(), 1, "a rejected submit must not append a turn")

	close(gw.release)
	reply := <-done

	assert.Equal(t, ExchangeResolved, ex.State())
	assert.Equal(t, KindNone, ex.Failure())
	assert.Equal(t, reply, ex.Reply())
	assert.False(t, s.Pending())

	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, RoleUser, history[0].Role)
	assert.Equal(t, RoleAssistant, history[1].Role)

	gw.release = nil
	gw.entered = nil
	_, err = s.Ask(context.Background(), "third")
	require.NoError(t, err)
	assert.Len(t, s.History(), 4)
}

func TestSubmit_ConcurrentCallersOnlyOneWins(t *testing.T) {
	s := NewSession(&fakeGateway{resp: okReply()}, staticContext("DailyPack"))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.Submit(fmt.Sprintf("msg %d", i)); err == nil {
				wins.Add(1)
			} else {
				assert.ErrorIs(t, err, ErrRequestInFlight)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Len(t, s.History(), 1)
	assert.True(t, s.Pending())
}

func TestAwait_Idempotent(t *testing.T) {
	gw := &fakeGateway{resp: okReply()}
	s := NewSession(gw, staticContext("DailyPack"))

	ex, err := s.Submit("hello")
	require.NoError(t, err)

	first := s.Await(context.Background(), ex)
	second := s.Await(context.Background(), ex)

	assert.Equal(t, first, second)
	assert.Len(t, gw.calls(), 1)
	assert.Len(t, s.History(), 2)
}

func TestAwait_GatewayFailuresAppendOneFallback(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"unavailable", &GatewayError{Kind: KindUnavailable, Err: errors.New("down")}, KindUnavailable},
		{"timeout", &GatewayError{Kind: KindTimeout, Err: context.DeadlineExceeded}, KindTimeout},
		{"malformed", &GatewayError{Kind: KindMalformedPayload, Err: errors.New("bad json")}, KindMalformedPayload},
		{"raw error", errors.New("boom"), KindUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(&fakeGateway{err: tt.err}, staticContext("DailyPack"))

			ex, err := s.Submit("why is the track buffering?")
			require.NoError(t, err)
			turn := s.Await(context.Background(), ex)

			assert.Equal(t, ExchangeFailed, ex.State())
			assert.Equal(t, tt.want, ex.Failure())
			assert.True(t, turn.IsFallback())
			assert.Equal(t, FallbackText, turn.Text)

			history := s.History()
			require.Len(t, history, 2)
			assert.Equal(t, RoleAssistant, history[1].Role)
			assert.False(t, s.Pending())
		})
	}
}

func TestAwait_NilReplyIsMalformed(t *testing.T) {
	s := NewSession(&fakeGateway{}, staticContext("DailyPack"))
	ex, err := s.Submit("hi")
	require.NoError(t, err)

	turn := s.Await(context.Background(), ex)
	assert.Equal(t, KindMalformedPayload, ex.Failure())
	assert.Equal(t, FallbackText, turn.Text)
}

func TestAsk_Unconfigured(t *testing.T) {
	s := NewSession(nil, staticContext("GoalSelection"))

	turn, err := s.Ask(context.Background(), "hello")
	require.NoError(t, err)

	assert.True(t, turn.IsFallback())
	assert.Equal(t, UnconfiguredText, turn.Text)
	assert.Len(t, s.History(), 2)
}

func TestAsk_TimeoutThroughLLMGateway(t *testing.T) {
	gw := NewLLMGateway(blockingProvider{}, Config{Timeout: 20 * time.Millisecond})
	s := NewSession(gw, staticContext("DailyPack"))

	ex, err := s.Submit("slow question")
	require.NoError(t, err)
	turn := s.Await(context.Background(), ex)

	assert.Equal(t, KindTimeout, ex.Failure())
	assert.Equal(t, FallbackText, turn.Text)
	assert.Len(t, s.History(), 2)
}

func TestAsk_MalformedThroughLLMGateway(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"intent":"x","confidence":2}`)})
	s := NewSession(NewLLMGateway(mock, DefaultConfig()), staticContext("DailyPack"))

	ex, err := s.Submit("question")
	require.NoError(t, err)
	turn := s.Await(context.Background(), ex)

	assert.Equal(t, KindMalformedPayload, ex.Failure())
	assert.True(t, turn.IsFallback())
	assert.Len(t, s.History(), 2)
}

func TestSubmit_FreshSnapshotEachTime(t *testing.T) {
	var n atomic.Int32
	provider := ContextFunc(func() ContextSnapshot {
		i := n.Add(1)
		return ContextSnapshot{Screen: fmt.Sprintf("screen-%d", i), DayNumber: int(i)}
	})
	gw := &fakeGateway{resp: okReply()}
	s := NewSession(gw, provider)

	_, err := s.Ask(context.Background(), "one")
	require.NoError(t, err)
	_, err = s.Ask(context.Background(), "two")
	require.NoError(t, err)

	calls := gw.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "screen-1", calls[0].snap.Screen)
	assert.Equal(t, "screen-2", calls[1].snap.Screen)
	assert.Equal(t, int32(2), n.Load())
}

func TestSubmit_SnapshotTakenAtSubmit(t *testing.T) {
	screen := "DailyPack"
	provider := ContextFunc(func() ContextSnapshot { return ContextSnapshot{Screen: screen} })
	gw := &fakeGateway{resp: okReply()}
	s := NewSession(gw, provider)

	ex, err := s.Submit("q")
	require.NoError(t, err)
	screen = "LessonSheet"
	s.Await(context.Background(), ex)

	assert.Equal(t, "DailyPack", ex.Snapshot().Screen)
	assert.Equal(t, "DailyPack", gw.calls()[0].snap.Screen)
}

func TestRecorder_ReceivesEveryTurn(t *testing.T) {
	reply := okReply()
	reply.Steps = []Step{}
	rec := &fakeRecorder{}
	s := NewSession(&fakeGateway{resp: reply}, staticContext("DailyPack"), WithRecorder(rec))

	_, err := s.Ask(context.Background(), "hello")
	require.NoError(t, err)

	require.Len(t, rec.turns, 2)
	assert.Equal(t, s.ID(), rec.turns[0].SessionID)
	assert.Equal(t, "user", rec.turns[0].Role)
	assert.Equal(t, "hello", rec.turns[0].Text)
	assert.Empty(t, rec.turns[0].ReplyJSON)

	assistantTurn := rec.turns[1]
	assert.Equal(t, "assistant", assistantTurn.Role)
	assert.Equal(t, 1, assistantTurn.TurnSeq)
	assert.Equal(t, "explain_concept", assistantTurn.Intent)
	assert.Equal(t, "DailyPack", assistantTurn.Screen)

	var decoded Response
	require.NoError(t, json.Unmarshal([]byte(assistantTurn.ReplyJSON), &decoded))
	assert.True(t, decoded.HasSteps(), "empty steps must survive persistence")
	assert.False(t, decoded.HasChecklist(), "absent checklist must stay absent")
}

func TestRecorder_FailureDoesNotAffectHistory(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	s := NewSession(&fakeGateway{resp: okReply()}, staticContext("DailyPack"),
		WithRecorder(rec), WithLogger(zaptest.NewLogger(t)))

	turn, err := s.Ask(context.Background(), "hello")
	require.NoError(t, err)
	assert.NotNil(t, turn.Reply)
	assert.Len(t, s.History(), 2)
	assert.Len(t, rec.turns, 2)
}

func TestRecorder_Store(t *testing.T) {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	s := NewSession(&fakeGateway{resp: okReply()}, staticContext("DailyPack"), WithRecorder(st.EventRepo()))
	_, err = s.Ask(context.Background(), "hello")
	require.NoError(t, err)

	turns, err := st.EventRepo().RecentTurns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Role)
	assert.Equal(t, "assistant", turns[1].Role)
	assert.Equal(t, s.ID(), turns[1].SessionID)
}

func TestHistory_ReturnsCopy(t *testing.T) {
	s := NewSession(&fakeGateway{resp: okReply()}, staticContext("DailyPack"))
	_, err := s.Ask(context.Background(), "hello")
	require.NoError(t, err)

	h := s.History()
	h[0].Text = "mutated"
	assert.Equal(t, "hello", s.History()[0].Text)
}

func TestAwait_GatewayPanicBecomesFallbackTurn(t *testing.T) {
	s := NewSession(panickingGateway{}, staticContext("DailyPack"), WithLogger(zaptest.NewLogger(t)))

	ex, err := s.Submit("Why is the track buffering?")
	require.NoError(t, err)

	var turn Turn
	require.NotPanics(t, func() { turn = s.Await(context.Background(), ex) })

	assert.Equal(t, FallbackText, turn.Text)
	assert.Nil(t, turn.Reply)
	assert.Equal(t, ExchangeFailed, ex.State())
	assert.Equal(t, KindUnavailable, ex.Failure())
	assert.ErrorContains(t, ex.Err(), "nil map write")
	assert.False(t, s.Pending())
	require.Len(t, s.History(), 2)

	_, err = s.Submit("Try again")
	assert.NoError(t, err)
}
