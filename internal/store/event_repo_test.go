package store

import (
	"context"
	"fmt"
	"testing"
)

func TestLLMEvents_AppendQueryGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "gemini",
			Model:        "gemini-2.5-flash",
			Purpose:      "assistant",
			SessionID:    "sess-1",
			ExchangeID:   fmt.Sprintf("ex-%d", i),
			InputTokens:  100 * (i + 1),
			OutputTokens: 10 * (i + 1),
			LatencyMs:    int64(200 * (i + 1)),
			Success:      i != 1,
			ErrorMessage: fmt.Sprintf("err-%d", i),
			RequestBody:  "[user]\nhello",
			ResponseBody: `{"intent":"explain","confidence":0.9}`,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].Sequence <= events[1].Sequence {
		t.Errorf("expected newest first, got %d then %d", events[0].Sequence, events[1].Sequence)
	}
	if events[0].InputTokens != 300 {
		t.Errorf("input tokens = %d, want 300", events[0].InputTokens)
	}
	if events[0].Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}

	got, err := repo.GetLLMEvent(ctx, events[1].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected event")
	}
	if got.Success {
		t.Error("expected the second event to be a failure")
	}
	if got.RequestBody != "[user]\nhello" {
		t.Errorf("request body = %q", got.RequestBody)
	}
	if got.ExchangeID != "ex-1" || got.SessionID != "sess-1" {
		t.Errorf("exchange = %q session = %q, want ex-1 sess-1", got.ExchangeID, got.SessionID)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing event, got %+v", missing)
	}
}

func TestLLMEvents_QueryAfter(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Purpose: "assistant", Success: true}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{After: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	for _, e := range events {
		if e.Sequence <= 2 {
			t.Errorf("sequence %d should be > 2", e.Sequence)
		}
	}
}

func TestLLMUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	rows := []LLMRequestEventData{
		{Model: "gemini-2.5-flash", Purpose: "assistant", InputTokens: 100, OutputTokens: 20, LatencyMs: 100},
		{Model: "gemini-2.5-flash", Purpose: "assistant", InputTokens: 50, OutputTokens: 10, LatencyMs: 300},
		{Model: "gpt-4o-mini", Purpose: "ask", InputTokens: 10, OutputTokens: 5, LatencyMs: 50},
	}
	for _, r := range rows {
		if err := repo.AppendLLMRequest(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("purposes = %d, want 2", len(byPurpose))
	}
	// Ordered by purpose name.
	if byPurpose[1].Purpose != "assistant" || byPurpose[1].Calls != 2 {
		t.Errorf("assistant usage = %+v", byPurpose[1])
	}
	if byPurpose[1].InputTokens != 150 || byPurpose[1].OutputTokens != 30 {
		t.Errorf("assistant tokens = %+v", byPurpose[1])
	}
	if byPurpose[1].AvgLatencyMs != 200 {
		t.Errorf("avg latency = %d, want 200", byPurpose[1].AvgLatencyMs)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("by model: %v", err)
	}
	if len(byModel) != 2 {
		t.Fatalf("models = %d, want 2", len(byModel))
	}
	if byModel[0].Model != "gemini-2.5-flash" || byModel[0].Calls != 2 {
		t.Errorf("model usage = %+v", byModel[0])
	}
}

func TestConversationTurns(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	turns := []TurnData{
		{SessionID: "s1", TurnSeq: 0, Role: "user", Text: "Why is the track buffering?", Screen: "DailyPack"},
		{SessionID: "s1", TurnSeq: 1, Role: "assistant", Intent: "troubleshoot", Confidence: 0.8, ReplyJSON: `{"intent":"troubleshoot"}`},
		{SessionID: "s1", TurnSeq: 2, Role: "user", Text: "Thanks"},
	}
	for _, td := range turns {
		if err := repo.AppendTurn(ctx, td); err != nil {
			t.Fatalf("append turn: %v", err)
		}
	}

	got, err := repo.RecentTurns(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Chronological order, most recent last.
	if got[0].TurnSeq != 1 || got[1].TurnSeq != 2 {
		t.Errorf("turn order = %d,%d want 1,2", got[0].TurnSeq, got[1].TurnSeq)
	}
	if got[0].Intent != "troubleshoot" || got[0].Confidence != 0.8 {
		t.Errorf("assistant turn = %+v", got[0])
	}

	// Duplicate (session, seq) is rejected.
	if err := repo.AppendTurn(ctx, turns[0]); err == nil {
		t.Error("expected duplicate turn to be rejected")
	}
}

func TestPackEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	data := []PackEventData{
		{GoalID: "goal_english", PackID: "pack_day_1", DayNumber: 1, Action: PackActionCompleted, ItemsPlayed: 3},
		{GoalID: "goal_focus", PackID: "pack_day_1", DayNumber: 1, Action: PackActionCompleted, ItemsPlayed: 1},
		{GoalID: "goal_english", PackID: "pack_day_2", DayNumber: 2, Action: PackActionCompleted, ItemsPlayed: 2},
	}
	for _, d := range data {
		if err := repo.AppendPackEvent(ctx, d); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	english, err := repo.PackEvents(ctx, "goal_english")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(english) != 2 {
		t.Fatalf("len = %d, want 2", len(english))
	}
	if english[0].DayNumber != 1 || english[1].DayNumber != 2 {
		t.Errorf("days = %d,%d", english[0].DayNumber, english[1].DayNumber)
	}

	all, err := repo.PackEvents(ctx, "")
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len = %d, want 3", len(all))
	}
}

func TestSequenceSharedAcrossEventTypes(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendTurn(ctx, TurnData{SessionID: "s", Role: "user", Text: "hi"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendPackEvent(ctx, PackEventData{GoalID: "g", PackID: "p", DayNumber: 1, Action: PackActionCompleted}); err != nil {
		t.Fatal(err)
	}

	turns, _ := repo.RecentTurns(ctx, 0)
	packs, _ := repo.PackEvents(ctx, "")
	if len(turns) != 1 || len(packs) != 1 {
		t.Fatalf("turns=%d packs=%d", len(turns), len(packs))
	}
	if turns[0].Sequence >= packs[0].Sequence {
		t.Errorf("turn seq %d should precede pack seq %d", turns[0].Sequence, packs[0].Sequence)
	}
}
