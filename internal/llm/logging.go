package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/skillbuilder/internal/store"
)

const recordTimeout = 5 * time.Second

// EventRecorder persists one event per provider call. store.EventRepo
// satisfies it.
type EventRecorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// LoggingProvider logs every call and records it as an llm_request_event
// tagged with the Call attached to the context.
type LoggingProvider struct {
	inner    Provider
	name     string
	recorder EventRecorder
	logger   *zap.Logger
}

// WithLogging wraps p. A nil recorder only logs.
func WithLogging(p Provider, name string, recorder EventRecorder, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingProvider{inner: p, name: name, recorder: recorder, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	call := CallFrom(ctx)
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start)

	data := store.LLMRequestEventData{
		Provider:    l.name,
		Model:       l.inner.ModelID(),
		Purpose:     call.Purpose,
		SessionID:   call.SessionID,
		ExchangeID:  call.ExchangeID,
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: renderRequest(req),
	}
	if resp != nil {
		data.Model = resp.Model
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.ResponseBody = string(resp.Content)
	}

	fields := []zap.Field{
		zap.String("provider", l.name),
		zap.String("model", data.Model),
		zap.String("purpose", call.Purpose),
		zap.Duration("latency", latency),
	}
	if call.ExchangeID != "" {
		fields = append(fields, zap.String("exchange_id", call.ExchangeID))
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		kind, _ := KindOf(err)
		l.logger.Warn("llm request failed", append(fields, zap.Stringer("kind", kind), zap.Error(err))...)
	} else {
		l.logger.Debug("llm request", append(fields,
			zap.Int("input_tokens", data.InputTokens),
			zap.Int("output_tokens", data.OutputTokens),
		)...)
	}

	if l.recorder != nil {
		// The request context may already be past its deadline.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
		defer cancel()
		if rerr := l.recorder.AppendLLMRequest(rctx, data); rerr != nil {
			l.logger.Warn("failed to record llm request", zap.Error(rerr))
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// renderRequest is the human-readable request body shown by `llm view`.
func renderRequest(req Request) string {
	var b strings.Builder
	section := func(label, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", label, body)
	}

	if req.System != "" {
		section("system", req.System)
	}
	for _, m := range req.Messages {
		section(string(m.Role), m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			section("schema: "+req.Schema.Name, string(def))
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
