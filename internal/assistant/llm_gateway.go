package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/skillbuilder/internal/llm"
)

// Config holds assistant generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds a single gateway call. Zero means no extra bound
	// beyond the caller's context.
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults for assistant replies.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.4,
		Timeout:     30 * time.Second,
	}
}

// LLMGateway answers learner messages with an llm.Provider.
type LLMGateway struct {
	provider llm.Provider
	cfg      Config
}

// NewLLMGateway creates a gateway backed by provider.
func NewLLMGateway(provider llm.Provider, cfg Config) *LLMGateway {
	return &LLMGateway{provider: provider, cfg: cfg}
}

func (g *LLMGateway) Send(ctx context.Context, message string, snap ContextSnapshot) (*Response, error) {
	ctx = llm.WithPurpose(ctx, "assistant")
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	req := llm.Request{
		System: buildSystemPrompt(snap),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: message},
		},
		Schema:      AssistantSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &GatewayError{Kind: KindTimeout, Err: fmt.Errorf("assistant request: %w", err)}
		}
		return nil, classify(fmt.Errorf("assistant request: %w", err))
	}

	return ParseResponse(resp.Content)
}
