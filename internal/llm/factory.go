package llm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNotConfigured is returned by NewProviderFromEnv when no credentials
// are available.
var ErrNotConfigured = errors.New("no LLM credentials configured")

// NewProvider builds the configured provider. Calls pass through retry
// (only when cfg.Retry.MaxAttempts > 1), then logging, then the SDK
// client, so each attempt is recorded separately.
func NewProvider(ctx context.Context, cfg Config, recorder EventRecorder, logger *zap.Logger) (Provider, error) {
	base, err := newBase(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := WithLogging(base, cfg.Provider, recorder, logger)
	if cfg.Retry.MaxAttempts > 1 {
		p = WithRetry(p, cfg.Retry, nil)
	}
	return p, nil
}

func newBase(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		return NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		return NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		return NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}

// NewProviderFromEnv resolves configuration from the environment and
// builds the provider. It returns an error wrapping ErrNotConfigured when
// no credentials are found, along with the config so callers can still
// read its timeout.
func NewProviderFromEnv(ctx context.Context, recorder EventRecorder, logger *zap.Logger) (Provider, Config, error) {
	cfg, ok := ResolveConfig()
	if !ok {
		if err := cfg.Validate(); err != nil {
			return nil, cfg, fmt.Errorf("%w: %v", ErrNotConfigured, err)
		}
		return nil, cfg, ErrNotConfigured
	}
	p, err := NewProvider(ctx, cfg, recorder, logger)
	return p, cfg, err
}
