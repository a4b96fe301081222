package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one request to a model and returns its output. When the
// request carries a Schema, the returned Content has already been
// validated against it.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Request is a single generation call.
type Request struct {
	System   string
	Messages []Message

	// Schema asks the provider for structured JSON output. Without it the
	// content is the model's raw text.
	Schema *Schema

	MaxTokens int

	// Temperature is sent only when positive, so zero leaves the
	// provider default in place.
	Temperature float64
}

// Message is one conversation turn sent to the model.
type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema for structured output.
type Schema struct {
	// Name is kebab-case, e.g. "assistant-response". It is also the
	// validator cache key, so definitions must not change under one name.
	Name        string
	Description string
	Definition  map[string]any

	// Lenient turns off provider-side strict mode. Strict mode requires
	// every property to be required, so schemas with optional fields set
	// this and rely on local validation instead.
	Lenient bool
}

// Stop is the normalized reason generation ended.
type Stop string

const (
	StopEnd       Stop = "end"
	StopMaxTokens Stop = "max_tokens"
)

// Response is a completed generation.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason Stop
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// checkContent validates content against the request schema. A failure
// after a max-tokens stop is reported as KindTruncated.
func checkContent(req Request, content json.RawMessage, stop Stop) error {
	err := validateResponse(req.Schema, content)
	if err == nil {
		return nil
	}
	if stop == StopMaxTokens {
		err.Kind = KindTruncated
	}
	return err
}
