package llm

import "context"

type callKey struct{}

// Call labels one request for logging and event recording.
type Call struct {
	// Purpose names the consumer, e.g. "assistant".
	Purpose string

	// SessionID and ExchangeID tie the request to a conversation turn.
	SessionID  string
	ExchangeID string
}

// WithCall attaches call metadata to ctx, replacing any already present.
func WithCall(ctx context.Context, c Call) context.Context {
	return context.WithValue(ctx, callKey{}, c)
}

// CallFrom returns the metadata attached to ctx. Purpose defaults to
// "unknown".
func CallFrom(ctx context.Context) Call {
	c, _ := ctx.Value(callKey{}).(Call)
	if c.Purpose == "" {
		c.Purpose = "unknown"
	}
	return c
}

// WithPurpose sets only the purpose, keeping other call metadata.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	c, _ := ctx.Value(callKey{}).(Call)
	c.Purpose = purpose
	return WithCall(ctx, c)
}
