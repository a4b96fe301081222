package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/skillbuilder/internal/llm"
)

// Gateway sends one learner message with its context and returns the
// structured reply. Implementations must not retry.
type Gateway interface {
	Send(ctx context.Context, message string, snap ContextSnapshot) (*Response, error)
}

// FailureKind classifies a gateway failure.
type FailureKind int

const (
	KindNone FailureKind = iota
	KindUnavailable
	KindTimeout
	KindMalformedPayload
)

func (k FailureKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnavailable:
		return "unavailable"
	case KindTimeout:
		return "timeout"
	case KindMalformedPayload:
		return "malformed_payload"
	default:
		return "unknown"
	}
}

// GatewayError is the only error type a Gateway returns.
type GatewayError struct {
	Kind FailureKind
	Err  error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("assistant gateway %s: %v", e.Kind, e.Err)
	}
	return "assistant gateway " + e.Kind.String()
}

func (e *GatewayError) Unwrap() error { return e.Err }

// ErrNotConfigured is wrapped by UnconfiguredGateway failures.
var ErrNotConfigured = errors.New("assistant is not configured")

// UnconfiguredGateway stands in when no provider credential is available.
type UnconfiguredGateway struct{}

func (UnconfiguredGateway) Send(context.Context, string, ContextSnapshot) (*Response, error) {
	return nil, &GatewayError{Kind: KindUnavailable, Err: ErrNotConfigured}
}

// classify maps an arbitrary error onto a GatewayError.
func classify(err error) *GatewayError {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &GatewayError{Kind: KindTimeout, Err: err}
	}
	switch kind, _ := llm.KindOf(err); kind {
	case llm.KindInvalid, llm.KindTruncated:
		return &GatewayError{Kind: KindMalformedPayload, Err: err}
	default:
		return &GatewayError{Kind: KindUnavailable, Err: err}
	}
}

// FailureOf returns the kind carried by err, or KindNone for nil.
func FailureOf(err error) FailureKind {
	if err == nil {
		return KindNone
	}
	return classify(err).Kind
}
