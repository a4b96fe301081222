package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies a provider failure.
type Kind int

const (
	// KindUnavailable covers network failures, 5xx and anything unclassified.
	KindUnavailable Kind = iota
	KindRateLimited
	// KindInvalid means the content did not parse or match the schema.
	KindInvalid
	// KindTruncated means generation stopped at MaxTokens and the partial
	// content is unusable.
	KindTruncated
	// KindRejected is a 4xx the provider will repeat for the same request,
	// such as a bad key or a malformed request.
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindRateLimited:
		return "rate_limited"
	case KindInvalid:
		return "invalid"
	case KindTruncated:
		return "truncated"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Transient reports whether a retry may succeed.
func (k Kind) Transient() bool {
	return k == KindUnavailable || k == KindRateLimited
}

// Error is returned by every Provider in this package.
type Error struct {
	Kind Kind

	// Status is the HTTP status of the upstream reply, or 0.
	Status int

	// RetryAfter is the server's requested wait for rate limits.
	RetryAfter time.Duration

	// Content holds the rejected payload for KindInvalid and KindTruncated.
	Content json.RawMessage

	Err error
}

func (e *Error) Error() string {
	msg := "llm " + e.Kind.String()
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind carried by err. Errors that did not come from a
// Provider are reported as KindUnavailable with ok false.
func KindOf(err error) (kind Kind, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return KindUnavailable, false
}

// fromStatus maps an SDK error carrying an HTTP status onto an Error.
func fromStatus(status int, err error) *Error {
	kind := KindUnavailable
	switch {
	case status == http.StatusTooManyRequests:
		kind = KindRateLimited
	case status == http.StatusRequestTimeout:
	case status >= 400 && status < 500:
		kind = KindRejected
	}
	return &Error{Kind: kind, Status: status, Err: err}
}

func invalid(content json.RawMessage, format string, args ...any) *Error {
	return &Error{Kind: KindInvalid, Content: content, Err: fmt.Errorf(format, args...)}
}
