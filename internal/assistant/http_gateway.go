package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxReplyBytes caps how much of a remote reply is read.
const maxReplyBytes = 1 << 20

type wireRequest struct {
	Message string          `json:"message"`
	Context ContextSnapshot `json:"context"`
}

// HTTPGateway posts learner messages to a remote assistant endpoint.
type HTTPGateway struct {
	url    string
	client *http.Client
}

// NewHTTPGateway creates a gateway for url. A zero timeout leaves the
// bound to the caller's context.
func NewHTTPGateway(url string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (g *HTTPGateway) Send(ctx context.Context, message string, snap ContextSnapshot) (*Response, error) {
	if snap.Topics == nil {
		snap.Topics = []string{}
	}
	body, err := json.Marshal(wireRequest{Message: message, Context: snap})
	if err != nil {
		return nil, &GatewayError{Kind: KindUnavailable, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return nil, &GatewayError{Kind: KindUnavailable, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &GatewayError{Kind: KindTimeout, Err: err}
		}
		return nil, &GatewayError{Kind: KindUnavailable, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &GatewayError{Kind: statusKind(resp.StatusCode), Err: fmt.Errorf("assistant endpoint returned %s", resp.Status)}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		if isTimeout(err) {
			return nil, &GatewayError{Kind: KindTimeout, Err: err}
		}
		return nil, &GatewayError{Kind: KindUnavailable, Err: fmt.Errorf("read reply: %w", err)}
	}

	return ParseResponse(raw)
}

// statusKind classifies a non-200 reply. Timeouts reported by the
// endpoint or a proxy in front of it count as KindTimeout.
func statusKind(status int) FailureKind {
	switch status {
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return KindTimeout
	default:
		return KindUnavailable
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
