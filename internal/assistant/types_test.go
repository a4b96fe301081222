package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_AbsentVersusEmpty(t *testing.T) {
	var resp Response
	require.NoError(t, json.Unmarshal([]byte(`{"intent":"x","confidence":0.5,"steps":[],"followUps":["a"]}`), &resp))

	assert.True(t, resp.HasSteps())
	assert.Empty(t, resp.Steps)
	assert.False(t, resp.HasChecklist())
	assert.False(t, resp.HasSuggestedActions())
	assert.True(t, resp.HasFollowUps())
	assert.False(t, resp.HasUncertainty())

	out, err := json.Marshal(resp)
	require.NoError(t, err)

	var again Response
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, resp.HasSteps(), again.HasSteps())
	assert.Equal(t, resp.HasChecklist(), again.HasChecklist())
	assert.NotContains(t, string(out), "uncertaintyExplanation")
}

func TestParseResponse(t *testing.T) {
	resp, err := ParseResponse([]byte(`{"intent":"greeting","confidence":1,"uncertaintyExplanation":""}`))
	require.NoError(t, err)
	assert.Equal(t, "greeting", resp.Intent)
	assert.True(t, resp.HasUncertainty(), "an empty explanation is still present")

	_, err = ParseResponse([]byte(`{"intent":"greeting","confidence":-0.1}`))
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, KindMalformedPayload, gwErr.Kind)
}

func TestTurn_IsFallback(t *testing.T) {
	assert.False(t, Turn{Role: RoleUser, Text: "hi"}.IsFallback())
	assert.True(t, Turn{Role: RoleAssistant, Text: FallbackText}.IsFallback())
	assert.False(t, Turn{Role: RoleAssistant, Reply: &Response{}}.IsFallback())
}

func TestGatewayError(t *testing.T) {
	inner := errors.New("connection refused")
	err := &GatewayError{Kind: KindUnavailable, Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "unavailable")

	_, err2 := UnconfiguredGateway{}.Send(context.Background(), "hi", ContextSnapshot{})
	assert.ErrorIs(t, err2, ErrNotConfigured)
	assert.Equal(t, KindUnavailable, FailureOf(err2))
	assert.Equal(t, KindNone, FailureOf(nil))
}
